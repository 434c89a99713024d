package tingwu

import "encoding/json"

// Task status values reported by the service. The service may report further
// intermediate states; anything that is not terminal keeps the poll loop
// running.
const (
	StatusOngoing   = "ONGOING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// IsTerminal reports whether status ends the task lifecycle.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}

// CreateTaskRequest is the JSON body for the CreateTask call.
type CreateTaskRequest struct {
	AppKey     string         `json:"AppKey"`
	Input      TaskInput      `json:"Input"`
	Parameters TaskParameters `json:"Parameters"`
}

// TaskInput describes the audio source to transcribe.
type TaskInput struct {
	SourceLanguage string `json:"SourceLanguage"`
	FileUrl        string `json:"FileUrl"`
	TaskKey        string `json:"TaskKey"`
}

// TaskParameters carries the transcription options.
type TaskParameters struct {
	Transcription TranscriptionParameters `json:"Transcription"`
}

// TranscriptionParameters enables speaker diarization. SpeakerCount 0 lets
// the service detect the number of speakers automatically.
type TranscriptionParameters struct {
	DiarizationEnabled bool               `json:"DiarizationEnabled"`
	Diarization        DiarizationOptions `json:"Diarization"`
}

// DiarizationOptions configures speaker separation.
type DiarizationOptions struct {
	SpeakerCount int `json:"SpeakerCount"`
}

// TaskResponse is the envelope returned by both CreateTask and GetTaskInfo.
type TaskResponse struct {
	RequestId string   `json:"RequestId,omitempty"`
	Code      string   `json:"Code,omitempty"`
	Message   string   `json:"Message,omitempty"`
	Data      TaskData `json:"Data"`

	// Raw is the unparsed response body, kept so terminal results can be
	// emitted in full without re-marshaling losses.
	Raw json.RawMessage `json:"-"`
}

// TaskData is the task payload inside the response envelope.
type TaskData struct {
	TaskId        string          `json:"TaskId,omitempty"`
	TaskKey       string          `json:"TaskKey,omitempty"`
	TaskStatus    string          `json:"TaskStatus,omitempty"`
	ErrorCode     string          `json:"ErrorCode,omitempty"`
	ErrorMessage  string          `json:"ErrorMessage,omitempty"`
	Result        json.RawMessage `json:"Result,omitempty"`
	OutputMp3Path string          `json:"OutputMp3Path,omitempty"`
}
