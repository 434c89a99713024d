package tingwu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/skypro1111/tingwu-transcribe/internal/metrics"
	"github.com/skypro1111/tingwu-transcribe/internal/signer"
)

// API action names, carried in x-acs-action and covered by the signature.
const (
	actionCreateTask  = "CreateTask"
	actionGetTaskInfo = "GetTaskInfo"
)

// Client provides HTTP client functionality for the Tingwu transcription API
type Client struct {
	config     Config
	signer     *signer.Signer
	appKey     string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics

	// now is the clock used for timestamps, nonces and task keys.
	// Injected so tests can pin signing inputs.
	now func() time.Time

	// Job state snapshot for the monitoring endpoint
	job JobSnapshot
	mu  sync.RWMutex
}

// Config contains Tingwu client configuration
type Config struct {
	Endpoint             string
	APIVersion           string
	SourceLanguage       string
	Timeout              time.Duration
	PollInterval         time.Duration
	MaxPollAttempts      int
	MaxConsecutiveErrors int
}

// JobSnapshot is the monitoring view of the in-flight task
type JobSnapshot struct {
	TaskId      string    `json:"task_id"`
	FileUrl     string    `json:"file_url"`
	Status      string    `json:"status"`
	Polls       int       `json:"polls"`
	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewClient creates a new Tingwu API client
func NewClient(config Config, creds signer.Credentials, logger *slog.Logger, m *metrics.Metrics) (*Client, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint cannot be empty")
	}

	if config.APIVersion == "" {
		config.APIVersion = "2023-09-30"
	}

	if config.SourceLanguage == "" {
		config.SourceLanguage = "en"
	}

	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	if config.PollInterval <= 0 {
		config.PollInterval = 10 * time.Second
	}

	if logger == nil {
		logger = slog.Default()
	}

	httpClient := &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &Client{
		config:     config,
		signer:     signer.New(creds),
		appKey:     creds.AppKey,
		httpClient: httpClient,
		logger:     logger,
		metrics:    m,
		now:        time.Now,
	}, nil
}

// CreateTask submits a transcription task for the given file URL and returns
// the service response carrying the assigned TaskId. A non-2xx answer is
// returned as *ServiceError with the raw body; submission is never retried.
func (c *Client) CreateTask(ctx context.Context, fileURL string) (*TaskResponse, error) {
	now := c.now()

	reqBody := CreateTaskRequest{
		AppKey: c.appKey,
		Input: TaskInput{
			SourceLanguage: c.config.SourceLanguage,
			FileUrl:        fileURL,
			TaskKey:        fmt.Sprintf("task_%d", now.Unix()),
		},
		Parameters: TaskParameters{
			Transcription: TranscriptionParameters{
				DiarizationEnabled: true,
				Diarization:        DiarizationOptions{SpeakerCount: 0},
			},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	headers := map[string]string{
		"Content-Type":              "application/json",
		signer.HeaderAction:         actionCreateTask,
		signer.HeaderVersion:        c.config.APIVersion,
		signer.HeaderDate:           signer.Timestamp(now),
		signer.HeaderSignatureNonce: signer.Nonce(now),
	}

	c.logger.Debug("Submitting task",
		slog.String("file_url", fileURL),
		slog.String("task_key", reqBody.Input.TaskKey),
		slog.String("source_language", c.config.SourceLanguage),
	)

	start := time.Now()
	resp, err := c.doRequest(ctx, http.MethodPost, c.config.Endpoint, headers, body)
	if c.metrics != nil {
		c.metrics.RecordSubmit(time.Since(start).Seconds(), err == nil)
		c.metrics.RecordAPIRequest(actionCreateTask, outcome(err), time.Since(start).Seconds())
	}
	if err != nil {
		return nil, err
	}

	c.setJob(JobSnapshot{
		TaskId:      resp.Data.TaskId,
		FileUrl:     fileURL,
		Status:      "SUBMITTED",
		SubmittedAt: now,
		UpdatedAt:   now,
	})

	return resp, nil
}

// GetTask queries the current status of a task. The TaskId query parameter is
// appended verbatim because the signature covers the raw query string.
func (c *Client) GetTask(ctx context.Context, taskID string) (*TaskResponse, error) {
	now := c.now()

	rawURL := c.config.Endpoint + "?TaskId=" + taskID

	headers := map[string]string{
		signer.HeaderAction:         actionGetTaskInfo,
		signer.HeaderVersion:        c.config.APIVersion,
		signer.HeaderDate:           signer.Timestamp(now),
		signer.HeaderSignatureNonce: signer.Nonce(now),
	}

	c.logger.Debug("Querying task status", slog.String("task_id", taskID))

	start := time.Now()
	resp, err := c.doRequest(ctx, http.MethodGet, rawURL, headers, nil)
	if c.metrics != nil {
		c.metrics.RecordPoll(err == nil)
		c.metrics.RecordAPIRequest(actionGetTaskInfo, outcome(err), time.Since(start).Seconds())
	}
	if err != nil {
		return nil, err
	}

	c.updateJob(resp.Data.TaskStatus)

	return resp, nil
}

// doRequest signs and performs a single HTTP request against the API
func (c *Client) doRequest(ctx context.Context, method, rawURL string, headers map[string]string, body []byte) (*TaskResponse, error) {
	headers, err := c.signer.Sign(method, rawURL, headers, body)
	if err != nil {
		return nil, fmt.Errorf("failed to sign request: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	for name, value := range headers {
		httpReq.Header.Set(name, value)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var taskResp TaskResponse
	if err := json.Unmarshal(respBody, &taskResp); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}
	taskResp.Raw = respBody

	return &taskResp, nil
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *Client) setJob(job JobSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.job = job
}

func (c *Client) updateJob(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if status != "" {
		c.job.Status = status
	}
	c.job.Polls++
	c.job.UpdatedAt = c.now()
}

// Job returns a snapshot of the in-flight task for monitoring
func (c *Client) Job() JobSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.job
}
