package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

// Fake Tingwu API for manual end-to-end runs. Tasks progress
// ONGOING -> ONGOING -> COMPLETED, one step per GetTaskInfo poll.
// Point the client at it with:
//   tingwu.endpoint: "http://localhost:9000/"

type fakeTask struct {
	TaskKey string
	FileUrl string
	Polls   int
}

var (
	mu    sync.Mutex
	tasks = map[string]*fakeTask{}
	seq   int
)

func apiHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		createTaskHandler(w, r)
	case http.MethodGet:
		getTaskInfoHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func createTaskHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Error reading body", http.StatusBadRequest)
		return
	}

	var req struct {
		AppKey string `json:"AppKey"`
		Input  struct {
			SourceLanguage string `json:"SourceLanguage"`
			FileUrl        string `json:"FileUrl"`
			TaskKey        string `json:"TaskKey"`
		} `json:"Input"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Error parsing JSON", http.StatusBadRequest)
		return
	}

	mu.Lock()
	seq++
	taskID := fmt.Sprintf("fake-task-%d", seq)
	tasks[taskID] = &fakeTask{TaskKey: req.Input.TaskKey, FileUrl: req.Input.FileUrl}
	mu.Unlock()

	log.Printf("CREATE TASK:")
	log.Printf("  Task ID: %s", taskID)
	log.Printf("  App Key: %s", req.AppKey)
	log.Printf("  File URL: %s", req.Input.FileUrl)
	log.Printf("  Source Language: %s", req.Input.SourceLanguage)
	log.Printf("  Authorization: %s", r.Header.Get("Authorization"))
	log.Printf("  x-acs-date: %s", r.Header.Get("x-acs-date"))
	log.Printf("  x-acs-content-sha256: %s", r.Header.Get("x-acs-content-sha256"))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"RequestId": fmt.Sprintf("req-%d", time.Now().UnixNano()),
		"Code":      "0",
		"Message":   "success",
		"Data": map[string]interface{}{
			"TaskId":     taskID,
			"TaskKey":    req.Input.TaskKey,
			"TaskStatus": "ONGOING",
		},
	})
}

func getTaskInfoHandler(w http.ResponseWriter, r *http.Request) {
	taskID := r.URL.Query().Get("TaskId")

	mu.Lock()
	task, ok := tasks[taskID]
	if ok {
		task.Polls++
	}
	mu.Unlock()

	if !ok {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	status := "ONGOING"
	data := map[string]interface{}{
		"TaskId":     taskID,
		"TaskKey":    task.TaskKey,
		"TaskStatus": status,
	}

	if task.Polls >= 3 {
		status = "COMPLETED"
		data["TaskStatus"] = status
		data["Result"] = map[string]interface{}{
			"Transcription": fmt.Sprintf("https://example.com/results/%s.json", taskID),
		}
	}

	log.Printf("GET TASK INFO: %s -> %s (poll %d)", taskID, status, task.Polls)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"RequestId": fmt.Sprintf("req-%d", time.Now().UnixNano()),
		"Code":      "0",
		"Message":   "success",
		"Data":      data,
	})
}

func main() {
	http.HandleFunc("/", apiHandler)

	port := ":9000"
	log.Printf("Fake Tingwu API starting on port %s", port)
	log.Printf("Endpoint: http://localhost%s/", port)
	log.Println("Update your config to use: http://localhost:9000/")

	if err := http.ListenAndServe(port, nil); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
