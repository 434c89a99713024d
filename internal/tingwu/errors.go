package tingwu

import "fmt"

// ServiceError is returned when the API answers with a non-2xx status. The
// raw body is retained so the operator sees the gateway's diagnostic.
type ServiceError struct {
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service returned HTTP %d: %s", e.StatusCode, e.Body)
}

// TaskFailedError reports a task that reached the FAILED terminal state. It
// is an expected outcome, not a transport or client fault; the full final
// response is attached for diagnostics.
type TaskFailedError struct {
	Response *TaskResponse
}

func (e *TaskFailedError) Error() string {
	if e.Response != nil && e.Response.Data.ErrorMessage != "" {
		return fmt.Sprintf("task %s failed: %s (%s)",
			e.Response.Data.TaskId, e.Response.Data.ErrorMessage, e.Response.Data.ErrorCode)
	}
	if e.Response != nil {
		return fmt.Sprintf("task %s failed", e.Response.Data.TaskId)
	}
	return "task failed"
}
