package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the transcription client
type Metrics struct {
	// Task submission metrics
	TasksSubmitted prometheus.Counter
	SubmitFailures prometheus.Counter
	SubmitDuration prometheus.Histogram

	// Polling metrics
	Polls          prometheus.Counter
	PollErrors     prometheus.Counter
	TasksCompleted prometheus.Counter
	TasksFailed    prometheus.Counter
	TaskDuration   prometheus.Histogram

	// Signed request metrics
	APIRequests        *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec

	// Monitoring HTTP server metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPErrors          *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		// Task submission metrics
		TasksSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tingwu_tasks_submitted_total",
			Help: "Total number of transcription tasks submitted",
		}),
		SubmitFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tingwu_submit_failures_total",
			Help: "Total number of failed task submissions",
		}),
		SubmitDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tingwu_submit_duration_seconds",
			Help:    "Duration of CreateTask requests",
			Buckets: prometheus.DefBuckets,
		}),

		// Polling metrics
		Polls: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tingwu_polls_total",
			Help: "Total number of GetTaskInfo polls issued",
		}),
		PollErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tingwu_poll_errors_total",
			Help: "Total number of failed GetTaskInfo polls",
		}),
		TasksCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tingwu_tasks_completed_total",
			Help: "Total number of tasks that reached COMPLETED",
		}),
		TasksFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tingwu_tasks_failed_total",
			Help: "Total number of tasks that reached FAILED",
		}),
		TaskDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tingwu_task_duration_seconds",
			Help:    "Time from submission to a terminal task state",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10s to ~3 hours
		}),

		// Signed request metrics
		APIRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tingwu_api_requests_total",
			Help: "Total number of signed API requests by action and outcome",
		}, []string{"action", "outcome"}),
		APIRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tingwu_api_request_duration_seconds",
			Help:    "Duration of signed API requests by action",
			Buckets: prometheus.DefBuckets,
		}, []string{"action"}),

		// Monitoring HTTP server metrics
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tingwu_http_requests_total",
			Help: "Total number of monitoring HTTP requests",
		}, []string{"method", "endpoint", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tingwu_http_request_duration_seconds",
			Help:    "Duration of monitoring HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		HTTPErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tingwu_http_errors_total",
			Help: "Total number of monitoring HTTP errors",
		}, []string{"method", "endpoint", "error_type"}),
	}
}

// RecordHTTPRequest records a monitoring HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint, status string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordHTTPError records a monitoring HTTP error
func (m *Metrics) RecordHTTPError(method, endpoint, errorType string) {
	m.HTTPErrors.WithLabelValues(method, endpoint, errorType).Inc()
}

// RecordSubmit records a CreateTask attempt
func (m *Metrics) RecordSubmit(durationSeconds float64, success bool) {
	m.TasksSubmitted.Inc()
	m.SubmitDuration.Observe(durationSeconds)
	if !success {
		m.SubmitFailures.Inc()
	}
}

// RecordPoll records a GetTaskInfo attempt
func (m *Metrics) RecordPoll(success bool) {
	m.Polls.Inc()
	if !success {
		m.PollErrors.Inc()
	}
}

// RecordTerminal records a task reaching a terminal state
func (m *Metrics) RecordTerminal(status string, taskDurationSeconds float64) {
	switch status {
	case "COMPLETED":
		m.TasksCompleted.Inc()
	case "FAILED":
		m.TasksFailed.Inc()
	}
	m.TaskDuration.Observe(taskDurationSeconds)
}

// RecordAPIRequest records a signed API request by action name
func (m *Metrics) RecordAPIRequest(action, outcome string, durationSeconds float64) {
	m.APIRequests.WithLabelValues(action, outcome).Inc()
	m.APIRequestDuration.WithLabelValues(action).Observe(durationSeconds)
}
