package tingwu

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// sleepFunc suspends the caller for d or until ctx is cancelled.
type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Poller drives a submitted task to a terminal state by calling GetTask at a
// fixed interval. Terminal states are COMPLETED and FAILED; every other
// status, including a failed poll call, keeps the loop running up to the
// configured bounds.
type Poller struct {
	client *Client
	logger *slog.Logger

	interval             time.Duration
	maxAttempts          int
	maxConsecutiveErrors int

	// sleep is injected so tests can run the loop without real time passing
	sleep sleepFunc
}

// NewPoller creates a poller over the given client, using the client's
// polling configuration.
func NewPoller(client *Client, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}

	maxErrors := client.config.MaxConsecutiveErrors
	if maxErrors <= 0 {
		maxErrors = 5
	}

	return &Poller{
		client:               client,
		logger:               logger,
		interval:             client.config.PollInterval,
		maxAttempts:          client.config.MaxPollAttempts,
		maxConsecutiveErrors: maxErrors,
		sleep:                sleepContext,
	}
}

// Wait polls the task until it reaches a terminal state and returns the final
// response. A FAILED task returns the final response together with a
// *TaskFailedError so the caller can both report the outcome and emit the
// full diagnostic payload. The loop aborts with an error when the configured
// attempt bound is exhausted or too many polls fail back to back.
func (p *Poller) Wait(ctx context.Context, taskID string) (*TaskResponse, error) {
	started := p.client.now()
	attempts := 0
	consecutiveErrors := 0

	for {
		if err := p.sleep(ctx, p.interval); err != nil {
			return nil, err
		}

		attempts++
		if p.maxAttempts > 0 && attempts > p.maxAttempts {
			return nil, fmt.Errorf("task %s still not terminal after %d polls", taskID, p.maxAttempts)
		}

		resp, err := p.client.GetTask(ctx, taskID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			consecutiveErrors++
			p.logger.Warn("Poll failed",
				slog.String("task_id", taskID),
				slog.Int("attempt", attempts),
				slog.Int("consecutive_errors", consecutiveErrors),
				slog.String("error", err.Error()),
			)

			if consecutiveErrors >= p.maxConsecutiveErrors {
				return nil, fmt.Errorf("polling aborted after %d consecutive failures: %w", consecutiveErrors, err)
			}
			continue
		}
		consecutiveErrors = 0

		status := resp.Data.TaskStatus
		p.logger.Info("Task status",
			slog.String("task_id", taskID),
			slog.String("status", status),
			slog.Int("attempt", attempts),
		)

		switch status {
		case StatusCompleted:
			p.recordTerminal(status, started)
			return resp, nil
		case StatusFailed:
			p.recordTerminal(status, started)
			return resp, &TaskFailedError{Response: resp}
		}
	}
}

func (p *Poller) recordTerminal(status string, started time.Time) {
	if p.client.metrics != nil {
		p.client.metrics.RecordTerminal(status, p.client.now().Sub(started).Seconds())
	}
}
