package tingwu

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPoller wires a poller whose sleep returns immediately and records
// every requested interval, so the loop runs without real time passing.
func newTestPoller(t *testing.T, client *Client) (*Poller, *[]time.Duration) {
	t.Helper()

	p := NewPoller(client, testLogger())

	var slept []time.Duration
	p.sleep = func(ctx context.Context, d time.Duration) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		slept = append(slept, d)
		return nil
	}

	return p, &slept
}

func statusSequenceHandler(polls *atomic.Int32, statuses ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(polls.Add(1))
		status := statuses[len(statuses)-1]
		if n <= len(statuses) {
			status = statuses[n-1]
		}
		writeTask(w, TaskData{TaskId: "task-1", TaskStatus: status})
	})
}

func TestWaitCompletesOnThirdPoll(t *testing.T) {
	var polls atomic.Int32
	client, _ := newTestClient(t, statusSequenceHandler(&polls, "PENDING", "RUNNING", "COMPLETED"))

	p, slept := newTestPoller(t, client)

	resp, err := p.Wait(context.Background(), "task-1")
	require.NoError(t, err)

	assert.Equal(t, "COMPLETED", resp.Data.TaskStatus)
	assert.Equal(t, int32(3), polls.Load())
	assert.Len(t, *slept, 3, "the loop sleeps before every poll")
	assert.Equal(t, client.config.PollInterval, (*slept)[0])
}

func TestWaitFailedTerminatesImmediately(t *testing.T) {
	var polls atomic.Int32
	client, _ := newTestClient(t, statusSequenceHandler(&polls, "FAILED"))

	p, _ := newTestPoller(t, client)

	resp, err := p.Wait(context.Background(), "task-1")
	require.Error(t, err)

	// FAILED is a reported outcome: the final payload comes back with the
	// typed error, and the loop does not retry.
	var failed *TaskFailedError
	require.True(t, errors.As(err, &failed))
	require.NotNil(t, resp)
	assert.Equal(t, "FAILED", resp.Data.TaskStatus)
	assert.Equal(t, int32(1), polls.Load())
}

func TestWaitContinuesThroughIntermediateStates(t *testing.T) {
	var polls atomic.Int32
	client, _ := newTestClient(t, statusSequenceHandler(&polls,
		"PENDING", "QUEUEING", "ONGOING", "ONGOING", "COMPLETED"))

	p, _ := newTestPoller(t, client)

	resp, err := p.Wait(context.Background(), "task-1")
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", resp.Data.TaskStatus)
	assert.Equal(t, int32(5), polls.Load())
}

func TestWaitAbortsAfterConsecutiveErrors(t *testing.T) {
	var polls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		polls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	client.config.MaxConsecutiveErrors = 3

	p, _ := newTestPoller(t, client)

	_, err := p.Wait(context.Background(), "task-1")
	require.Error(t, err)

	var svcErr *ServiceError
	assert.True(t, errors.As(err, &svcErr))
	assert.Equal(t, int32(3), polls.Load())
}

func TestWaitErrorCounterResetsOnSuccess(t *testing.T) {
	var polls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch polls.Add(1) {
		case 1, 3:
			http.Error(w, "boom", http.StatusInternalServerError)
		case 2:
			writeTask(w, TaskData{TaskId: "task-1", TaskStatus: "ONGOING"})
		default:
			writeTask(w, TaskData{TaskId: "task-1", TaskStatus: "COMPLETED"})
		}
	}))
	client.config.MaxConsecutiveErrors = 2

	p, _ := newTestPoller(t, client)

	resp, err := p.Wait(context.Background(), "task-1")
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", resp.Data.TaskStatus)
	assert.Equal(t, int32(4), polls.Load())
}

func TestWaitRespectsMaxAttempts(t *testing.T) {
	var polls atomic.Int32
	client, _ := newTestClient(t, statusSequenceHandler(&polls, "ONGOING"))
	client.config.MaxPollAttempts = 2

	p, _ := newTestPoller(t, client)

	_, err := p.Wait(context.Background(), "task-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not terminal after 2 polls")
	assert.Equal(t, int32(2), polls.Load())
}

func TestWaitStopsOnCancel(t *testing.T) {
	var polls atomic.Int32
	client, _ := newTestClient(t, statusSequenceHandler(&polls, "ONGOING"))

	p, _ := newTestPoller(t, client)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Wait(ctx, "task-1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), polls.Load())
}

func TestSleepContext(t *testing.T) {
	start := time.Now()
	require.NoError(t, sleepContext(context.Background(), 10*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
