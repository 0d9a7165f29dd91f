package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pdf-extract-demo/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollUntilTerminal_Success(t *testing.T) {
	api := NewMockExtractAPI(pending("Task is pending"), progress("Processing", 1.234), success("X"))
	p := NewPoller(api, time.Millisecond, nopLogger{})

	var statuses []string
	outcome, err := p.PollUntilTerminal(context.Background(), "task-1", func(s string) {
		statuses = append(statuses, s)
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TaskStateSuccess, outcome.State)
	assert.Equal(t, "X", outcome.Document)
	assert.True(t, outcome.Succeeded())
	assert.Equal(t, []string{"Task is pending", "Processing (1.23s)"}, statuses)
	assert.Equal(t, 3, api.PollCount("task-1"))
}

func TestPollUntilTerminal_Failure(t *testing.T) {
	api := NewMockExtractAPI(pending("Task is pending"), failure("bad input"))
	p := NewPoller(api, time.Millisecond, nopLogger{})

	outcome, err := p.PollUntilTerminal(context.Background(), "task-1", nil)
	require.NoError(t, err)

	assert.Equal(t, domain.TaskStateFailure, outcome.State)
	assert.Equal(t, "bad input", outcome.Status)
	assert.Empty(t, outcome.Document)
	assert.False(t, outcome.Succeeded())
}

func TestPollUntilTerminal_UnknownStateStops(t *testing.T) {
	api := NewMockExtractAPI(&domain.ResultResponse{State: "REVOKED", Status: "gone"})
	p := NewPoller(api, time.Millisecond, nopLogger{})

	outcome, err := p.PollUntilTerminal(context.Background(), "task-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "unexpected task state: REVOKED", outcome.Status)
	assert.Equal(t, 1, api.PollCount("task-1"))
}

func TestPollUntilTerminal_TransportErrorNotRetried(t *testing.T) {
	api := NewMockExtractAPI(pending("x"))
	api.resultErr = errors.New("connection reset")
	p := NewPoller(api, time.Millisecond, nopLogger{})

	_, err := p.PollUntilTerminal(context.Background(), "task-1", nil)
	assert.EqualError(t, err, "connection reset")
}

func TestPollUntilTerminal_WaitsFixedInterval(t *testing.T) {
	api := NewMockExtractAPI(pending("a"), pending("b"), success("done"))
	interval := 20 * time.Millisecond
	p := NewPoller(api, interval, nopLogger{})

	start := time.Now()
	_, err := p.PollUntilTerminal(context.Background(), "task-1", nil)
	require.NoError(t, err)

	// Two non-terminal responses mean two full waits.
	assert.GreaterOrEqual(t, time.Since(start), 2*interval)
}

func TestPollUntilTerminal_CancelDuringWait(t *testing.T) {
	api := NewMockExtractAPI(pending("forever"))
	p := NewPoller(api, time.Hour, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	var once sync.Once
	done := make(chan error, 1)
	go func() {
		_, err := p.PollUntilTerminal(ctx, "task-1", func(string) { once.Do(cancel) })
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("poll loop did not stop on cancel")
	}
}

func TestNewPoller_DefaultInterval(t *testing.T) {
	p := NewPoller(NewMockExtractAPI(), 0, nopLogger{})
	assert.Equal(t, 2*time.Second, p.Interval())
}
