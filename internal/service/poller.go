package service

import (
	"context"
	"time"

	"pdf-extract-demo/internal/domain"
)

// DefaultPollInterval is the fixed wait between two result requests.
const DefaultPollInterval = 2 * time.Second

// Poller drives a task from PENDING/PROGRESS to SUCCESS or FAILURE.
//
// The loop is a four state machine with a single timer: a non-terminal state
// publishes its status line and arms the timer, a terminal state ends the loop.
// Requests are strictly sequential and there is no retry or backoff; a transport
// error ends the loop and is returned to the caller.
type Poller struct {
	api      domain.ExtractAPI
	interval time.Duration
	logger   domain.Logger
}

// NewPoller creates a poller; interval <= 0 uses DefaultPollInterval.
func NewPoller(api domain.ExtractAPI, interval time.Duration, logger domain.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{api: api, interval: interval, logger: logger}
}

// Interval returns the wait between polls.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// PollUntilTerminal queries the result endpoint until the task reaches a terminal
// state or ctx is cancelled. onStatus receives the status line of every
// non-terminal response.
func (p *Poller) PollUntilTerminal(ctx context.Context, taskID string, onStatus func(status string)) (*domain.TaskOutcome, error) {
	for attempt := 1; ; attempt++ {
		resp, err := p.api.GetResult(ctx, taskID)
		if err != nil {
			return nil, err
		}
		p.logger.Debug("Polled task", "task_id", taskID, "state", resp.State, "attempt", attempt)

		if !resp.State.IsTerminal() {
			if onStatus != nil {
				onStatus(resp.StatusText())
			}
			if err := p.wait(ctx); err != nil {
				return nil, err
			}
			continue
		}

		outcome := &domain.TaskOutcome{TaskID: taskID, State: resp.State, Status: resp.Status}
		switch {
		case !resp.State.IsKnown():
			p.logger.Warn("Task reported unknown state", "task_id", taskID, "state", resp.State)
			outcome.Status = domain.UnexpectedStateMessage(resp.State)
		case resp.State == domain.TaskStateSuccess:
			outcome.Document = resp.ResultText()
		}
		return outcome, nil
	}
}

func (p *Poller) wait(ctx context.Context) error {
	t := time.NewTimer(p.interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
