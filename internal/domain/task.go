package domain

import (
	"fmt"
	"strings"
)

// TaskState is the lifecycle state reported by the extraction service.
type TaskState string

const (
	TaskStatePending  TaskState = "PENDING"
	TaskStateProgress TaskState = "PROGRESS"
	TaskStateSuccess  TaskState = "SUCCESS"
	TaskStateFailure  TaskState = "FAILURE"
)

// IsTerminal reports whether no further state change is expected.
// Anything other than PENDING or PROGRESS ends polling.
func (s TaskState) IsTerminal() bool {
	switch s {
	case TaskStatePending, TaskStateProgress:
		return false
	default:
		return true
	}
}

// IsKnown reports whether the state is one of the four the service documents.
func (s TaskState) IsKnown() bool {
	switch s {
	case TaskStatePending, TaskStateProgress, TaskStateSuccess, TaskStateFailure:
		return true
	}
	return false
}

// UploadResponse is returned by the upload endpoint.
type UploadResponse struct {
	TaskID string `json:"task_id"`
}

// TaskInfo carries optional progress details.
type TaskInfo struct {
	ElapsedTime *float64 `json:"elapsed_time,omitempty"`
}

// ResultResponse is returned by the result endpoint.
type ResultResponse struct {
	State  TaskState `json:"state"`
	Status string    `json:"status"`
	Result *string   `json:"result,omitempty"`
	Info   *TaskInfo `json:"info,omitempty"`
}

// StatusText renders the user-visible progress line, e.g. "Processing (3.25s)".
func (r *ResultResponse) StatusText() string {
	if r.Info != nil && r.Info.ElapsedTime != nil && *r.Info.ElapsedTime != 0 {
		return fmt.Sprintf("%s (%.2fs)", r.Status, *r.Info.ElapsedTime)
	}
	return r.Status
}

// ResultText returns the result body, or "" when the service sent none.
func (r *ResultResponse) ResultText() string {
	if r.Result == nil {
		return ""
	}
	return *r.Result
}

// TaskOutcome is what a finished poll loop hands back to its caller.
type TaskOutcome struct {
	TaskID   string    `json:"task_id"`
	State    TaskState `json:"state"`
	Status   string    `json:"status"`
	Document string    `json:"document,omitempty"`
}

// Succeeded reports whether the task finished with SUCCESS.
func (o *TaskOutcome) Succeeded() bool {
	return o.State == TaskStateSuccess
}

// UnexpectedStateMessage is surfaced when the service reports a state outside the known set.
func UnexpectedStateMessage(state TaskState) string {
	s := strings.TrimSpace(string(state))
	if s == "" {
		s = "empty"
	}
	return "unexpected task state: " + s
}
