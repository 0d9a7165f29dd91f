// Package repository holds the task stores that remember the in-flight task per session.
package repository

import (
	"fmt"
	"strings"

	"pdf-extract-demo/internal/domain"
)

var (
	_ domain.TaskStore = (*MemoryTaskStore)(nil)
	_ domain.TaskStore = (*RedisTaskStore)(nil)
	_ domain.TaskStore = (*SupabaseTaskStore)(nil)
	_ domain.TaskStore = (*FileTaskStore)(nil)
)

func validateKeys(sessionID, taskID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return &domain.ValidationError{Field: "session_id", Message: "session ID is required"}
	}
	if strings.TrimSpace(taskID) == "" {
		return &domain.ValidationError{Field: "task_id", Message: "task ID is required"}
	}
	return nil
}

func storeError(op string, err error) error {
	return fmt.Errorf("task store %s: %w", op, err)
}
