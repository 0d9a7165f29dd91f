package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pdf-extract-demo/internal/domain"
)

const sessionsTable = "extract_sessions"

// SupabaseTaskStore keeps task identifiers in the extract_sessions table.
type SupabaseTaskStore struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

type sessionRow struct {
	SessionID string    `json:"session_id"`
	TaskID    string    `json:"task_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSupabaseTaskStore creates a new Supabase-backed task store
func NewSupabaseTaskStore(supabaseClient domain.SupabaseClient, logger domain.Logger) *SupabaseTaskStore {
	return &SupabaseTaskStore{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// Save upserts the task id for the session
func (r *SupabaseTaskStore) Save(_ context.Context, sessionID, taskID string) error {
	if err := validateKeys(sessionID, taskID); err != nil {
		return err
	}
	client := r.supabaseClient.DB()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	row := sessionRow{SessionID: sessionID, TaskID: taskID, UpdatedAt: time.Now().UTC()}
	_, _, err := client.From(sessionsTable).
		Upsert(row, "session_id", "minimal", "").
		Execute()
	if err != nil {
		return storeError("save", err)
	}

	r.logger.Debug("Task id stored", "session_id", sessionID, "task_id", taskID)
	return nil
}

// Load returns the stored task id or domain.ErrTaskNotFound
func (r *SupabaseTaskStore) Load(_ context.Context, sessionID string) (string, error) {
	client := r.supabaseClient.DB()
	if client == nil {
		return "", fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From(sessionsTable).
		Select("session_id,task_id,updated_at", "", false).
		Eq("session_id", sessionID).
		Execute()
	if err != nil {
		return "", storeError("load", err)
	}

	var rows []sessionRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 || rows[0].TaskID == "" {
		return "", domain.ErrTaskNotFound
	}
	return rows[0].TaskID, nil
}

// Clear deletes the session row
func (r *SupabaseTaskStore) Clear(_ context.Context, sessionID string) error {
	client := r.supabaseClient.DB()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	_, _, err := client.From(sessionsTable).
		Delete("minimal", "").
		Eq("session_id", sessionID).
		Execute()
	if err != nil {
		return storeError("clear", err)
	}
	return nil
}
