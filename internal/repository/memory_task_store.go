package repository

import (
	"context"
	"sync"

	"pdf-extract-demo/internal/domain"
)

// MemoryTaskStore keeps task identifiers in process memory.
type MemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[string]string
}

// NewMemoryTaskStore creates an empty in-memory store
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{tasks: make(map[string]string)}
}

func (s *MemoryTaskStore) Save(_ context.Context, sessionID, taskID string) error {
	if err := validateKeys(sessionID, taskID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[sessionID] = taskID
	return nil
}

func (s *MemoryTaskStore) Load(_ context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	taskID, ok := s.tasks[sessionID]
	if !ok {
		return "", domain.ErrTaskNotFound
	}
	return taskID, nil
}

func (s *MemoryTaskStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, sessionID)
	return nil
}
