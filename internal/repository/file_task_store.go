package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"pdf-extract-demo/internal/domain"

	"gopkg.in/yaml.v3"
)

// FileTaskStore keeps task identifiers in a YAML file. The CLI uses it so a later
// invocation can resume polling.
type FileTaskStore struct {
	mu   sync.Mutex
	path string
}

type fileEntry struct {
	TaskID    string    `yaml:"task_id"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

type fileState struct {
	Sessions map[string]fileEntry `yaml:"sessions"`
}

var errCorruptState = errors.New("corrupt state file")

// NewFileTaskStore creates a store backed by path. The file is created on first Save.
func NewFileTaskStore(path string) *FileTaskStore {
	return &FileTaskStore{path: path}
}

// Path returns the backing file.
func (s *FileTaskStore) Path() string { return s.path }

func (s *FileTaskStore) Save(_ context.Context, sessionID, taskID string) error {
	if err := validateKeys(sessionID, taskID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.read()
	if err != nil {
		return storeError("save", err)
	}
	st.Sessions[sessionID] = fileEntry{TaskID: taskID, UpdatedAt: time.Now().UTC()}
	if err := s.write(st); err != nil {
		return storeError("save", err)
	}
	return nil
}

func (s *FileTaskStore) Load(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.read()
	if err != nil {
		return "", storeError("load", err)
	}
	e, ok := st.Sessions[sessionID]
	if !ok || e.TaskID == "" {
		return "", domain.ErrTaskNotFound
	}
	return e.TaskID, nil
}

// Clear removes the session entry. A file that cannot be parsed is replaced
// with an empty state so a reset always recovers the store.
func (s *FileTaskStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.read()
	switch {
	case errors.Is(err, errCorruptState):
		st = &fileState{Sessions: make(map[string]fileEntry)}
	case err != nil:
		return storeError("clear", err)
	default:
		if _, ok := st.Sessions[sessionID]; !ok {
			return nil
		}
	}
	delete(st.Sessions, sessionID)
	if err := s.write(st); err != nil {
		return storeError("clear", err)
	}
	return nil
}

func (s *FileTaskStore) read() (*fileState, error) {
	st := &fileState{Sessions: make(map[string]fileEntry)}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", errCorruptState, s.path, err)
	}
	if st.Sessions == nil {
		st.Sessions = make(map[string]fileEntry)
	}
	return st, nil
}

// write replaces the file atomically via a temp file in the same directory
func (s *FileTaskStore) write(st *fileState) error {
	data, err := yaml.Marshal(st)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tasks-*.yaml")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
