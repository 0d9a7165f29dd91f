package service

import (
	"context"
	"errors"
	"sync"

	"pdf-extract-demo/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})         {}
func (nopLogger) Error(string, error, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{})        {}
func (nopLogger) Warn(string, ...interface{})         {}

// MockExtractAPI replays scripted result responses and records uploads.
type MockExtractAPI struct {
	mu        sync.Mutex
	uploads   []*domain.ExtractRequest
	uploadErr error
	taskID    string

	results   []*domain.ResultResponse
	resultErr error
	polls     map[string]int
	// block, when set, holds every GetResult call until closed
	block chan struct{}
}

func NewMockExtractAPI(results ...*domain.ResultResponse) *MockExtractAPI {
	return &MockExtractAPI{taskID: "task-1", results: results, polls: make(map[string]int)}
}

func (m *MockExtractAPI) UploadFile(_ context.Context, req *domain.ExtractRequest) (*domain.UploadResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads = append(m.uploads, req)
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	return &domain.UploadResponse{TaskID: m.taskID}, nil
}

func (m *MockExtractAPI) GetResult(ctx context.Context, taskID string) (*domain.ResultResponse, error) {
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resultErr != nil {
		return nil, m.resultErr
	}
	n := m.polls[taskID]
	m.polls[taskID] = n + 1
	if len(m.results) == 0 {
		return nil, errors.New("no scripted results")
	}
	if n >= len(m.results) {
		n = len(m.results) - 1
	}
	return m.results[n], nil
}

func (m *MockExtractAPI) ResultURL(taskID string) string {
	return "https://api.example.com/ocr/result/" + taskID
}

func (m *MockExtractAPI) UploadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.uploads)
}

func (m *MockExtractAPI) PollCount(taskID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.polls[taskID]
}

func (m *MockExtractAPI) LastUpload() *domain.ExtractRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.uploads) == 0 {
		return nil
	}
	return m.uploads[len(m.uploads)-1]
}

// MockRenderer returns one page per call without touching MuPDF.
type MockRenderer struct {
	err   error
	calls int
}

func (r *MockRenderer) Validate(data []byte) (*domain.PDFMetadata, error) {
	return &domain.PDFMetadata{PageCount: 1, FileSize: int64(len(data))}, r.err
}

func (r *MockRenderer) Render(_ context.Context, fileName string, _ []byte) ([]domain.PageImage, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return []domain.PageImage{{DisplayName: fileName + "-1", Page: 1, DataURI: "data:image/png;base64,AA=="}}, nil
}

func pending(status string) *domain.ResultResponse {
	return &domain.ResultResponse{State: domain.TaskStatePending, Status: status}
}

func progress(status string, elapsed float64) *domain.ResultResponse {
	return &domain.ResultResponse{State: domain.TaskStateProgress, Status: status, Info: &domain.TaskInfo{ElapsedTime: &elapsed}}
}

func success(result string) *domain.ResultResponse {
	return &domain.ResultResponse{State: domain.TaskStateSuccess, Status: "Task completed", Result: &result}
}

func failure(status string) *domain.ResultResponse {
	return &domain.ResultResponse{State: domain.TaskStateFailure, Status: status}
}
