package handler

import (
	"context"
	"sync"

	"pdf-extract-demo/internal/domain"
	apperrors "pdf-extract-demo/pkg/errors"
)

// Mock logger used by handler package tests.
type MockHandlerLogger struct{}

func NewMockHandlerLogger() domain.Logger {
	return &MockHandlerLogger{}
}

func (l *MockHandlerLogger) Info(msg string, fields ...interface{})             {}
func (l *MockHandlerLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *MockHandlerLogger) Debug(msg string, fields ...interface{})            {}
func (l *MockHandlerLogger) Warn(msg string, fields ...interface{})             {}

// MockExtractService records calls and keeps one view per session.
type MockExtractService struct {
	mu sync.Mutex

	views     map[string]*domain.SessionView
	selected  map[string]*domain.SelectedFile
	submitted []domain.SubmitOptions
	resumed   []string
	resets    []string
	rejected  []error

	selectErr error
	submitErr error
	resetErr  error
	taskID    string
}

func NewMockExtractService() *MockExtractService {
	return &MockExtractService{
		views:    make(map[string]*domain.SessionView),
		selected: make(map[string]*domain.SelectedFile),
		taskID:   "task-1",
	}
}

func (m *MockExtractService) view(sessionID string) *domain.SessionView {
	v, ok := m.views[sessionID]
	if !ok {
		v = &domain.SessionView{SessionID: sessionID, Pages: []domain.PageImage{}, Options: domain.DefaultSubmitOptions()}
		m.views[sessionID] = v
	}
	return v
}

func (m *MockExtractService) SelectFile(ctx context.Context, sessionID string, file *domain.SelectedFile) ([]domain.PageImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.view(sessionID)
	if file == nil {
		v.Status = domain.StatusSelectFileFirst
		return nil, apperrors.NewValidationError(domain.StatusSelectFileFirst, domain.ErrNoFileSelected)
	}
	if !file.IsPDF() {
		v.Status = domain.StatusUnsupportedFile
		return nil, apperrors.NewValidationError(domain.StatusUnsupportedFile, domain.ErrUnsupportedFileType)
	}
	if m.selectErr != nil {
		return nil, m.selectErr
	}
	m.selected[sessionID] = file
	v.FileName = file.Name
	v.Pages = []domain.PageImage{
		{DisplayName: file.Name + "-1", Page: 1, DataURI: "data:image/png;base64,AAAA"},
	}
	return v.Pages, nil
}

func (m *MockExtractService) RejectUpload(sessionID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected = append(m.rejected, err)
	m.view(sessionID).Status = apperrors.UserMessage(err)
}

func (m *MockExtractService) Submit(ctx context.Context, sessionID string, opts domain.SubmitOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitted = append(m.submitted, opts)
	v := m.view(sessionID)
	v.Options = opts
	if m.submitErr != nil {
		v.Status = apperrors.UserMessage(m.submitErr)
		return "", m.submitErr
	}
	if m.selected[sessionID] == nil {
		v.Status = domain.StatusSelectFileFirst
		return "", apperrors.NewValidationError(domain.StatusSelectFileFirst, domain.ErrNoFileSelected)
	}
	v.TaskID = m.taskID
	v.ResultURL = "https://api.example.com/ocr/result/" + m.taskID
	v.Polling = true
	v.Status = "Processing"
	return m.taskID, nil
}

func (m *MockExtractService) Resume(ctx context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumed = append(m.resumed, sessionID)
	return false, nil
}

func (m *MockExtractService) Reset(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, sessionID)
	if m.resetErr != nil {
		return m.resetErr
	}
	delete(m.views, sessionID)
	delete(m.selected, sessionID)
	return nil
}

func (m *MockExtractService) View(sessionID string) *domain.SessionView {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := *m.view(sessionID)
	return &v
}

// setView replaces the stored view, e.g. to simulate a finished task.
func (m *MockExtractService) setView(v *domain.SessionView) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views[v.SessionID] = v
}
