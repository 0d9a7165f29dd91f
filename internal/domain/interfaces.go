package domain

import (
	"context"
	"time"
)

// ExtractAPI is the remote extraction service.
type ExtractAPI interface {
	UploadFile(ctx context.Context, req *ExtractRequest) (*UploadResponse, error)
	GetResult(ctx context.Context, taskID string) (*ResultResponse, error)
	ResultURL(taskID string) string
}

// PreviewRenderer turns PDF bytes into page images.
type PreviewRenderer interface {
	Validate(data []byte) (*PDFMetadata, error)
	Render(ctx context.Context, fileName string, data []byte) ([]PageImage, error)
}

// TaskStore keeps the single in-flight task identifier per session.
// Load returns ErrTaskNotFound when nothing is stored.
type TaskStore interface {
	Save(ctx context.Context, sessionID, taskID string) error
	Load(ctx context.Context, sessionID string) (string, error)
	Clear(ctx context.Context, sessionID string) error
}

// MarkdownRenderer converts the returned document to HTML.
type MarkdownRenderer interface {
	Render(markdown string) (string, error)
}

// ExtractService is the upload/poll controller used by the HTTP layer.
type ExtractService interface {
	SelectFile(ctx context.Context, sessionID string, file *SelectedFile) ([]PageImage, error)
	RejectUpload(sessionID string, err error)
	Submit(ctx context.Context, sessionID string, opts SubmitOptions) (string, error)
	Resume(ctx context.Context, sessionID string) (bool, error)
	Reset(ctx context.Context, sessionID string) error
	View(sessionID string) *SessionView
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetLogFormat() string
	GetMaxFileSize() int64
	GetExtractAPIURL() string
	GetExtractAPIUser() string
	GetExtractAPIPassword() string
	GetExtractUploadPath() string
	GetExtractResultPath() string
	GetRequestTimeout() time.Duration
	GetPollInterval() time.Duration
	GetPreviewDPI() float64
	GetSessionStore() string
	GetSessionFile() string
	GetSessionTTL() time.Duration
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetAllowedOrigins() []string
}
