// Package extractapi is a client for the remote PDF extraction service.
package extractapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"pdf-extract-demo/internal/domain"
	apperrors "pdf-extract-demo/pkg/errors"
)

const (
	DefaultUploadPath = "ocr/upload"
	DefaultResultPath = "ocr/result/"
	defaultUserAgent  = "pdf-extract-demo/1.0"

	// maxErrorBody caps how much of a failed response is read for its message.
	maxErrorBody = 64 << 10
)

// Logger is the subset of domain.Logger the client uses.
type Logger interface {
	Debug(msg string, fields ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}

// Client talks to the upload and result endpoints.
type Client struct {
	baseURL    *url.URL
	http       *http.Client
	user       string
	password   string
	userAgent  string
	uploadPath string
	resultPath string
	logger     Logger
}

var _ domain.ExtractAPI = (*Client)(nil)

// NewClient creates a client for the service rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("extract API base URL is required")
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing extract API base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("extract API base URL must be http(s): %s", baseURL)
	}

	c := &Client{
		baseURL:    u,
		http:       &http.Client{},
		userAgent:  defaultUserAgent,
		uploadPath: DefaultUploadPath,
		resultPath: DefaultResultPath,
		logger:     nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// UploadFile posts the file and options as multipart form data and returns the task id.
func (c *Client) UploadFile(ctx context.Context, req *domain.ExtractRequest) (*domain.UploadResponse, error) {
	if req == nil || len(req.File) == 0 {
		return nil, apperrors.NewValidationError("file is required", domain.ErrNoFileSelected)
	}

	body, contentType, err := encodeUpload(req)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build upload request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(c.uploadPath), body)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create upload request", err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	c.logger.Debug("Uploading file to extraction service", "file", req.FileName, "size", len(req.File), "strategy", req.Strategy, "model", req.Model)

	var out domain.UploadResponse
	if err := c.do(httpReq, &out); err != nil {
		return nil, err
	}
	if out.TaskID == "" {
		return nil, apperrors.NewUpstreamError("extraction service returned no task id", http.StatusOK)
	}
	return &out, nil
}

// GetResult fetches the current state of a task.
func (c *Client) GetResult(ctx context.Context, taskID string) (*domain.ResultResponse, error) {
	if strings.TrimSpace(taskID) == "" {
		return nil, apperrors.NewValidationError("task id is required", domain.ErrTaskNotFound)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ResultURL(taskID), nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create result request", err)
	}

	var out domain.ResultResponse
	if err := c.do(httpReq, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResultURL is the public URL of a task's result, usable with curl.
func (c *Client) ResultURL(taskID string) string {
	return c.endpoint(c.resultPath + url.PathEscape(taskID))
}

func (c *Client) endpoint(p string) string {
	ref, err := url.Parse(strings.TrimPrefix(p, "/"))
	if err != nil {
		return c.baseURL.String() + strings.TrimPrefix(p, "/")
	}
	return c.baseURL.ResolveReference(ref).String()
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.user != "" || c.password != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return apperrors.NewNetworkError(err.Error(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := errorMessage(raw)
		if msg == "" {
			msg = fmt.Sprintf("extraction service returned %s", resp.Status)
		}
		c.logger.Debug("Extraction service error", "url", req.URL.String(), "status", resp.StatusCode, "message", msg)
		return apperrors.NewUpstreamError(msg, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewUpstreamError("invalid response from extraction service: "+err.Error(), resp.StatusCode)
	}
	return nil
}

// errorMessage pulls a human readable message out of an error body.
// FastAPI style {"detail": "..."} is tried first.
func errorMessage(raw []byte) string {
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, key := range []string{"detail", "error", "message", "status"} {
			switch v := body[key].(type) {
			case string:
				if v != "" {
					return v
				}
			case nil:
			default:
				if b, err := json.Marshal(v); err == nil {
					return string(b)
				}
			}
		}
		return ""
	}
	return strings.TrimSpace(string(raw))
}

func encodeUpload(req *domain.ExtractRequest) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	name := req.FileName
	if name == "" {
		name = "document.pdf"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	h.Set("Content-Type", domain.ContentTypePDF)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(req.File); err != nil {
		return nil, "", err
	}

	fields := [][2]string{
		{"strategy", req.Strategy},
		{"model", req.Model},
		{"ocr_cache", strconv.FormatBool(req.OCRCache)},
	}
	if req.Prompt != "" {
		fields = append([][2]string{{"prompt", req.Prompt}}, fields...)
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
