package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"pdf-extract-demo/internal/domain"
	"pdf-extract-demo/internal/preview"
	apperrors "pdf-extract-demo/pkg/errors"
)

type contextKey string

const sessionContextKey contextKey = "session_id"

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temp files.
const multipartMemory = 32 << 20

// GetSessionIDFromContext extracts the session id set by SessionMiddleware.
func GetSessionIDFromContext(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(sessionContextKey).(string)
	return id, ok && id != ""
}

func withSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionContextKey, id)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeAppError maps err to a status code and a message safe to show users.
func writeAppError(w http.ResponseWriter, err error) {
	writeError(w, apperrors.GetStatusCode(err), apperrors.UserMessage(err))
}

// parseForm accepts both multipart and urlencoded bodies.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err == nil {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperrors.NewValidationError("File too large", err)
	}
	return apperrors.NewValidationError("Invalid form data", err)
}

// readUpload returns the file in the "file" field, or nil when the field is
// absent. The content type is sniffed when the browser did not declare one.
func readUpload(r *http.Request, maxSize int64) (*domain.SelectedFile, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid file upload", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid file upload", err)
	}
	if int64(len(data)) > maxSize {
		return nil, apperrors.NewValidationError("File too large", nil)
	}

	// Sanitize filename (strip any path components)
	name := strings.TrimSpace(filepath.Base(header.Filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "document"
	}

	return &domain.SelectedFile{
		Name:        name,
		ContentType: preview.DetectContentType(header.Header.Get("Content-Type"), data),
		Data:        data,
	}, nil
}

// readSubmitOptions reads the transformation settings from a parsed form.
// Missing fields keep their defaults.
func readSubmitOptions(r *http.Request) domain.SubmitOptions {
	opts := domain.DefaultSubmitOptions()
	opts.UsePrompt = isChecked(r.FormValue("use_prompt"))
	if _, ok := r.Form["prompt"]; ok {
		opts.Prompt = r.FormValue("prompt")
	}
	if v := strings.TrimSpace(r.FormValue("strategy")); v != "" {
		opts.Strategy = v
	}
	if v := strings.TrimSpace(r.FormValue("model")); v != "" {
		opts.Model = v
	}
	return opts
}

func isChecked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
