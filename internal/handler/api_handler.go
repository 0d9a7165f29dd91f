package handler

import (
	"net/http"

	"pdf-extract-demo/internal/domain"
)

// APIHandler exposes the extraction workflow as JSON for scripted clients.
type APIHandler struct {
	service     domain.ExtractService
	logger      domain.Logger
	maxFileSize int64
}

func NewAPIHandler(service domain.ExtractService, maxFileSize int64, logger domain.Logger) *APIHandler {
	return &APIHandler{
		service:     service,
		logger:      logger,
		maxFileSize: maxFileSize,
	}
}

type previewResponse struct {
	FileName  string             `json:"file_name"`
	PageCount int                `json:"page_count"`
	Pages     []domain.PageImage `json:"pages"`
}

type taskResponse struct {
	TaskID    string `json:"task_id"`
	ResultURL string `json:"result_url"`
	Status    string `json:"status"`
}

// Preview handles POST /api/v1/preview: select a file and return its page thumbnails.
func (h *APIHandler) Preview(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := GetSessionIDFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Session not found")
		return
	}
	if err := parseForm(r); err != nil {
		writeAppError(w, err)
		return
	}
	file, err := readUpload(r, h.maxFileSize)
	if err != nil {
		writeAppError(w, err)
		return
	}

	pages, err := h.service.SelectFile(r.Context(), sessionID, file)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, previewResponse{
		FileName:  file.Name,
		PageCount: len(pages),
		Pages:     pages,
	})
}

// CreateTask handles POST /api/v1/tasks. A file in the same request replaces
// the session's selection before submitting.
func (h *APIHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := GetSessionIDFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Session not found")
		return
	}
	if err := parseForm(r); err != nil {
		writeAppError(w, err)
		return
	}
	file, err := readUpload(r, h.maxFileSize)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if file != nil {
		if _, err := h.service.SelectFile(r.Context(), sessionID, file); err != nil {
			writeAppError(w, err)
			return
		}
	}

	taskID, err := h.service.Submit(r.Context(), sessionID, readSubmitOptions(r))
	if err != nil {
		writeAppError(w, err)
		return
	}

	view := h.service.View(sessionID)
	writeJSON(w, http.StatusAccepted, taskResponse{
		TaskID:    taskID,
		ResultURL: view.ResultURL,
		Status:    view.Status,
	})
}

// GetSession handles GET /api/v1/session, resuming a stored task first.
func (h *APIHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := GetSessionIDFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Session not found")
		return
	}
	if _, err := h.service.Resume(r.Context(), sessionID); err != nil {
		h.logger.Error("Failed to resume task", err, "session_id", sessionID)
	}
	writeJSON(w, http.StatusOK, h.service.View(sessionID))
}

// DeleteSession handles DELETE /api/v1/session.
func (h *APIHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := GetSessionIDFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Session not found")
		return
	}
	if err := h.service.Reset(r.Context(), sessionID); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
