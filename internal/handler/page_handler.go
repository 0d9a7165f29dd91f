package handler

import (
	"bytes"
	"embed"
	"html/template"
	"math"
	"net/http"
	"strings"
	"time"

	"pdf-extract-demo/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

const pngDataURIPrefix = "data:image/png;base64,"

var pageTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	// Thumbnails are produced by the preview renderer; anything else is dropped.
	"dataURI": func(s string) template.URL {
		if !strings.HasPrefix(s, pngDataURIPrefix) {
			return ""
		}
		return template.URL(s)
	},
	// Document HTML comes from the markdown renderer, which omits raw HTML.
	"trustedHTML": func(s string) template.HTML {
		return template.HTML(s)
	},
}).ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	View           *domain.SessionView
	Strategies     []domain.Option
	Models         []domain.Option
	RefreshSeconds int
}

// PageHandler serves the demo page. Every action is a form post that
// redirects back to the page, which then reflects the session state.
type PageHandler struct {
	service     domain.ExtractService
	logger      domain.Logger
	maxFileSize int64
	refresh     int
}

func NewPageHandler(service domain.ExtractService, pollInterval time.Duration, maxFileSize int64, logger domain.Logger) *PageHandler {
	refresh := int(math.Ceil(pollInterval.Seconds()))
	if refresh < 1 {
		refresh = 1
	}
	return &PageHandler{
		service:     service,
		logger:      logger,
		maxFileSize: maxFileSize,
		refresh:     refresh,
	}
}

// Index handles GET /. A task left over from an earlier visit is resumed
// before the page is rendered.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := GetSessionIDFromContext(r)
	if !ok {
		http.Error(w, "Session not found", http.StatusUnauthorized)
		return
	}
	if _, err := h.service.Resume(r.Context(), sessionID); err != nil {
		h.logger.Error("Failed to resume task", err, "session_id", sessionID)
	}

	data := pageData{
		View:           h.service.View(sessionID),
		Strategies:     domain.Strategies,
		Models:         domain.Models,
		RefreshSeconds: h.refresh,
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.logger.Error("Failed to render page", err, "session_id", sessionID)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Select handles POST /select. Validation failures surface as the page status.
func (h *PageHandler) Select(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := GetSessionIDFromContext(r)
	if !ok {
		http.Error(w, "Session not found", http.StatusUnauthorized)
		return
	}
	file, err := h.readSelection(r)
	if err != nil {
		h.logger.Warn("Rejected upload", "session_id", sessionID, "error", err)
		h.service.RejectUpload(sessionID, err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if _, err := h.service.SelectFile(r.Context(), sessionID, file); err != nil {
		h.logger.Debug("File selection failed", "session_id", sessionID, "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandler) readSelection(r *http.Request) (*domain.SelectedFile, error) {
	if err := parseForm(r); err != nil {
		return nil, err
	}
	return readUpload(r, h.maxFileSize)
}

// Transform handles POST /transform.
func (h *PageHandler) Transform(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := GetSessionIDFromContext(r)
	if !ok {
		http.Error(w, "Session not found", http.StatusUnauthorized)
		return
	}
	if err := parseForm(r); err != nil {
		h.logger.Warn("Invalid transform form", "session_id", sessionID, "error", err)
	}
	if _, err := h.service.Submit(r.Context(), sessionID, readSubmitOptions(r)); err != nil {
		h.logger.Debug("Submission failed", "session_id", sessionID, "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Reset handles POST /reset.
func (h *PageHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := GetSessionIDFromContext(r)
	if !ok {
		http.Error(w, "Session not found", http.StatusUnauthorized)
		return
	}
	if err := h.service.Reset(r.Context(), sessionID); err != nil {
		h.logger.Error("Failed to reset session", err, "session_id", sessionID)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
