package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestRouter(svc *MockExtractService) http.Handler {
	logger := NewMockHandlerLogger()
	return NewRouter(
		NewPageHandler(svc, 2*time.Second, 1<<20, logger),
		NewAPIHandler(svc, 1<<20, logger),
		SessionMiddleware(time.Hour, false, logger),
		LoggingMiddleware(logger),
		RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}, MaxFileSize: 1 << 20},
	)
}

func TestNewRouter_Health(t *testing.T) {
	router := newTestRouter(NewMockExtractService())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Fatalf("health check should not issue a session")
	}
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(NewMockExtractService())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/session", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}

func TestNewRouter_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(NewMockExtractService())

	tests := []struct {
		method string
		path   string
	}{
		// Page form targets only accept POST
		{method: http.MethodGet, path: "/transform"},
		{method: http.MethodGet, path: "/select"},
		// The page itself is GET only
		{method: http.MethodPut, path: "/"},
		// JSON API routes
		{method: http.MethodGet, path: "/api/v1/tasks"},
		{method: http.MethodPut, path: "/api/v1/session"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			if rr.Code != http.StatusMethodNotAllowed {
				t.Fatalf("expected status %d, got %d", http.StatusMethodNotAllowed, rr.Code)
			}
		})
	}
}

func TestNewRouter_UnknownPath(t *testing.T) {
	router := newTestRouter(NewMockExtractService())

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}
