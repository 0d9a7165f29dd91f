package handler

import (
	"net/http"
	"time"

	"pdf-extract-demo/internal/domain"

	"github.com/google/uuid"
)

// SessionCookieName identifies the browser session a task belongs to.
const SessionCookieName = "pdf_extract_session"

// multipartOverhead is added to the body limit for form fields and part headers.
const multipartOverhead = 1 << 20

// SessionMiddleware attaches a session id to every request, issuing a new
// cookie when the browser has none or sends one that is not a UUID.
func SessionMiddleware(ttl time.Duration, secure bool, logger domain.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID string
			if c, err := r.Cookie(SessionCookieName); err == nil {
				if id, err := uuid.Parse(c.Value); err == nil {
					sessionID = id.String()
				}
			}

			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
				logger.Debug("Issued session", "session_id", sessionID, "path", r.URL.Path)
			}

			next.ServeHTTP(w, r.WithContext(withSessionID(r.Context(), sessionID)))
		})
	}
}

// BodyLimitMiddleware caps request bodies at the configured upload size.
func BodyLimitMiddleware(maxFileSize int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxFileSize+multipartOverhead)
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs one line per request.
func LoggingMiddleware(logger domain.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Debug("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
