package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// RouterConfig carries the middleware settings the router needs.
type RouterConfig struct {
	AllowedOrigins []string
	MaxFileSize    int64
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(
	pageHandler *PageHandler,
	apiHandler *APIHandler,
	sessionMiddleware func(http.Handler) http.Handler,
	loggingMiddleware func(http.Handler) http.Handler,
	cfg RouterConfig,
) http.Handler {
	router := mux.NewRouter()
	router.Use(loggingMiddleware)

	// Health check endpoint (no session required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"pdf-extract-demo"}`))
	}).Methods(http.MethodGet)

	// Routes bound to a browser session. Registered on the root router so a
	// wrong method answers 405 rather than 404.
	bodyLimit := BodyLimitMiddleware(cfg.MaxFileSize)
	session := func(h http.HandlerFunc) http.Handler {
		return sessionMiddleware(bodyLimit(h))
	}

	// Page routes
	router.Handle("/", session(pageHandler.Index)).Methods(http.MethodGet)
	router.Handle("/select", session(pageHandler.Select)).Methods(http.MethodPost)
	router.Handle("/transform", session(pageHandler.Transform)).Methods(http.MethodPost)
	router.Handle("/reset", session(pageHandler.Reset)).Methods(http.MethodPost)

	// JSON API routes
	router.Handle("/api/v1/preview", session(apiHandler.Preview)).Methods(http.MethodPost)
	router.Handle("/api/v1/tasks", session(apiHandler.CreateTask)).Methods(http.MethodPost)
	router.Handle("/api/v1/session", session(apiHandler.GetSession)).Methods(http.MethodGet)
	router.Handle("/api/v1/session", session(apiHandler.DeleteSession)).Methods(http.MethodDelete)

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
