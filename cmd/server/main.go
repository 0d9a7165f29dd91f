package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pdf-extract-demo/internal/config"
	"pdf-extract-demo/internal/handler"

	"github.com/joho/godotenv"
)

const (
	shutdownTimeout = 10 * time.Second
	pruneInterval   = 10 * time.Minute
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}
	// Wiring
	container, err := config.NewContainer()
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	cfg := container.Config

	// Handlers
	pageHandler := handler.NewPageHandler(
		container.ExtractService,
		cfg.GetPollInterval(),
		cfg.GetMaxFileSize(),
		container.Logger,
	)
	apiHandler := handler.NewAPIHandler(
		container.ExtractService,
		cfg.GetMaxFileSize(),
		container.Logger,
	)

	// Router
	router := handler.NewRouter(
		pageHandler,
		apiHandler,
		handler.SessionMiddleware(cfg.GetSessionTTL(), secureCookies(cfg.GetAllowedOrigins()), container.Logger),
		handler.LoggingMiddleware(container.Logger),
		handler.RouterConfig{
			AllowedOrigins: cfg.GetAllowedOrigins(),
			MaxFileSize:    cfg.GetMaxFileSize(),
		},
	)

	// start server
	server := &http.Server{
		Addr:              ":" + cfg.GetServerPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Forget idle sessions so the in-memory view does not grow forever.
	pruneCtx, stopPrune := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(pruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-pruneCtx.Done():
				return
			case <-ticker.C:
				if n := container.ExtractService.PruneIdle(cfg.GetSessionTTL()); n > 0 {
					container.Logger.Debug("Pruned idle sessions", "count", n)
				}
			}
		}
	}()

	// Run server
	go func() {
		container.Logger.Info("Server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Error("Server failed to start", err)
			os.Exit(1)
		}
	}()
	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	container.Logger.Info("Shutting down server...")
	stopPrune()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		container.Logger.Error("Server shutdown failed", err)
	}
	if err := container.Shutdown(ctx); err != nil {
		container.Logger.Error("Poll loops did not stop in time", err)
	}

	container.Logger.Info("Server exited")
}

// secureCookies marks the session cookie Secure when the page is served to
// https origins only.
func secureCookies(origins []string) bool {
	if len(origins) == 0 {
		return false
	}
	for _, o := range origins {
		if !strings.HasPrefix(o, "https://") {
			return false
		}
	}
	return true
}
