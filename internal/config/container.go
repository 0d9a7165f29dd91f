package config

import (
	"context"
	"fmt"
	"io"
	"os"

	"pdf-extract-demo/internal/domain"
	"pdf-extract-demo/internal/extractapi"
	"pdf-extract-demo/internal/infra/supabase"
	"pdf-extract-demo/internal/preview"
	"pdf-extract-demo/internal/repository"
	"pdf-extract-demo/internal/service"
	"pdf-extract-demo/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config         domain.Config
	Logger         domain.Logger
	SupabaseClient domain.SupabaseClient
	TaskStore      domain.TaskStore
	ExtractAPI     *extractapi.Client
	Renderer       *preview.Renderer
	Poller         *service.Poller
	ExtractService *service.ExtractService

	closers []io.Closer
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	return NewContainerWithConfig(NewConfig())
}

// NewContainerWithConfig wires the application from an explicit configuration.
func NewContainerWithConfig(config domain.Config) (*Container, error) {
	appLogger := logger.New(config.GetLogLevel(), config.GetLogFormat(), os.Stdout)

	c := &Container{
		Config: config,
		Logger: appLogger,
	}

	store, err := c.newTaskStore()
	if err != nil {
		return nil, err
	}
	c.TaskStore = store

	if config.GetExtractAPIPassword() == "" {
		appLogger.Warn("EXTRACT_API_PASSWORD is not set; requests will likely be rejected")
	}
	client, err := extractapi.NewClient(config.GetExtractAPIURL(),
		extractapi.WithCredentials(config.GetExtractAPIUser(), config.GetExtractAPIPassword()),
		extractapi.WithTimeout(config.GetRequestTimeout()),
		extractapi.WithUploadPath(config.GetExtractUploadPath()),
		extractapi.WithResultPath(config.GetExtractResultPath()),
		extractapi.WithLogger(appLogger),
	)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create extract API client: %w", err)
	}
	c.ExtractAPI = client

	c.Renderer = preview.NewRenderer(config.GetPreviewDPI(), appLogger)
	c.Poller = service.NewPoller(client, config.GetPollInterval(), appLogger)
	c.ExtractService = service.NewExtractService(
		client,
		c.Renderer,
		store,
		c.Poller,
		service.NewMarkdownRenderer(),
		appLogger,
	)

	appLogger.Info("Container initialized",
		"session_store", config.GetSessionStore(),
		"extract_api", config.GetExtractAPIURL(),
		"poll_interval", config.GetPollInterval().String(),
	)
	return c, nil
}

func (c *Container) newTaskStore() (domain.TaskStore, error) {
	switch c.Config.GetSessionStore() {
	case StoreMemory, "":
		return repository.NewMemoryTaskStore(), nil
	case StoreFile:
		return repository.NewFileTaskStore(c.Config.GetSessionFile()), nil
	case StoreRedis:
		store, err := repository.NewRedisTaskStore(repository.RedisConfig{
			Addr:     c.Config.GetRedisAddr(),
			Password: c.Config.GetRedisPassword(),
			DB:       c.Config.GetRedisDB(),
			TTL:      c.Config.GetSessionTTL(),
		}, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		c.closers = append(c.closers, store)
		return store, nil
	case StoreSupabase:
		client := supabase.NewSupabaseClient(c.Config, c.Logger)
		if err := client.Initialize(); err != nil {
			return nil, err
		}
		c.SupabaseClient = client
		return repository.NewSupabaseTaskStore(client, c.Logger), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", c.Config.GetSessionStore())
	}
}

// Shutdown stops poll loops and releases backend connections.
func (c *Container) Shutdown(ctx context.Context) error {
	var err error
	if c.ExtractService != nil {
		err = c.ExtractService.Close(ctx)
	}
	c.Close()
	return err
}

// Close releases backend connections.
func (c *Container) Close() {
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			c.Logger.Warn("Failed to close dependency", "error", err)
		}
	}
	c.closers = nil
}
