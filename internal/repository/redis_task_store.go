package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pdf-extract-demo/internal/domain"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "pdf-extract:task:"

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// RedisTaskStore keeps task identifiers in Redis with an expiry.
type RedisTaskStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger domain.Logger
}

// NewRedisTaskStore connects to Redis and verifies the connection.
func NewRedisTaskStore(cfg RedisConfig, logger domain.Logger) (*RedisTaskStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultRedisPrefix
	}

	logger.Info("Redis task store connected", "addr", cfg.Addr, "db", cfg.DB)
	return &RedisTaskStore{client: client, prefix: prefix, ttl: cfg.TTL, logger: logger}, nil
}

func (s *RedisTaskStore) Save(ctx context.Context, sessionID, taskID string) error {
	if err := validateKeys(sessionID, taskID); err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.prefix+sessionID, taskID, s.ttl).Err(); err != nil {
		return storeError("save", err)
	}
	return nil
}

func (s *RedisTaskStore) Load(ctx context.Context, sessionID string) (string, error) {
	val, err := s.client.Get(ctx, s.prefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrTaskNotFound
	}
	if err != nil {
		return "", storeError("load", err)
	}
	return val, nil
}

func (s *RedisTaskStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.prefix+sessionID).Err(); err != nil {
		return storeError("clear", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisTaskStore) Close() error {
	return s.client.Close()
}
