package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"pdf-extract-demo/internal/domain"
	"pdf-extract-demo/internal/extractapi"
)

const (
	DefaultExtractAPIURL  = "https://api.doctractor.com/"
	DefaultExtractAPIUser = "doctractor"
)

// Session store backends accepted by SESSION_STORE.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StoreSupabase = "supabase"
	StoreFile     = "file"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort  string
	LogLevel    string
	LogFormat   string
	MaxFileSize int64

	ExtractAPIURL      string
	ExtractAPIUser     string
	ExtractAPIPassword string
	ExtractUploadPath  string
	ExtractResultPath  string
	RequestTimeout     time.Duration
	PollInterval       time.Duration
	PreviewDPI         float64

	SessionStore string
	SessionFile  string
	SessionTTL   time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SupabaseURL string
	SupabaseKey string

	AllowedOrigins []string
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:  getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "json"),
		MaxFileSize: getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024), // 50MB default

		ExtractAPIURL:      getEnvOrDefault("EXTRACT_API_URL", DefaultExtractAPIURL),
		ExtractAPIUser:     getEnvOrDefault("EXTRACT_API_USER", DefaultExtractAPIUser),
		ExtractAPIPassword: os.Getenv("EXTRACT_API_PASSWORD"),
		ExtractUploadPath:  getEnvOrDefault("EXTRACT_UPLOAD_PATH", extractapi.DefaultUploadPath),
		ExtractResultPath:  getEnvOrDefault("EXTRACT_RESULT_PATH", extractapi.DefaultResultPath),
		RequestTimeout:     getEnvDurationOrDefault("REQUEST_TIMEOUT", 60*time.Second),
		PollInterval:       getEnvDurationOrDefault("POLL_INTERVAL", 2*time.Second),
		PreviewDPI:         getEnvFloatOrDefault("PREVIEW_DPI", 72),

		SessionStore: strings.ToLower(getEnvOrDefault("SESSION_STORE", StoreMemory)),
		SessionFile:  getEnvOrDefault("SESSION_FILE", "./sessions.yaml"),
		SessionTTL:   getEnvDurationOrDefault("SESSION_TTL", 24*time.Hour),

		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("REDIS_DB", 0),

		SupabaseURL: getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey: getEnvOrDefault("SUPABASE_ANON_KEY", ""),

		AllowedOrigins: getEnvListOrDefault("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetLogFormat returns "json" or "console"
func (c *AppConfig) GetLogFormat() string {
	return c.LogFormat
}

// GetMaxFileSize returns the maximum allowed file size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

func (c *AppConfig) GetExtractAPIURL() string {
	return c.ExtractAPIURL
}

func (c *AppConfig) GetExtractAPIUser() string {
	return c.ExtractAPIUser
}

func (c *AppConfig) GetExtractAPIPassword() string {
	return c.ExtractAPIPassword
}

// GetExtractUploadPath is the upload endpoint relative to the API URL
func (c *AppConfig) GetExtractUploadPath() string {
	return c.ExtractUploadPath
}

// GetExtractResultPath is the result endpoint prefix; the task id is appended
func (c *AppConfig) GetExtractResultPath() string {
	return c.ExtractResultPath
}

// GetRequestTimeout bounds each call to the extraction service
func (c *AppConfig) GetRequestTimeout() time.Duration {
	return c.RequestTimeout
}

// GetPollInterval is the delay between result requests
func (c *AppConfig) GetPollInterval() time.Duration {
	return c.PollInterval
}

func (c *AppConfig) GetPreviewDPI() float64 {
	return c.PreviewDPI
}

// GetSessionStore returns the task store backend name
func (c *AppConfig) GetSessionStore() string {
	return c.SessionStore
}

func (c *AppConfig) GetSessionFile() string {
	return c.SessionFile
}

func (c *AppConfig) GetSessionTTL() time.Duration {
	return c.SessionTTL
}

func (c *AppConfig) GetRedisAddr() string {
	return c.RedisAddr
}

func (c *AppConfig) GetRedisPassword() string {
	return c.RedisPassword
}

func (c *AppConfig) GetRedisDB() int {
	return c.RedisDB
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetAllowedOrigins returns the CORS origin allow-list
func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}

// getEnvDurationOrDefault accepts Go durations ("2s") or whole seconds ("2").
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
