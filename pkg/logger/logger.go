// Package logger provides structured logging for the ad placement plugin
package logger

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Log is the global logger instance
var Log zerolog.Logger

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json or console
	TimeFormat string
}

// DefaultConfig returns logger configuration from environment variables
func DefaultConfig() Config {
	return Config{
		Level:      GetEnv("LOG_LEVEL", "info"),
		Format:     GetEnv("LOG_FORMAT", "json"),
		TimeFormat: time.RFC3339,
	}
}

// GetEnv returns the environment variable value or a fallback
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Init initializes the global logger
func Init(cfg Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = cfg.TimeFormat

	var logger zerolog.Logger
	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: cfg.TimeFormat}
		logger = zerolog.New(output)
	} else {
		logger = zerolog.New(os.Stdout)
	}

	Log = logger.Level(level).With().
		Timestamp().
		Str("service", "adlad").
		Logger()
}

// contextKey is a private type for context keys to avoid collisions
type contextKey string

// RequestIDKey is the context key for HTTP request IDs
const RequestIDKey = contextKey("request_id")

// WithRequestID returns a context carrying the given request ID
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// FromContext returns a logger enriched with IDs found in the context
func FromContext(ctx context.Context) zerolog.Logger {
	logger := Log

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		logger = logger.With().Str("request_id", requestID).Logger()
	}

	return logger
}

// Component returns a logger tagged with a component name
func Component(name string) zerolog.Logger {
	return Log.With().Str("component", name).Logger()
}

// AdBreak returns a logger tagged with an ad-break type
func AdBreak(breakType string) zerolog.Logger {
	return Log.With().Str("break_type", breakType).Logger()
}
