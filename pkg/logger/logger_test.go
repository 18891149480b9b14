package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"
	"time"
)

// captureLogOutput captures log output to a buffer for testing
func captureLogOutput(t *testing.T, fn func()) string {
	t.Helper()

	originalStdout := os.Stdout
	defer func() { os.Stdout = originalStdout }()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}

	os.Stdout = w
	fn()
	w.Close()
	os.Stdout = originalStdout

	var buf bytes.Buffer
	io.Copy(&buf, r)

	return buf.String()
}

// parseLogLine parses a JSON log line into a map
func parseLogLine(t *testing.T, line string) map[string]interface{} {
	t.Helper()

	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(line), &result); err != nil {
		t.Fatalf("Failed to parse log line: %v\nLine: %s", err, line)
	}

	return result
}

func TestDefaultConfig(t *testing.T) {
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("LOG_FORMAT")

	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("Expected default level 'info', got '%s'", cfg.Level)
	}

	if cfg.Format != "json" {
		t.Errorf("Expected default format 'json', got '%s'", cfg.Format)
	}

	if cfg.TimeFormat != time.RFC3339 {
		t.Errorf("Expected time format RFC3339, got '%s'", cfg.TimeFormat)
	}
}

func TestDefaultConfig_EnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name           string
		envLevel       string
		envFormat      string
		expectedLevel  string
		expectedFormat string
	}{
		{
			name:           "Debug level",
			envLevel:       "debug",
			envFormat:      "",
			expectedLevel:  "debug",
			expectedFormat: "json",
		},
		{
			name:           "Console format",
			envLevel:       "",
			envFormat:      "console",
			expectedLevel:  "info",
			expectedFormat: "console",
		},
		{
			name:           "Both overridden",
			envLevel:       "error",
			envFormat:      "console",
			expectedLevel:  "error",
			expectedFormat: "console",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envLevel != "" {
				t.Setenv("LOG_LEVEL", tt.envLevel)
			} else {
				os.Unsetenv("LOG_LEVEL")
			}

			if tt.envFormat != "" {
				t.Setenv("LOG_FORMAT", tt.envFormat)
			} else {
				os.Unsetenv("LOG_FORMAT")
			}

			cfg := DefaultConfig()

			if cfg.Level != tt.expectedLevel {
				t.Errorf("Expected level '%s', got '%s'", tt.expectedLevel, cfg.Level)
			}

			if cfg.Format != tt.expectedFormat {
				t.Errorf("Expected format '%s', got '%s'", tt.expectedFormat, cfg.Format)
			}
		})
	}
}

func TestInit_JSONFormat(t *testing.T) {
	output := captureLogOutput(t, func() {
		Init(Config{
			Level:      "info",
			Format:     "json",
			TimeFormat: time.RFC3339,
		})
		Log.Info().Msg("test message")
	})

	logEntry := parseLogLine(t, output)

	if logEntry == nil {
		t.Fatal("Expected log output, got none")
	}

	if logEntry["message"] != "test message" {
		t.Errorf("Expected message 'test message', got '%v'", logEntry["message"])
	}

	if logEntry["service"] != "adlad" {
		t.Errorf("Expected service 'adlad', got '%v'", logEntry["service"])
	}
}

func TestInit_LogLevels(t *testing.T) {
	tests := []struct {
		name         string
		configLevel  string
		logAtLevel   string
		expectOutput bool
	}{
		{"Info at info level", "info", "info", true},
		{"Debug at info level", "info", "debug", false},
		{"Warn at info level", "info", "warn", true},
		{"Debug at debug level", "debug", "debug", true},
		{"Info at error level", "error", "info", false},
		{"Error at error level", "error", "error", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureLogOutput(t, func() {
				Init(Config{
					Level:      tt.configLevel,
					Format:     "json",
					TimeFormat: time.RFC3339,
				})
				switch tt.logAtLevel {
				case "debug":
					Log.Debug().Msg("test")
				case "info":
					Log.Info().Msg("test")
				case "warn":
					Log.Warn().Msg("test")
				case "error":
					Log.Error().Msg("test")
				}
			})

			hasOutput := strings.TrimSpace(output) != ""
			if hasOutput != tt.expectOutput {
				t.Errorf("Expected output=%v, got output=%v (%q)", tt.expectOutput, hasOutput, output)
			}
		})
	}
}

func TestInit_InvalidLevel(t *testing.T) {
	output := captureLogOutput(t, func() {
		Init(Config{
			Level:      "not-a-level",
			Format:     "json",
			TimeFormat: time.RFC3339,
		})
		Log.Info().Msg("fallback to info")
	})

	logEntry := parseLogLine(t, output)

	if logEntry == nil {
		t.Fatal("Expected log output at fallback info level, got none")
	}
}

func TestWithRequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "req-12345"

	ctx = WithRequestID(ctx, requestID)

	value := ctx.Value(RequestIDKey)
	if value == nil {
		t.Fatal("Expected request ID in context, got nil")
	}

	if value.(string) != requestID {
		t.Errorf("Expected request ID '%s', got '%s'", requestID, value.(string))
	}
}

func TestFromContext_WithRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-12345")

	output := captureLogOutput(t, func() {
		Init(Config{Level: "info", Format: "json", TimeFormat: time.RFC3339})
		logger := FromContext(ctx)
		logger.Info().Msg("test message")
	})

	logEntry := parseLogLine(t, output)

	if logEntry == nil {
		t.Fatal("Expected log output, got none")
	}

	if logEntry["request_id"] != "req-12345" {
		t.Errorf("Expected request_id 'req-12345', got '%v'", logEntry["request_id"])
	}
}

func TestFromContext_Empty(t *testing.T) {
	output := captureLogOutput(t, func() {
		Init(Config{Level: "info", Format: "json", TimeFormat: time.RFC3339})
		logger := FromContext(context.Background())
		logger.Info().Msg("test message")
	})

	logEntry := parseLogLine(t, output)

	if logEntry == nil {
		t.Fatal("Expected log output, got none")
	}

	if _, ok := logEntry["request_id"]; ok {
		t.Error("Expected no request_id in empty context")
	}

	if logEntry["service"] != "adlad" {
		t.Errorf("Expected service 'adlad', got '%v'", logEntry["service"])
	}
}

func TestComponent(t *testing.T) {
	output := captureLogOutput(t, func() {
		Init(Config{Level: "info", Format: "json", TimeFormat: time.RFC3339})
		logger := Component("reconciler")
		logger.Info().Msg("component event")
	})

	logEntry := parseLogLine(t, output)

	if logEntry == nil {
		t.Fatal("Expected log output, got none")
	}

	if logEntry["component"] != "reconciler" {
		t.Errorf("Expected component 'reconciler', got '%v'", logEntry["component"])
	}
}

func TestAdBreak(t *testing.T) {
	output := captureLogOutput(t, func() {
		Init(Config{Level: "info", Format: "json", TimeFormat: time.RFC3339})
		logger := AdBreak("reward")
		logger.Info().Msg("break event")
	})

	logEntry := parseLogLine(t, output)

	if logEntry == nil {
		t.Fatal("Expected log output, got none")
	}

	if logEntry["break_type"] != "reward" {
		t.Errorf("Expected break_type 'reward', got '%v'", logEntry["break_type"])
	}
}
