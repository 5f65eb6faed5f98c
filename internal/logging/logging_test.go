package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		hasError bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"info", LevelInfo, false},
		{"INFO", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"ERROR", LevelError, false},
		{"invalid", LevelInfo, true},
		{"", LevelInfo, true},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			level, err := ParseLevel(test.input)
			if test.hasError && err == nil {
				t.Error("expected error, got nil")
			}
			if !test.hasError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !test.hasError && level != test.expected {
				t.Errorf("expected %v, got %v", test.expected, level)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			result := LevelString(test.level)
			if result != test.expected {
				t.Errorf("expected %q, got %q", test.expected, result)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		hasError bool
	}{
		{"text", FormatText, false},
		{"TEXT", FormatText, false},
		{"json", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatText, true},
		{"", FormatText, true},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			format, err := ParseFormat(test.input)
			if test.hasError && err == nil {
				t.Error("expected error, got nil")
			}
			if !test.hasError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !test.hasError && format != test.expected {
				t.Errorf("expected %v, got %v", test.expected, format)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != LevelInfo {
		t.Errorf("expected default level Info, got %v", cfg.Level)
	}
	if cfg.Format != FormatText {
		t.Errorf("expected default format Text, got %v", cfg.Format)
	}
	if cfg.Output != "stderr" {
		t.Errorf("expected default output stderr, got %s", cfg.Output)
	}
	if cfg.Component != "simlab" {
		t.Errorf("expected default component simlab, got %s", cfg.Component)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "json")

	cfg := ConfigFromEnv()
	if cfg.Level != LevelDebug {
		t.Errorf("expected level Debug, got %v", cfg.Level)
	}
	if cfg.Format != FormatJSON {
		t.Errorf("expected format JSON, got %v", cfg.Format)
	}
}

func TestConfigFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv(EnvLogLevel, "loudest")
	t.Setenv(EnvLogFormat, "parchment")

	cfg := ConfigFromEnv()
	if cfg.Level != LevelInfo {
		t.Errorf("expected default level Info, got %v", cfg.Level)
	}
	if cfg.Format != FormatText {
		t.Errorf("expected default format Text, got %v", cfg.Format)
	}
}

func TestConfigFromEnvUnset(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogFormat, "")

	cfg := ConfigFromEnv()
	if cfg.Level != LevelInfo || cfg.Format != FormatText {
		t.Errorf("expected defaults, got level %v format %v", cfg.Level, cfg.Format)
	}
}

func TestNewNilConfig(t *testing.T) {
	logger := New(nil)
	if logger == nil || logger.Logger == nil {
		t.Fatal("New(nil) should fall back to the default configuration")
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := New(&Config{
		Level:     LevelInfo,
		Format:    FormatJSON,
		Writer:    &buf,
		Component: "test",
	})
	logger.Info("hello", "answer", 42)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", entry["msg"])
	}
	if entry["component"] != "test" {
		t.Errorf("component = %v, want test", entry["component"])
	}
	if entry["answer"] != float64(42) {
		t.Errorf("answer = %v, want 42", entry["answer"])
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := New(&Config{
		Level:     LevelInfo,
		Format:    FormatText,
		Writer:    &buf,
		Component: "test",
	})
	logger.Info("hello")

	out := buf.String()
	if !strings.Contains(out, "msg=hello") {
		t.Errorf("expected msg=hello in output, got %q", out)
	}
	if !strings.Contains(out, "component=test") {
		t.Errorf("expected component=test in output, got %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := New(&Config{
		Level:  LevelWarn,
		Format: FormatText,
		Writer: &buf,
	})

	logger.Info("quiet")
	if buf.Len() != 0 {
		t.Errorf("info entry leaked through warn filter: %q", buf.String())
	}

	logger.Warn("loud")
	if !strings.Contains(buf.String(), "msg=loud") {
		t.Errorf("warn entry missing, got %q", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer

	logger := New(&Config{
		Level:  LevelInfo,
		Format: FormatJSON,
		Writer: &buf,
	})
	child := logger.WithComponent("queueing")
	child.Info("run complete")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if entry["component"] != "queueing" {
		t.Errorf("component = %v, want queueing", entry["component"])
	}
}
