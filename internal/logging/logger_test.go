package logging_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"assetcarver/internal/config"
	"assetcarver/internal/logging"
)

func newFileLogger(t *testing.T, format, level string) (*slog.Logger, func() string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger, err := logging.New(logging.Options{
		Format:           format,
		Level:            level,
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return logger, func() string {
		data, err := os.ReadFile(logPath)
		if err != nil {
			t.Fatalf("read log file: %v", err)
		}
		return string(data)
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello from test")

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Fatalf("expected message in log file, got %q", data)
	}
}

func TestConsoleLoggerFormatsComponentAndBytes(t *testing.T) {
	logger, read := newFileLogger(t, "console", "info")

	logger.Info("carved payload",
		logging.String(logging.FieldComponent, "extractor"),
		logging.Int64("payload_size", 2048),
		logging.String("kind", "png"),
	)

	line := read()
	if !strings.Contains(line, "INFO extractor: carved payload") {
		t.Fatalf("expected component prefix, got %q", line)
	}
	if !strings.Contains(line, `payload_size="2.0 KiB"`) {
		t.Fatalf("expected humanized byte size, got %q", line)
	}
	if !strings.Contains(line, "kind=png") {
		t.Fatalf("expected kind attribute, got %q", line)
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", line)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logger, read := newFileLogger(t, "console", "debug")
	logger.Debug("debug message")
	if !strings.Contains(read(), ".go:") {
		t.Fatal("expected caller information in debug logs")
	}
}

func TestJSONLoggerUsesShortKeys(t *testing.T) {
	logger, read := newFileLogger(t, "json", "info")
	logger.Info("json message", logging.String("path", "/tmp/x"))

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(read())), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload["msg"] != "json message" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["level"] != "info" {
		t.Fatalf("unexpected level: %v", payload["level"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logger, read := newFileLogger(t, "console", "info")
	logging.WarnWithContext(logger, "history unreadable", "history_load_failed",
		logging.String(logging.FieldErrorHint, "delete the history file"),
	)
	line := read()
	for _, want := range []string{"event_type=history_load_failed", `error_hint="delete the history file"`, "impact="} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
}

func TestWithContextAddsRunID(t *testing.T) {
	logger, read := newFileLogger(t, "console", "info")
	ctx := logging.WithWorker(logging.WithRunID(context.Background(), "run-123"), 4)
	logging.WithContext(ctx, logger).Info("tagged")
	line := read()
	if !strings.Contains(line, "run_id=run-123") || !strings.Contains(line, "worker=4") {
		t.Fatalf("expected context fields, got %q", line)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := logging.FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
