package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrorLogPath returns the per-file failure log beneath an output root.
func ErrorLogPath(outputDir string) string {
	return filepath.Join(outputDir, "logs", "extraction_errors.log")
}

// errorLog appends "[timestamp] path: message" lines for failed files.
type errorLog struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func newErrorLog(path string, now func() time.Time) *errorLog {
	return &errorLog{path: path, now: now}
}

func (l *errorLog) Append(source, message string) error {
	if l == nil {
		return nil
	}
	line := fmt.Sprintf("[%s] %s: %s\n",
		l.now().Format("2006-01-02 15:04:05"), source, strings.ReplaceAll(message, "\n", " "))

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create error log directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open error log: %w", err)
	}
	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("write error log: %w", err)
	}
	return f.Close()
}
