package extractor

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"assetcarver/internal/fileutil"
	"assetcarver/internal/signature"
)

const (
	suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffixLen      = 4
	tempAttempts   = 5
)

type placement struct {
	category string
	output   string
}

// place writes the payload to a temp file in the output root, classifies
// it, and moves it into the category directory. The temp file is removed on
// any failure.
func (e *Engine) place(ctx context.Context, source string, m signature.Match) (placement, error) {
	outputDir := e.OutputDir()
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return placement{}, fmt.Errorf("create output directory: %w", err)
	}

	base := filepath.Base(source)
	stamp := e.now().Format("20060102_150405")
	ext := m.Kind.Extension()

	tmpPath, suffix, err := writeTemp(outputDir, base, stamp, ext, m.Payload)
	if err != nil {
		return placement{}, err
	}

	category := e.classifier.Category(ctx, m.Kind, int64(len(m.Payload)), tmpPath)
	dir, err := e.categoryDir(category)
	if err != nil {
		_ = os.Remove(tmpPath)
		return placement{}, err
	}
	dst := filepath.Join(dir, fmt.Sprintf("%s_%s_%s%s", base, stamp, suffix, ext))
	if err := fileutil.MoveFile(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return placement{}, fmt.Errorf("move to %s: %w", category, err)
	}
	return placement{category: category, output: dst}, nil
}

func writeTemp(dir, base, stamp, ext string, payload []byte) (string, string, error) {
	for range tempAttempts {
		suffix := randomSuffix()
		path := filepath.Join(dir, fmt.Sprintf("temp_%s_%s_%s%s", base, stamp, suffix, ext))
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", "", fmt.Errorf("create temp file: %w", err)
		}
		if _, err := f.Write(payload); err != nil {
			_ = f.Close()
			_ = os.Remove(path)
			return "", "", fmt.Errorf("write temp file: %w", err)
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(path)
			return "", "", fmt.Errorf("close temp file: %w", err)
		}
		return path, suffix, nil
	}
	return "", "", errors.New("create temp file: name collisions exhausted")
}

func randomSuffix() string {
	b := make([]byte, suffixLen)
	for i := range b {
		b[i] = suffixAlphabet[rand.IntN(len(suffixAlphabet))]
	}
	return string(b)
}

// categoryDir returns the directory for category, creating it on first use.
func (e *Engine) categoryDir(category string) (string, error) {
	if category == "" {
		return "", errors.New("empty category")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	dir := filepath.Join(e.outputDir, category)
	if _, ok := e.dirs[category]; ok {
		return dir, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create category directory: %w", err)
	}
	e.dirs[category] = struct{}{}
	return dir, nil
}

// ensureCategoryDirs creates every directory the active policy can produce.
func (e *Engine) ensureCategoryDirs() error {
	for _, category := range e.classifier.Policy().Categories() {
		if _, err := e.categoryDir(category); err != nil {
			return err
		}
	}
	return nil
}
