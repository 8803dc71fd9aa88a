package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"assetcarver/internal/logging"
)

// DefaultMinSize is the smallest file considered a candidate.
const DefaultMinSize = 10

// Options controls a scan.
type Options struct {
	ExcludeDirs []string
	MinSize     int64
	Logger      *slog.Logger
}

// Scan walks root depth-first and returns regular files of at least
// MinSize bytes. Only a missing or unreadable root and context
// cancellation are reported as errors.
func Scan(ctx context.Context, root string, opts Options) ([]string, error) {
	logger := logging.NewComponentLogger(opts.Logger, "scanner")
	minSize := opts.MinSize
	if minSize <= 0 {
		minSize = DefaultMinSize
	}
	if err := checkRoot(root); err != nil {
		return nil, err
	}

	var files []string
	skipped := 0
	err := walk(ctx, root, opts.ExcludeDirs, func(path string, d fs.DirEntry) {
		info, err := d.Info()
		if err != nil {
			skipped++
			return
		}
		if info.Size() >= minSize {
			files = append(files, path)
		}
	}, func() { skipped++ })
	if err != nil {
		return files, err
	}

	logger.Debug("scan complete",
		logging.String("root", root),
		logging.Int("candidates", len(files)),
		logging.Int("unreadable_entries", skipped))
	return files, nil
}

func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("scan root %q is not a directory", root)
	}
	return nil
}

// walk calls visit for every regular file below root that is not inside an
// excluded directory. onError is called for each entry that could not be read.
func walk(ctx context.Context, root string, exclude []string, visit func(string, fs.DirEntry), onError func()) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			onError()
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && isExcluded(d.Name(), exclude) {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			visit(path, d)
		}
		return nil
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}
	return nil
}

func isExcluded(name string, exclude []string) bool {
	for _, ex := range exclude {
		if strings.EqualFold(name, ex) {
			return true
		}
	}
	return false
}
