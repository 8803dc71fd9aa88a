package scanner

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"assetcarver/internal/logging"
	"assetcarver/internal/signature"
)

// PurgeHeadSize is how much of each file Purge inspects.
const PurgeHeadSize = 8 << 10

// purgeKeywords are matched case-insensitively in addition to the signature markers.
var purgeKeywords = [][]byte{
	[]byte(".ogg"), []byte(".png"), []byte(".webp"), []byte(".ktx"), []byte(".rbxm"),
	[]byte("audio"), []byte("sound"), []byte("image"), []byte("texture"), []byte("model"),
}

// PurgeOptions controls a cache purge.
type PurgeOptions struct {
	ExcludeDirs []string
	DryRun      bool
	Logger      *slog.Logger
}

// PurgeResult summarizes a purge.
type PurgeResult struct {
	Scanned int
	Matched []string
	Removed int
	Failed  int
}

// Purge removes cache files whose first 8 KiB carry an asset marker or asset
// keyword. With DryRun set it only reports what would be removed.
func Purge(ctx context.Context, root string, opts PurgeOptions) (PurgeResult, error) {
	logger := logging.NewComponentLogger(opts.Logger, "purge")
	var result PurgeResult
	if err := checkRoot(root); err != nil {
		return result, err
	}

	buf := make([]byte, PurgeHeadSize)
	err := walk(ctx, root, opts.ExcludeDirs, func(path string, _ fs.DirEntry) {
		result.Scanned++
		head, err := readHead(path, buf)
		if err != nil {
			result.Failed++
			return
		}
		if !looksLikeAsset(head) {
			return
		}
		result.Matched = append(result.Matched, path)
		if opts.DryRun {
			return
		}
		if err := os.Remove(path); err != nil {
			result.Failed++
			logger.Debug("purge remove failed", logging.String(logging.FieldPath, path), logging.Error(err))
			return
		}
		result.Removed++
	}, func() { result.Failed++ })

	logger.Info("cache purge finished",
		logging.String("root", root),
		logging.Int("scanned", result.Scanned),
		logging.Int("matched", len(result.Matched)),
		logging.Int("removed", result.Removed),
		logging.Bool("dry_run", opts.DryRun))
	return result, err
}

func readHead(path string, buf []byte) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

func looksLikeAsset(head []byte) bool {
	for _, k := range signature.All() {
		if signature.Present(k, head) {
			return true
		}
	}
	lower := bytes.ToLower(head)
	for _, kw := range purgeKeywords {
		if bytes.Contains(lower, kw) {
			return true
		}
	}
	return false
}
