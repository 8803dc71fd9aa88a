// Package classify maps an extracted asset to its output category directory
// under the run's classification policy.
package classify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"assetcarver/internal/logging"
	"assetcarver/internal/signature"
)

// Policy selects how extracted assets are grouped into directories.
type Policy int

const (
	ByType Policy = iota
	ByFormat
	BySize
	ByDuration
)

func (p Policy) String() string {
	switch p {
	case ByFormat:
		return "format"
	case BySize:
		return "size"
	case ByDuration:
		return "duration"
	default:
		return "type"
	}
}

// ParsePolicy resolves a policy from its config name.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "type":
		return ByType, nil
	case "format":
		return ByFormat, nil
	case "size":
		return BySize, nil
	case "duration":
		return ByDuration, nil
	default:
		return ByType, fmt.Errorf("unknown classification policy %q", name)
	}
}

var typeCategories = map[signature.Kind]string{
	signature.KindOgg:  "audio_ogg",
	signature.KindPNG:  "images",
	signature.KindWEBP: "images",
	signature.KindKTX:  "textures_ktx",
	signature.KindRBXM: "models_rbxm",
}

var formatCategories = map[signature.Kind]string{
	signature.KindOgg:  "ogg_audio",
	signature.KindPNG:  "png_images",
	signature.KindWEBP: "webp_images",
	signature.KindKTX:  "ktx_textures",
	signature.KindRBXM: "rbxm_models",
}

// TypeCategory returns the coarse group directory for kind.
func TypeCategory(kind signature.Kind) string {
	return typeCategories[kind]
}

// FormatCategory returns the per-format directory for kind.
func FormatCategory(kind signature.Kind) string {
	return formatCategories[kind]
}

// Categories lists every directory the policy can produce, in display order.
func (p Policy) Categories() []string {
	switch p {
	case ByFormat:
		return kindCategories(formatCategories)
	case BySize:
		return names(SizeBuckets)
	case ByDuration:
		return names(DurationBuckets)
	default:
		return kindCategories(typeCategories)
	}
}

func kindCategories(table map[signature.Kind]string) []string {
	var out []string
	seen := make(map[string]struct{}, len(table))
	for _, k := range signature.All() {
		name := table[k]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// DurationProber measures audio length in seconds.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Classifier resolves categories for one run.
type Classifier struct {
	policy   Policy
	prober   DurationProber
	logger   *slog.Logger
	warnOnce sync.Once
}

// New returns a classifier. prober may be nil; ByDuration then places every
// audio asset in the shortest bucket.
func New(policy Policy, prober DurationProber, logger *slog.Logger) *Classifier {
	return &Classifier{
		policy: policy,
		prober: prober,
		logger: logging.NewComponentLogger(logger, "classify"),
	}
}

// Policy returns the active policy.
func (c *Classifier) Policy() Policy {
	return c.policy
}

// Category returns the output directory name for an asset. tempPath is the
// already written payload, needed only for duration probing.
func (c *Classifier) Category(ctx context.Context, kind signature.Kind, size int64, tempPath string) string {
	switch c.policy {
	case ByFormat:
		return FormatCategory(kind)
	case BySize:
		return SizeBucket(size)
	case ByDuration:
		if kind != signature.KindOgg {
			return TypeCategory(kind)
		}
		return DurationBucket(c.duration(ctx, tempPath))
	default:
		return TypeCategory(kind)
	}
}

func (c *Classifier) duration(ctx context.Context, path string) float64 {
	if c.prober == nil {
		c.warnUnavailable(nil)
		return 0
	}
	seconds, err := c.prober.Duration(ctx, path)
	if err != nil {
		c.warnUnavailable(err)
		c.logger.Debug("duration probe failed",
			logging.String(logging.FieldPath, path),
			logging.Error(err))
		return 0
	}
	return seconds
}

func (c *Classifier) warnUnavailable(err error) {
	c.warnOnce.Do(func() {
		attrs := []logging.Attr{
			logging.String(logging.FieldErrorHint, "install ffprobe or set probe.ffprobe_binary"),
			logging.String(logging.FieldImpact, "audio is filed under the shortest duration bucket"),
		}
		if err != nil {
			attrs = append(attrs, logging.Error(err))
		}
		logging.WarnWithContext(c.logger, "audio duration unavailable", "duration_probe_unavailable", attrs...)
	})
}
