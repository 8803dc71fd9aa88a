package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ErrNoDuration reports that ffprobe ran but could not determine a duration.
var ErrNoDuration = errors.New("ffprobe: duration unavailable")

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Duration  string `json:"duration"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = binaryOrDefault(binary)
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.Output()
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// AudioStreamCount returns the number of audio streams discovered.
func (r Result) AudioStreamCount() int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			count++
		}
	}
	return count
}

// DurationSeconds returns the container duration, falling back to the longest
// audio stream. It returns NaN when neither is parseable.
func (r Result) DurationSeconds() float64 {
	if d := parseFloat(r.Format.Duration); !math.IsNaN(d) && d > 0 {
		return d
	}
	best := math.NaN()
	for _, stream := range r.Streams {
		if !strings.EqualFold(stream.CodecType, "audio") {
			continue
		}
		d := parseFloat(stream.Duration)
		if math.IsNaN(d) {
			continue
		}
		if math.IsNaN(best) || d > best {
			best = d
		}
	}
	return best
}

// Prober measures media durations with a per-call timeout.
type Prober struct {
	Binary  string
	Timeout time.Duration
}

// NewProber returns a Prober for binary. A zero timeout disables the limit.
func NewProber(binary string, timeout time.Duration) *Prober {
	return &Prober{Binary: binaryOrDefault(binary), Timeout: timeout}
}

// Available reports whether the configured binary can be resolved.
func (p *Prober) Available() bool {
	_, err := exec.LookPath(binaryOrDefault(p.Binary))
	return err == nil
}

// Duration returns the length of the media at path in seconds. It first asks
// for the container duration alone and falls back to a full inspection when
// the container does not declare one.
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	binary := binaryOrDefault(p.Binary)

	cmd := exec.CommandContext(ctx, binary, "-v", "quiet", "-show_entries", "format=duration", "-of", "csv=p=0", "--", path)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w", err)
	}
	if d := parseFloat(firstLine(string(output))); !math.IsNaN(d) && d > 0 {
		return d, nil
	}

	result, err := Inspect(ctx, binary, path)
	if err != nil {
		return 0, err
	}
	if d := result.DurationSeconds(); !math.IsNaN(d) {
		return d, nil
	}
	return 0, ErrNoDuration
}

func binaryOrDefault(binary string) string {
	if b := strings.TrimSpace(binary); b != "" {
		return b
	}
	return "ffprobe"
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" || strings.EqualFold(cleaned, "N/A") {
		return math.NaN()
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
