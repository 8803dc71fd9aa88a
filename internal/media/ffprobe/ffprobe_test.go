package ffprobe

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func writeStub(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffprobe")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestResultDurationSeconds(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   float64
	}{
		{"format duration", Result{Format: Format{Duration: "123.45"}}, 123.45},
		{"stream fallback", Result{
			Format: Format{Duration: "N/A"},
			Streams: []Stream{
				{CodecType: "video", Duration: "900"},
				{CodecType: "audio", Duration: "12.5"},
				{CodecType: "audio", Duration: "14"},
			},
		}, 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.DurationSeconds(); got != tt.want {
				t.Fatalf("DurationSeconds() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := (Result{Format: Format{Duration: "bad"}}).DurationSeconds(); !math.IsNaN(got) {
		t.Fatalf("expected NaN for unparseable duration, got %v", got)
	}
}

func TestAudioStreamCount(t *testing.T) {
	r := Result{Streams: []Stream{{CodecType: "audio"}, {CodecType: "AUDIO"}, {CodecType: "video"}}}
	if r.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", r.AudioStreamCount())
	}
}

func TestProberDurationFromCSV(t *testing.T) {
	stub := writeStub(t, "echo 42.75")
	p := NewProber(stub, time.Second)
	got, err := p.Duration(context.Background(), "/tmp/whatever.ogg")
	if err != nil {
		t.Fatalf("Duration returned error: %v", err)
	}
	if got != 42.75 {
		t.Fatalf("Duration = %v, want 42.75", got)
	}
	if !p.Available() {
		t.Fatal("expected stub to be available")
	}
}

func TestProberDurationFallsBackToInspect(t *testing.T) {
	stub := writeStub(t, `case "$*" in
*show_streams*) echo '{"format":{"duration":"N/A"},"streams":[{"codec_type":"audio","duration":"7.5"}]}' ;;
*) echo 'N/A' ;;
esac`)
	got, err := NewProber(stub, time.Second).Duration(context.Background(), "/tmp/x.ogg")
	if err != nil {
		t.Fatalf("Duration returned error: %v", err)
	}
	if got != 7.5 {
		t.Fatalf("Duration = %v, want 7.5", got)
	}
}

func TestProberDurationFailure(t *testing.T) {
	stub := writeStub(t, "exit 1")
	if _, err := NewProber(stub, time.Second).Duration(context.Background(), "/tmp/x.ogg"); err == nil {
		t.Fatal("expected error from failing ffprobe")
	}
}

func TestProberUnavailable(t *testing.T) {
	p := NewProber("clearly-not-a-real-ffprobe", time.Second)
	if p.Available() {
		t.Fatal("expected missing binary to be unavailable")
	}
	if _, err := p.Duration(context.Background(), "/tmp/x.ogg"); err == nil {
		t.Fatal("expected error for missing binary")
	}
}
