package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"assetcarver/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a finalized config seeded with unique temp directories
// per test. The cache root is <base>/cache and already exists.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Paths.HistoryPath = filepath.Join(base, "state", "history.json")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.LedgerPath = filepath.Join(base, "state", "runs.db")
	cfgVal.Workers.Count = 4
	cfgVal.Workers.DequeueTimeoutSeconds = 1
	cfgVal.Workers.ProgressIntervalMS = 20
	cfgVal.Workers.StatsIntervalMS = 1

	if err := os.MkdirAll(cfgVal.Paths.CacheDir, 0o755); err != nil {
		t.Fatalf("mkdir cache dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Finalize(); err != nil {
		t.Fatalf("finalize test config: %v", err)
	}
	return builder.cfg
}

// WithClassification selects the classification policy.
func WithClassification(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Extraction.Classification = policy
	}
}

// WithTypes restricts the extracted asset types.
func WithTypes(types ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Extraction.Types = types
	}
}

// WithWorkers overrides the worker count.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Workers.Count = n
	}
}

// WithoutHistory disables the persisted history.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// WithStubbedFFprobe writes an ffprobe stub that prints the given output and
// points the config at it.
func WithStubbedFFprobe(output string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		target := filepath.Join(binDir, "ffprobe")
		script := []byte("#!/bin/sh\necho '" + output + "'\n")
		if err := os.WriteFile(target, script, 0o755); err != nil {
			b.t.Fatalf("write ffprobe stub: %v", err)
		}
		b.cfg.Probe.FFprobeBinary = target
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.CacheDir)
}
