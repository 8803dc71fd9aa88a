package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"assetcarver/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("ASSETCARVER_CACHE_DIR", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantHistory := filepath.Join(tempHome, ".roblox_asset_extractor", "extracted_history.json")
	if cfg.Paths.HistoryPath != wantHistory {
		t.Fatalf("unexpected history path: got %q want %q", cfg.Paths.HistoryPath, wantHistory)
	}
	wantLogs := filepath.Join(tempHome, ".local", "share", "assetcarver", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if cfg.Paths.LedgerPath != filepath.Join(filepath.Dir(wantLogs), "runs.db") {
		t.Fatalf("unexpected ledger path: %q", cfg.Paths.LedgerPath)
	}
	if !strings.HasSuffix(cfg.Paths.CacheDir, "rbx-storage") {
		t.Fatalf("expected platform cache dir, got %q", cfg.Paths.CacheDir)
	}
	if cfg.Workers.Count < 1 || cfg.Workers.Count > config.MaxWorkers {
		t.Fatalf("unexpected worker count %d", cfg.Workers.Count)
	}
	if cfg.Extraction.Classification != "type" {
		t.Fatalf("unexpected classification %q", cfg.Extraction.Classification)
	}
	if len(cfg.Extraction.Types) != 5 {
		t.Fatalf("expected all five types by default, got %v", cfg.Extraction.Types)
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
}

func TestLoadCustomConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cacheDir := filepath.Join(tempHome, "cache")
	payload := map[string]any{
		"paths": map[string]any{
			"cache_dir":       cacheDir,
			"output_dir_name": "carved",
		},
		"extraction": map[string]any{
			"types":          []string{"OGG", "png", "ogg"},
			"classification": "Size",
			"exclude_dirs":   []string{"skip_me"},
		},
		"workers": map[string]any{
			"count": 3,
		},
		"logging": map[string]any{
			"format": "JSON",
			"level":  "Debug",
		},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	configPath := filepath.Join(tempHome, "config.toml")
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Paths.CacheDir != cacheDir {
		t.Fatalf("unexpected cache dir %q", cfg.Paths.CacheDir)
	}
	if got := strings.Join(cfg.Extraction.Types, ","); got != "ogg,png" {
		t.Fatalf("expected types deduplicated and lowercased, got %q", got)
	}
	if cfg.Extraction.Classification != "size" {
		t.Fatalf("unexpected classification %q", cfg.Extraction.Classification)
	}
	if got := strings.Join(cfg.Extraction.ExcludeDirs, ","); got != "skip_me,carved" {
		t.Fatalf("expected output dir appended to excludes, got %q", got)
	}
	if cfg.Workers.Count != 3 {
		t.Fatalf("unexpected worker count %d", cfg.Workers.Count)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
	if cfg.OutputDir(cacheDir) != filepath.Join(cacheDir, "carved") {
		t.Fatalf("unexpected output dir %q", cfg.OutputDir(cacheDir))
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"unknown type", func(c *config.Config) { c.Extraction.Types = []string{"mp3"} }, "extraction.types"},
		{"unknown classification", func(c *config.Config) { c.Extraction.Classification = "color" }, "extraction.classification"},
		{"nested output dir", func(c *config.Config) { c.Paths.OutputDirName = "a/b" }, "paths.output_dir_name"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			cfg := config.Default()
			cfg.Paths.CacheDir = t.TempDir()
			tt.mutate(&cfg)
			err := cfg.Finalize()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestEnvironmentCacheDirFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	envDir := t.TempDir()
	t.Setenv("ASSETCARVER_CACHE_DIR", envDir)

	cfg := config.Default()
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if cfg.Paths.CacheDir != envDir {
		t.Fatalf("expected env cache dir %q, got %q", envDir, cfg.Paths.CacheDir)
	}
}

func TestCreateSampleRoundTripsThroughLoad(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	path := filepath.Join(tempHome, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Workers.DequeueTimeoutSeconds != 5 {
		t.Fatalf("unexpected dequeue timeout %d", cfg.Workers.DequeueTimeoutSeconds)
	}
}

func TestEnsureDirectoriesCreatesLogAndHistoryParents(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.CacheDir = base
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.HistoryPath = filepath.Join(base, "state", "history.json")
	cfg.Paths.LedgerPath = filepath.Join(base, "ledger", "runs.db")
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{"logs", "state", "ledger"} {
		if info, err := os.Stat(filepath.Join(base, dir)); err != nil || !info.IsDir() {
			t.Fatalf("expected %s directory: %v", dir, err)
		}
	}
}
