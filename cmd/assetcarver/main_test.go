package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"assetcarver/internal/testsupport"
)

func seedCache(t *testing.T, dir string) {
	t.Helper()
	testsupport.WriteFile(t, filepath.Join(dir, "aa", "sound"), testsupport.Concat(testsupport.Filler(32, 1), testsupport.OGG(testsupport.Filler(64, 2))))
	testsupport.WriteFile(t, filepath.Join(dir, "bb", "image"), testsupport.PNG(testsupport.Filler(64, 3)))
	testsupport.WriteFile(t, filepath.Join(dir, "cc", "noise"), testsupport.Filler(256, 4))
}

func TestConfigInitWritesSample(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath); err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, env.configPath); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigShowPrintsSource(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "# "+env.configPath)
	requireContains(t, out, "[extraction]")
	requireContains(t, out, env.cacheDir)
}

func TestExtractJSONSummary(t *testing.T) {
	env := setupCLITestEnv(t)
	seedCache(t, env.cacheDir)

	out, _, err := runCLI(t, []string{"extract", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	var summary summaryJSON
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode summary: %v\n%s", err, out)
	}
	if summary.State != "completed" {
		t.Fatalf("expected completed state, got %q", summary.State)
	}
	if summary.Candidates != 3 || summary.Processed != 2 || summary.Skipped != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if summary.ByKind["ogg"] != 1 || summary.ByKind["png"] != 1 {
		t.Fatalf("unexpected by_kind: %v", summary.ByKind)
	}
	if summary.RunID == "" {
		t.Fatal("expected run id")
	}
	for _, dir := range []string{"audio_ogg", "images"} {
		entries, err := os.ReadDir(filepath.Join(summary.OutputDir, dir))
		if err != nil || len(entries) != 1 {
			t.Fatalf("expected one file in %s, got %d (%v)", dir, len(entries), err)
		}
	}

	out, _, err = runCLI(t, []string{"extract", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("second extract: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode second summary: %v", err)
	}
	if summary.State != "no_assets" || summary.AlreadyProcessed != 2 {
		t.Fatalf("expected history to skip both assets, got %+v", summary)
	}
}

func TestExtractTextSummaryWithOverrides(t *testing.T) {
	env := setupCLITestEnv(t)
	seedCache(t, env.cacheDir)

	out, _, err := runCLI(t, []string{"extract", "--types", "png", "--classify", "format", "--no-history", "-w", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	requireContains(t, out, "Extraction complete")
	requireContains(t, out, "Extracted")
	output := filepath.Join(env.cacheDir, "extracted_assets")
	if _, err := os.Stat(filepath.Join(output, "png_images")); err != nil {
		t.Fatalf("expected png_images folder: %v", err)
	}
	if _, err := os.Stat(env.cfg.Paths.HistoryPath); err == nil {
		t.Fatal("expected --no-history to leave the history file untouched")
	}
}

func TestExtractRejectsInvalidFlags(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"extract", "--classify", "colour"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "invalid flags") {
		t.Fatalf("expected invalid flags error, got %v", err)
	}
}

func TestExtractMissingCacheFailsPreflight(t *testing.T) {
	env := setupCLITestEnv(t)

	missing := filepath.Join(t.TempDir(), "absent")
	_, _, err := runCLI(t, []string{"extract", missing}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "preflight failed") {
		t.Fatalf("expected preflight failure, got %v", err)
	}
}

func TestHistoryCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	seedCache(t, env.cacheDir)

	if _, _, err := runCLI(t, []string{"extract", "--json"}, env.configPath); err != nil {
		t.Fatalf("extract: %v", err)
	}

	out, _, err := runCLI(t, []string{"history", "show", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	var info historyInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("decode history info: %v", err)
	}
	if info.Entries != 2 || !info.Enabled || info.SizeBytes == 0 {
		t.Fatalf("unexpected history info: %+v", info)
	}

	out, _, err = runCLI(t, []string{"history", "runs"}, env.configPath)
	if err != nil {
		t.Fatalf("history runs: %v", err)
	}
	requireContains(t, out, "completed")

	out, _, err = runCLI(t, []string{"history", "runs", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history runs --json: %v", err)
	}
	var runs []runJSON
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("decode runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Processed != 2 {
		t.Fatalf("unexpected runs: %+v", runs)
	}

	out, _, err = runCLI(t, []string{"history", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("history clear: %v", err)
	}
	requireContains(t, out, "Cleared 2 history entries")

	out, _, err = runCLI(t, []string{"history", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, "Entries:      0")
}

func TestHistoryRunsEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history", "runs"}, env.configPath)
	if err != nil {
		t.Fatalf("history runs: %v", err)
	}
	requireContains(t, out, "No runs recorded")
}

func TestCacheClear(t *testing.T) {
	env := setupCLITestEnv(t)
	seedCache(t, env.cacheDir)

	if _, _, err := runCLI(t, []string{"cache", "clear"}, env.configPath); err == nil {
		t.Fatal("expected clear without --yes to be refused")
	}

	out, _, err := runCLI(t, []string{"cache", "clear", "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("cache clear --dry-run: %v", err)
	}
	requireContains(t, out, "Would remove 2 of 3 files")
	if _, err := os.Stat(filepath.Join(env.cacheDir, "bb", "image")); err != nil {
		t.Fatalf("dry run removed a file: %v", err)
	}

	out, _, err = runCLI(t, []string{"cache", "clear", "--yes"}, env.configPath)
	if err != nil {
		t.Fatalf("cache clear --yes: %v", err)
	}
	requireContains(t, out, "Removed 2 of 3 files")
	if _, err := os.Stat(filepath.Join(env.cacheDir, "cc", "noise")); err != nil {
		t.Fatalf("expected non-asset file to survive: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.cacheDir, "aa", "sound")); !os.IsNotExist(err) {
		t.Fatalf("expected asset file removed, got %v", err)
	}
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithClassification("duration"), testsupport.WithStubbedFFprobe("3.0"))

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Configuration")
	requireContains(t, out, env.configPath)
	requireContains(t, out, "duration")
	requireContains(t, out, "[OK]")
	requireContains(t, out, "Dependencies")
}

func TestLogsCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"logs", "--errors"}, env.configPath)
	if err != nil {
		t.Fatalf("logs --errors: %v", err)
	}
	requireContains(t, out, "No log entries")

	errLog := filepath.Join(env.cacheDir, "extracted_assets", "logs", "extraction_errors.log")
	testsupport.WriteFile(t, errLog, []byte("[2026-01-02 03:04:05] /cache/a: boom\n[2026-01-02 03:04:06] /cache/b: bang\n"))

	out, _, err = runCLI(t, []string{"logs", "--errors", "-n", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("logs --errors -n 1: %v", err)
	}
	requireContains(t, out, "/cache/b: bang")
	if strings.Contains(out, "/cache/a") {
		t.Fatalf("expected only the last line, got %q", out)
	}
}
