package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file locations.
type Paths struct {
	CacheDir      string `toml:"cache_dir"`
	OutputDirName string `toml:"output_dir_name"`
	HistoryPath   string `toml:"history_path"`
	LogDir        string `toml:"log_dir"`
	LedgerPath    string `toml:"ledger_path"`
}

// Extraction contains the per-run extraction settings.
type Extraction struct {
	Types              []string `toml:"types"`
	Classification     string   `toml:"classification"`
	MinFileSize        int64    `toml:"min_file_size"`
	MinPayloadSize     int      `toml:"min_payload_size"`
	ExcludeDirs        []string `toml:"exclude_dirs"`
	Decompress         bool     `toml:"decompress"`
	MaxDecompressedMiB int      `toml:"max_decompressed_mib"`
	RecordDuplicates   bool     `toml:"record_duplicates"`
}

// Workers contains worker pool sizing and timing.
type Workers struct {
	Count                 int `toml:"count"`
	DequeueTimeoutSeconds int `toml:"dequeue_timeout_seconds"`
	ProgressIntervalMS    int `toml:"progress_interval_ms"`
	StatsIntervalMS       int `toml:"stats_interval_ms"`
}

// Probe contains configuration for the audio duration probe.
type Probe struct {
	FFprobeBinary  string `toml:"ffprobe_binary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// History contains configuration for the persisted extraction history.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for assetcarver.
//
// Configuration sections by subsystem:
//   - Paths: cache root, output directory name, history and ledger files
//   - Extraction: asset types, classification policy, size floors, exclusions
//   - Workers: pool size, dequeue timeout, progress cadence
//   - Probe: ffprobe binary used by duration classification
//   - History: persisted "already processed" set
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Extraction Extraction `toml:"extraction"`
	Workers    Workers    `toml:"workers"`
	Probe      Probe      `toml:"probe"`
	History    History    `toml:"history"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/assetcarver/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// Finalize normalizes and validates a config assembled in code (tests, flag overrides).
func (c *Config) Finalize() error {
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("assetcarver.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log directory and the history file's parent.
// The cache directory belongs to another application and is never created.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	if c.History.Enabled && strings.TrimSpace(c.Paths.HistoryPath) != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.HistoryPath))
	}
	if strings.TrimSpace(c.Paths.LedgerPath) != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.LedgerPath))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// OutputDir returns the extraction output root beneath the given cache root.
func (c *Config) OutputDir(root string) string {
	return filepath.Join(root, c.Paths.OutputDirName)
}

// FFprobeBinary returns the ffprobe executable used for duration probing.
func (c *Config) FFprobeBinary() string {
	if bin := strings.TrimSpace(c.Probe.FFprobeBinary); bin != "" {
		return bin
	}
	return defaultFFprobeBinary
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// DefaultCacheDir returns the platform's rbx-storage cache directory.
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		wd, _ := os.Getwd()
		return filepath.Join(wd, "Roblox")
	}
	switch runtime.GOOS {
	case "windows":
		if local, ok := os.LookupEnv("LOCALAPPDATA"); ok && strings.TrimSpace(local) != "" {
			return filepath.Join(local, "Roblox", "rbx-storage")
		}
		return filepath.Join(home, "AppData", "Local", "Roblox", "rbx-storage")
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "Roblox", "rbx-storage")
	default:
		return filepath.Join(home, ".local", "share", "Roblox", "rbx-storage")
	}
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
