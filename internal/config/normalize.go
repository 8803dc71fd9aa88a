package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExtraction()
	c.normalizeWorkers()
	c.normalizeProbe()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		if value, ok := os.LookupEnv("ASSETCARVER_CACHE_DIR"); ok && strings.TrimSpace(value) != "" {
			c.Paths.CacheDir = strings.TrimSpace(value)
		} else {
			c.Paths.CacheDir = DefaultCacheDir()
		}
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	c.Paths.OutputDirName = strings.TrimSpace(c.Paths.OutputDirName)
	if c.Paths.OutputDirName == "" {
		c.Paths.OutputDirName = defaultOutputDirName
	}
	if strings.TrimSpace(c.Paths.HistoryPath) == "" {
		c.Paths.HistoryPath = defaultHistoryPath
	}
	if c.Paths.HistoryPath, err = expandPath(c.Paths.HistoryPath); err != nil {
		return fmt.Errorf("paths.history_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LedgerPath) == "" {
		c.Paths.LedgerPath = filepath.Join(filepath.Dir(c.Paths.LogDir), defaultLedgerFile)
	}
	if c.Paths.LedgerPath, err = expandPath(c.Paths.LedgerPath); err != nil {
		return fmt.Errorf("paths.ledger_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeExtraction() {
	if len(c.Extraction.Types) == 0 {
		c.Extraction.Types = DefaultTypes()
	} else {
		c.Extraction.Types = dedupeLower(c.Extraction.Types)
	}
	c.Extraction.Classification = strings.ToLower(strings.TrimSpace(c.Extraction.Classification))
	if c.Extraction.Classification == "" {
		c.Extraction.Classification = defaultClassification
	}
	if c.Extraction.MinFileSize <= 0 {
		c.Extraction.MinFileSize = defaultMinFileSize
	}
	if c.Extraction.MinPayloadSize <= 0 {
		c.Extraction.MinPayloadSize = defaultMinPayloadSize
	}
	if c.Extraction.MaxDecompressedMiB <= 0 {
		c.Extraction.MaxDecompressedMiB = defaultMaxDecompressedMiB
	}
	excludes := make([]string, 0, len(c.Extraction.ExcludeDirs)+1)
	excludes = append(excludes, c.Extraction.ExcludeDirs...)
	excludes = append(excludes, c.Paths.OutputDirName)
	c.Extraction.ExcludeDirs = dedupeLower(excludes)
}

func (c *Config) normalizeWorkers() {
	if c.Workers.Count <= 0 {
		c.Workers.Count = DefaultWorkerCount()
	}
	if c.Workers.DequeueTimeoutSeconds <= 0 {
		c.Workers.DequeueTimeoutSeconds = defaultDequeueTimeoutSeconds
	}
	if c.Workers.ProgressIntervalMS <= 0 {
		c.Workers.ProgressIntervalMS = defaultProgressIntervalMS
	}
	if c.Workers.StatsIntervalMS <= 0 {
		c.Workers.StatsIntervalMS = defaultStatsIntervalMS
	}
}

func (c *Config) normalizeProbe() {
	c.Probe.FFprobeBinary = strings.TrimSpace(c.Probe.FFprobeBinary)
	if c.Probe.FFprobeBinary == "" {
		c.Probe.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Probe.TimeoutSeconds <= 0 {
		c.Probe.TimeoutSeconds = defaultProbeTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// DefaultWorkerCount returns min(MaxWorkers, 2 x logical CPUs).
func DefaultWorkerCount() int {
	n := runtime.NumCPU() * 2
	if n < 1 {
		n = 1
	}
	if n > MaxWorkers {
		n = MaxWorkers
	}
	return n
}

// DequeueTimeout returns the worker dequeue timeout as a duration.
func (c *Config) DequeueTimeout() time.Duration {
	return time.Duration(c.Workers.DequeueTimeoutSeconds) * time.Second
}

// ProgressInterval returns the progress monitor tick interval.
func (c *Config) ProgressInterval() time.Duration {
	return time.Duration(c.Workers.ProgressIntervalMS) * time.Millisecond
}

// StatsInterval returns the minimum spacing between stats snapshots.
func (c *Config) StatsInterval() time.Duration {
	return time.Duration(c.Workers.StatsIntervalMS) * time.Millisecond
}

// ProbeTimeout returns the per-file ffprobe timeout.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Probe.TimeoutSeconds) * time.Second
}

// MaxDecompressedBytes returns the decompression output cap in bytes.
func (c *Config) MaxDecompressedBytes() int64 {
	return int64(c.Extraction.MaxDecompressedMiB) << 20
}

func dedupeLower(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := strings.ToLower(strings.TrimSpace(value))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}
