package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var knownTypes = map[string]struct{}{
	"ogg": {}, "png": {}, "webp": {}, "ktx": {}, "rbxm": {},
}

var knownClassifications = map[string]struct{}{
	"type": {}, "format": {}, "size": {}, "duration": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateExtraction(); err != nil {
		return err
	}
	if err := c.validateWorkers(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		return errors.New("paths.cache_dir must be set")
	}
	name := c.Paths.OutputDirName
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("paths.output_dir_name must be a single directory name, got %q", name)
	}
	return nil
}

func (c *Config) validateExtraction() error {
	if len(c.Extraction.Types) == 0 {
		return errors.New("extraction.types must include at least one type")
	}
	for _, kind := range c.Extraction.Types {
		if _, ok := knownTypes[kind]; !ok {
			return fmt.Errorf("extraction.types: unsupported type %q (expected ogg, png, webp, ktx or rbxm)", kind)
		}
	}
	if _, ok := knownClassifications[c.Extraction.Classification]; !ok {
		return fmt.Errorf("extraction.classification must be one of type, format, size or duration, got %q", c.Extraction.Classification)
	}
	if c.Extraction.MinFileSize < 1 {
		return errors.New("extraction.min_file_size must be positive")
	}
	if c.Extraction.MinPayloadSize < 1 {
		return errors.New("extraction.min_payload_size must be positive")
	}
	return nil
}

func (c *Config) validateWorkers() error {
	if c.Workers.Count < 1 {
		return errors.New("workers.count must be positive")
	}
	if c.Workers.Count > 1024 {
		return errors.New("workers.count must be at most 1024")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
