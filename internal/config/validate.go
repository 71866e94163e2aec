package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLibrary(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return errors.New("paths.library_dir must be set")
	}
	return nil
}

func (c *Config) validateLibrary() error {
	if c.Library.Extension == "" {
		return errors.New("library.extension must be set")
	}
	names := map[string]string{
		"library.processed_dir":  c.Library.ProcessedDir,
		"library.failed_dir":     c.Library.FailedDir,
		"library.duplicates_dir": c.Library.DuplicatesDir,
	}
	seen := make(map[string]string, len(names))
	for key, name := range names {
		if name == "" {
			return fmt.Errorf("%s must be set", key)
		}
		if name != filepath.Base(name) || name == "." || name == ".." {
			return fmt.Errorf("%s must be a plain folder name, got %q", key, name)
		}
		if prior, ok := seen[name]; ok {
			return fmt.Errorf("%s and %s must differ, both are %q", prior, key, name)
		}
		seen[name] = key
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
