package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLibrary()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ReportPath) != "" {
		if c.Paths.ReportPath, err = expandPath(c.Paths.ReportPath); err != nil {
			return fmt.Errorf("paths.report_path: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
			return fmt.Errorf("paths.log_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeLibrary() {
	c.Library.Extension = strings.ToLower(strings.TrimSpace(c.Library.Extension))
	if c.Library.Extension != "" && !strings.HasPrefix(c.Library.Extension, ".") {
		c.Library.Extension = "." + c.Library.Extension
	}
	c.Library.ProcessedDir = strings.TrimSpace(c.Library.ProcessedDir)
	c.Library.FailedDir = strings.TrimSpace(c.Library.FailedDir)
	c.Library.DuplicatesDir = strings.TrimSpace(c.Library.DuplicatesDir)
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
