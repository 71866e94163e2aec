package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// LibraryDir is the root scanned for e-book files. The three managed
	// folders live directly beneath it.
	LibraryDir string `toml:"library_dir"`
	// ReportPath is where the CSV report is written. Empty means
	// <library_dir>/epub_metadata.csv.
	ReportPath string `toml:"report_path"`
	LogDir     string `toml:"log_dir"`
}

// Library contains the managed folder layout and file matching settings.
type Library struct {
	Extension     string `toml:"extension"`
	ProcessedDir  string `toml:"processed_dir"`
	FailedDir     string `toml:"failed_dir"`
	DuplicatesDir string `toml:"duplicates_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for shelfsort.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Library Library `toml:"library"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/shelfsort/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second return is
// the resolved path, the third reports whether the file existed.
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

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
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

	projectPath, err := filepath.Abs("shelfsort.toml")
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

// ProcessedDir returns the absolute path of the processed folder.
func (c *Config) ProcessedDir() string {
	return filepath.Join(c.Paths.LibraryDir, c.Library.ProcessedDir)
}

// FailedDir returns the absolute path of the failed folder.
func (c *Config) FailedDir() string {
	return filepath.Join(c.Paths.LibraryDir, c.Library.FailedDir)
}

// DuplicatesDir returns the absolute path of the duplicates folder.
func (c *Config) DuplicatesDir() string {
	return filepath.Join(c.Paths.LibraryDir, c.Library.DuplicatesDir)
}

// ManagedDirs returns the three managed folder paths.
func (c *Config) ManagedDirs() []string {
	return []string{c.ProcessedDir(), c.FailedDir(), c.DuplicatesDir()}
}

// ReportPath returns the effective report location.
func (c *Config) ReportPath() string {
	if strings.TrimSpace(c.Paths.ReportPath) != "" {
		return c.Paths.ReportPath
	}
	return filepath.Join(c.Paths.LibraryDir, "epub_metadata.csv")
}

// EnsureDirectories creates the three managed folders beneath the library
// root. This is the only startup filesystem operation allowed to abort the
// whole run.
func (c *Config) EnsureDirectories() error {
	for _, dir := range c.ManagedDirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create managed folder %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
			return fmt.Errorf("create log directory %q: %w", c.Paths.LogDir, err)
		}
	}
	return nil
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
