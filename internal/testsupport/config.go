package testsupport

import (
	"path/filepath"
	"testing"

	"shelfsort/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config rooted in a unique temp directory per test,
// with the managed folders already created.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LibraryDir = filepath.Join(base, "library")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	return &cfg
}

// WithReportPath overrides the report location on the test config.
func WithReportPath(path string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Paths.ReportPath = path
	}
}

// WithExtension overrides the managed extension on the test config.
func WithExtension(ext string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Library.Extension = ext
	}
}
