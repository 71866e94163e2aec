// Package report writes the run's CSV manifest and computes the summary
// shown when a run finishes.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"shelfsort/internal/catalog"
	"shelfsort/internal/config"
	"shelfsort/internal/logging"
	"shelfsort/internal/textutil"
)

// Header columns in alphabetical order. Readers key on names, not positions,
// so the stable sorted order keeps diffs between runs meaningful.
var header = []string{"author", "file", "identifier", "is_duplicate", "is_failed", "path", "title"}

// Writer renders the catalog into the report CSV at the end of a run.
type Writer struct {
	cfg    *config.Config
	store  *catalog.Store
	logger *slog.Logger
}

// New constructs the reporting stage.
func New(cfg *config.Config, store *catalog.Store, logger *slog.Logger) *Writer {
	return &Writer{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "report"),
	}
}

// Name identifies the stage in run logs.
func (w *Writer) Name() string { return "report" }

// Execute writes one CSV row per catalog entry, in discovery order. An
// existing report is replaced.
func (w *Writer) Execute(ctx context.Context) error {
	entries, err := w.store.List(ctx)
	if err != nil {
		return err
	}

	path := w.cfg.ReportPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare report directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	for _, entry := range entries {
		if err := cw.Write(row(entry)); err != nil {
			return fmt.Errorf("write report row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}

	w.logger.Info("report written",
		logging.String(logging.FieldPath, path),
		logging.Int("rows", len(entries)))
	return nil
}

func row(entry *catalog.Entry) []string {
	return []string{
		textutil.AuthorDisplay(entry.Authors),
		entry.OriginalName,
		entry.Identifier,
		formatBool(entry.IsDuplicate()),
		formatBool(entry.IsFailed()),
		entry.Path,
		entry.Title,
	}
}

// formatBool renders booleans in the capitalized form the report's existing
// consumers parse.
func formatBool(value bool) string {
	if value {
		return "True"
	}
	return "False"
}
