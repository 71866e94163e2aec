// Package organizer finalizes processed books by grouping them into
// per-author folders, optionally renaming each file after its title, and
// sweeping out the directories discovery emptied.
package organizer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"shelfsort/internal/catalog"
	"shelfsort/internal/config"
	"shelfsort/internal/fileops"
	"shelfsort/internal/logging"
	"shelfsort/internal/pipeline"
	"shelfsort/internal/textutil"
)

// unknownAuthorFolder groups books whose metadata names no author.
const unknownAuthorFolder = "Unknown_Author"

// Options selects optional organization behavior.
type Options struct {
	// RenameFiles renames each processed file after its sanitized title.
	RenameFiles bool
}

// Organizer groups processed entries into author folders under the
// processed directory.
type Organizer struct {
	cfg    *config.Config
	store  *catalog.Store
	opts   Options
	logger *slog.Logger
}

// New constructs the organization stage.
func New(cfg *config.Config, store *catalog.Store, opts Options, logger *slog.Logger) *Organizer {
	return &Organizer{
		cfg:    cfg,
		store:  store,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "organizer"),
	}
}

// Name identifies the stage in run logs.
func (o *Organizer) Name() string { return "organize" }

// Execute moves every processed entry into its author folder and removes
// directories left empty by earlier moves. A failed move parks the entry
// as inconsistent and the pass continues.
func (o *Organizer) Execute(ctx context.Context) error {
	entries, err := o.store.List(ctx, catalog.StatusProcessed)
	if err != nil {
		return err
	}

	bar := pipeline.NewProgressBar(len(entries), "organizing")
	defer func() { _ = bar.Finish() }()

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := o.organize(ctx, entry); err != nil {
			return err
		}
		_ = bar.Add(1)
	}

	removed, err := fileops.RemoveEmptyDirs(o.cfg.Paths.LibraryDir, o.cfg.ManagedDirs()...)
	if err != nil {
		return fmt.Errorf("remove empty directories: %w", err)
	}
	if removed > 0 {
		o.logger.Info("removed empty directories", logging.Int("count", removed))
	}
	return nil
}

func (o *Organizer) organize(ctx context.Context, entry *catalog.Entry) error {
	name := filepath.Base(entry.Path)
	if o.opts.RenameFiles {
		name = textutil.SanitizeName(entry.Title) + filepath.Ext(entry.Path)
	}

	folder := textutil.JoinAuthors(entry.Authors)
	if folder == "" {
		folder = unknownAuthorFolder
	}

	target := filepath.Join(o.cfg.ProcessedDir(), folder, name)
	if target == entry.Path {
		return nil
	}

	if err := fileops.Relocate(entry.Path, target); err != nil {
		entry.SetInconsistent(err.Error())
		o.logger.Error("grouping failed",
			logging.Int64(logging.FieldEntryID, entry.ID),
			logging.Error(err))
	} else {
		entry.Path = target
	}

	if err := o.store.Update(ctx, entry); err != nil {
		return fmt.Errorf("update entry %d: %w", entry.ID, err)
	}

	o.logger.Debug("book organized",
		logging.Int64(logging.FieldEntryID, entry.ID),
		logging.String(logging.FieldPath, entry.Path))
	return nil
}
