// Package classifier discovers library files and sorts each one into the
// processed or failed folder based on whether its metadata decodes.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"shelfsort/internal/catalog"
	"shelfsort/internal/config"
	"shelfsort/internal/fileops"
	"shelfsort/internal/logging"
	"shelfsort/internal/metadata"
	"shelfsort/internal/pipeline"
	"shelfsort/internal/textutil"
)

// Classifier walks the library root, reads each book's metadata, and files
// the book under the processed or failed folder while recording a catalog
// entry per file.
type Classifier struct {
	cfg    *config.Config
	store  *catalog.Store
	port   metadata.Port
	logger *slog.Logger
}

// New constructs the classification stage.
func New(cfg *config.Config, store *catalog.Store, port metadata.Port, logger *slog.Logger) *Classifier {
	return &Classifier{
		cfg:    cfg,
		store:  store,
		port:   port,
		logger: logging.NewComponentLogger(logger, "classifier"),
	}
}

// Name identifies the stage in run logs.
func (c *Classifier) Name() string { return "classify" }

// Execute discovers candidate files and classifies each one. Per-file
// decode and relocation failures are recorded on the entry; only catalog
// and walk errors abort the stage.
func (c *Classifier) Execute(ctx context.Context) error {
	paths, err := c.discover()
	if err != nil {
		return err
	}
	c.logger.Info("discovery completed", logging.Int("files", len(paths)))

	bar := pipeline.NewProgressBar(len(paths), "classifying")
	defer func() { _ = bar.Finish() }()

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.classify(ctx, path); err != nil {
			return err
		}
		_ = bar.Add(1)
	}
	return nil
}

// discover collects matching files under the library root in walk order,
// leaving the managed folders untouched so re-runs never reprocess sorted
// books.
func (c *Classifier) discover() ([]string, error) {
	managed := make(map[string]struct{}, 3)
	for _, dir := range c.cfg.ManagedDirs() {
		managed[dir] = struct{}{}
	}

	var paths []string
	root := c.cfg.Paths.LibraryDir
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if _, skip := managed[path]; skip {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), c.cfg.Library.Extension) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover files under %s: %w", root, err)
	}
	return paths, nil
}

func (c *Classifier) classify(ctx context.Context, path string) error {
	entry := &catalog.Entry{
		SourcePath:   path,
		Path:         path,
		OriginalName: filepath.Base(path),
		Status:       catalog.StatusDiscovered,
	}

	book, readErr := c.port.Read(path)
	switch {
	case readErr != nil:
		entry.Status = catalog.StatusFailed
		entry.ErrorMessage = readErr.Error()
		c.logger.Warn("metadata decode failed",
			logging.String(logging.FieldPath, path),
			logging.Error(readErr))
	case book.Identifier == "":
		// A book without an identifier cannot participate in duplicate
		// detection, so it goes to the failed folder with the broken ones.
		entry.Status = catalog.StatusFailed
		entry.ErrorMessage = "metadata has no identifier"
		c.logger.Warn("metadata has no identifier", logging.String(logging.FieldPath, path))
	default:
		entry.Status = catalog.StatusProcessed
		entry.Identifier = book.Identifier
		entry.Title = book.Title
		entry.Authors = book.Authors
		if entry.Title == "" {
			entry.Title = textutil.TitleFromFilename(path)
		}
	}

	targetDir := c.cfg.ProcessedDir()
	if entry.Status == catalog.StatusFailed {
		targetDir = c.cfg.FailedDir()
	}
	target := filepath.Join(targetDir, entry.OriginalName)
	if err := fileops.Relocate(path, target); err != nil {
		entry.SetInconsistent(err.Error())
		c.logger.Error("relocation failed",
			logging.String(logging.FieldPath, path),
			logging.Error(err))
	} else {
		entry.Path = target
	}

	stored, err := c.store.Add(ctx, entry)
	if err != nil {
		if errors.Is(err, catalog.ErrDuplicateEntry) {
			c.logger.Warn("file already cataloged", logging.String(logging.FieldPath, path))
			return nil
		}
		return fmt.Errorf("record %s: %w", path, err)
	}

	c.logger.Debug("file classified",
		logging.Int64(logging.FieldEntryID, stored.ID),
		logging.String(logging.FieldPath, stored.Path),
		logging.String("status", string(stored.Status)))
	return nil
}
