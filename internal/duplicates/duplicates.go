// Package duplicates reclassifies processed books that share an identifier
// and quarantines every copy in the duplicates folder.
package duplicates

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"shelfsort/internal/catalog"
	"shelfsort/internal/config"
	"shelfsort/internal/fileops"
	"shelfsort/internal/logging"
)

// Resolver finds identifiers shared by multiple processed entries and moves
// all of their files, first copies included, into the duplicates folder.
type Resolver struct {
	cfg    *config.Config
	store  *catalog.Store
	logger *slog.Logger
}

// New constructs the duplicate resolution stage.
func New(cfg *config.Config, store *catalog.Store, logger *slog.Logger) *Resolver {
	return &Resolver{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "duplicates"),
	}
}

// Name identifies the stage in run logs.
func (r *Resolver) Name() string { return "resolve-duplicates" }

// Execute moves every entry of every shared identifier to the duplicates
// folder. A failed move parks that entry as inconsistent and the sweep
// continues with the remaining files.
func (r *Resolver) Execute(ctx context.Context) error {
	identifiers, err := r.store.DuplicateIdentifiers(ctx)
	if err != nil {
		return err
	}
	r.logger.Info("duplicate scan completed", logging.Int("identifiers", len(identifiers)))

	for _, identifier := range identifiers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.quarantine(ctx, identifier); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) quarantine(ctx context.Context, identifier string) error {
	entries, err := r.store.FindByIdentifier(ctx, identifier)
	if err != nil {
		return err
	}

	logger := r.logger.With(logging.String(logging.FieldIdentifier, identifier))
	logger.Info("quarantining duplicate set", logging.Int("copies", len(entries)))

	for _, entry := range entries {
		if entry.Status != catalog.StatusProcessed {
			continue
		}
		target := filepath.Join(r.cfg.DuplicatesDir(), filepath.Base(entry.Path))
		if err := fileops.Relocate(entry.Path, target); err != nil {
			entry.SetInconsistent(err.Error())
			logger.Error("duplicate relocation failed",
				logging.Int64(logging.FieldEntryID, entry.ID),
				logging.Error(err))
		} else {
			entry.Path = target
			entry.Status = catalog.StatusDuplicate
		}
		if err := r.store.Update(ctx, entry); err != nil {
			return fmt.Errorf("update entry %d: %w", entry.ID, err)
		}
	}
	return nil
}
