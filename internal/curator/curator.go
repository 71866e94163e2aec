// Package curator runs the optional interactive metadata passes, letting
// the user rewrite authors and titles inside the processed books before
// they are grouped.
package curator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"shelfsort/internal/catalog"
	"shelfsort/internal/config"
	"shelfsort/internal/logging"
	"shelfsort/internal/metadata"
	"shelfsort/internal/textutil"
)

// Options selects which metadata fields the curation pass offers to edit.
type Options struct {
	UpdateAuthors bool
	UpdateTitles  bool
}

// Enabled reports whether any edit pass was requested.
func (o Options) Enabled() bool { return o.UpdateAuthors || o.UpdateTitles }

// Curator walks the processed entries and applies user-supplied metadata
// edits. Every accepted edit is written into the book file first; the
// catalog record only changes once the file write succeeded.
type Curator struct {
	cfg      *config.Config
	store    *catalog.Store
	port     metadata.Port
	prompter Prompter
	opts     Options
	logger   *slog.Logger
}

// New constructs the curation stage.
func New(cfg *config.Config, store *catalog.Store, port metadata.Port, prompter Prompter, opts Options, logger *slog.Logger) *Curator {
	return &Curator{
		cfg:      cfg,
		store:    store,
		port:     port,
		prompter: prompter,
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "curator"),
	}
}

// Name identifies the stage in run logs.
func (c *Curator) Name() string { return "curate" }

// Execute offers author and title edits for each processed entry. Entries
// the user declines stay untouched. A file that refuses the rewrite keeps
// its old metadata in both the file and the catalog.
func (c *Curator) Execute(ctx context.Context) error {
	if !c.opts.Enabled() {
		c.logger.Debug("no edit passes requested")
		return nil
	}

	entries, err := c.store.List(ctx, catalog.StatusProcessed)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.curate(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

func (c *Curator) curate(ctx context.Context, entry *catalog.Entry) error {
	book := metadata.Book{
		Identifier: entry.Identifier,
		Title:      entry.Title,
		Authors:    entry.Authors,
	}
	changed := false

	if c.opts.UpdateAuthors {
		authors, edited, err := c.askAuthors(entry)
		if err != nil {
			return err
		}
		if edited {
			book.Authors = authors
			changed = true
		}
	}

	if c.opts.UpdateTitles {
		title, edited, err := c.askTitle(entry)
		if err != nil {
			return err
		}
		if edited {
			book.Title = title
			changed = true
		}
	}

	if !changed {
		return nil
	}

	if err := c.port.Write(entry.Path, book); err != nil {
		c.logger.Warn("edit rejected, book file unchanged",
			logging.Int64(logging.FieldEntryID, entry.ID),
			logging.String(logging.FieldPath, entry.Path),
			logging.Error(err))
		return nil
	}

	entry.Title = book.Title
	entry.Authors = book.Authors
	if err := c.store.Update(ctx, entry); err != nil {
		return fmt.Errorf("update entry %d: %w", entry.ID, err)
	}
	c.logger.Info("metadata updated",
		logging.Int64(logging.FieldEntryID, entry.ID),
		logging.String(logging.FieldPath, entry.Path))
	return nil
}

func (c *Curator) askAuthors(entry *catalog.Entry) ([]string, bool, error) {
	current := textutil.AuthorDisplay(entry.Authors)
	if current == "" {
		current = "none"
	}
	ok, err := c.prompter.Confirm(fmt.Sprintf("Update author of %q (currently %s)?", entry.Title, current))
	if err != nil || !ok {
		return nil, false, err
	}
	answer, err := c.prompter.Ask("New author (separate multiple authors with commas):")
	if err != nil {
		return nil, false, err
	}
	authors := splitAuthors(answer)
	if len(authors) == 0 {
		return nil, false, nil
	}
	return authors, true, nil
}

func (c *Curator) askTitle(entry *catalog.Entry) (string, bool, error) {
	ok, err := c.prompter.Confirm(fmt.Sprintf("Update title %q?", entry.Title))
	if err != nil || !ok {
		return "", false, err
	}
	answer, err := c.prompter.Ask("New title:")
	if err != nil {
		return "", false, err
	}
	title := strings.TrimSpace(answer)
	if title == "" {
		return "", false, nil
	}
	return title, true, nil
}

func splitAuthors(answer string) []string {
	parts := strings.Split(answer, ",")
	authors := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			authors = append(authors, trimmed)
		}
	}
	return authors
}
