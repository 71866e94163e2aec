package duplicates

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"shelfsort/internal/catalog"
	"shelfsort/internal/logging"
	"shelfsort/internal/testsupport"
)

func seedProcessed(t *testing.T, store *catalog.Store, dir, name, identifier string) *catalog.Entry {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
		t.Fatal(err)
	}
	return testsupport.AddEntry(t, store, catalog.Entry{
		SourcePath:   path,
		Path:         path,
		OriginalName: name,
		Identifier:   identifier,
		Title:        "Title of " + name,
		Status:       catalog.StatusProcessed,
	})
}

func TestResolverQuarantinesEveryCopy(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t)

	first := seedProcessed(t, store, cfg.ProcessedDir(), "first.epub", "ISBN-123")
	second := seedProcessed(t, store, cfg.ProcessedDir(), "second.epub", "ISBN-123")
	unique := seedProcessed(t, store, cfg.ProcessedDir(), "unique.epub", "ISBN-999")

	stage := New(cfg, store, logging.NewNop())
	if err := stage.Execute(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	for _, seeded := range []*catalog.Entry{first, second} {
		entry, err := store.GetByID(context.Background(), seeded.ID)
		if err != nil {
			t.Fatal(err)
		}
		if entry.Status != catalog.StatusDuplicate {
			t.Fatalf("%s status = %s, want duplicate", entry.OriginalName, entry.Status)
		}
		want := filepath.Join(cfg.DuplicatesDir(), entry.OriginalName)
		if entry.Path != want {
			t.Fatalf("%s path = %q, want %q", entry.OriginalName, entry.Path, want)
		}
		if _, err := os.Stat(want); err != nil {
			t.Fatalf("quarantined copy missing: %v", err)
		}
	}

	entry, err := store.GetByID(context.Background(), unique.ID)
	if err != nil {
		t.Fatal(err)
	}
	if entry.Status != catalog.StatusProcessed {
		t.Fatalf("unique entry reclassified: %s", entry.Status)
	}
	if _, err := os.Stat(entry.Path); err != nil {
		t.Fatalf("unique copy moved: %v", err)
	}
}

func TestResolverIgnoresFailedEntriesWithoutIdentifier(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t)

	testsupport.AddEntry(t, store, catalog.Entry{
		SourcePath:   filepath.Join(cfg.FailedDir(), "a.epub"),
		Path:         filepath.Join(cfg.FailedDir(), "a.epub"),
		OriginalName: "a.epub",
		Status:       catalog.StatusFailed,
	})
	testsupport.AddEntry(t, store, catalog.Entry{
		SourcePath:   filepath.Join(cfg.FailedDir(), "b.epub"),
		Path:         filepath.Join(cfg.FailedDir(), "b.epub"),
		OriginalName: "b.epub",
		Status:       catalog.StatusFailed,
	})

	stage := New(cfg, store, logging.NewNop())
	if err := stage.Execute(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	entries, err := store.List(context.Background(), catalog.StatusDuplicate)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("failed entries treated as duplicates: %d", len(entries))
	}
}

func TestResolverParksUnmovableCopyAsInconsistent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t)

	first := seedProcessed(t, store, cfg.ProcessedDir(), "real.epub", "ISBN-5")
	ghost := testsupport.AddEntry(t, store, catalog.Entry{
		SourcePath:   filepath.Join(cfg.ProcessedDir(), "ghost.epub"),
		Path:         filepath.Join(cfg.ProcessedDir(), "ghost.epub"),
		OriginalName: "ghost.epub",
		Identifier:   "ISBN-5",
		Title:        "Ghost",
		Status:       catalog.StatusProcessed,
	})

	stage := New(cfg, store, logging.NewNop())
	if err := stage.Execute(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	moved, err := store.GetByID(context.Background(), first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if moved.Status != catalog.StatusDuplicate {
		t.Fatalf("movable copy status = %s", moved.Status)
	}

	parked, err := store.GetByID(context.Background(), ghost.ID)
	if err != nil {
		t.Fatal(err)
	}
	if parked.Status != catalog.StatusInconsistent {
		t.Fatalf("missing copy status = %s, want inconsistent", parked.Status)
	}
	if parked.ErrorMessage == "" {
		t.Fatal("inconsistent entry has no error message")
	}
}
