package organizer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"shelfsort/internal/catalog"
	"shelfsort/internal/config"
	"shelfsort/internal/logging"
	"shelfsort/internal/testsupport"
)

func seedProcessed(t *testing.T, store *catalog.Store, cfg *config.Config, name, title string, authors []string) *catalog.Entry {
	t.Helper()
	path := filepath.Join(cfg.ProcessedDir(), name)
	if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
		t.Fatal(err)
	}
	return testsupport.AddEntry(t, store, catalog.Entry{
		SourcePath:   path,
		Path:         path,
		OriginalName: name,
		Identifier:   "id-" + name,
		Title:        title,
		Authors:      authors,
		Status:       catalog.StatusProcessed,
	})
}

func TestOrganizerGroupsByAuthorFolder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t)

	solo := seedProcessed(t, store, cfg, "solo.epub", "Solo Work", []string{"Ada Archivist"})
	duo := seedProcessed(t, store, cfg, "duo.epub", "Joint Work", []string{"Ada Archivist", "Brin Binder"})
	anon := seedProcessed(t, store, cfg, "anon.epub", "Unsigned", nil)

	stage := New(cfg, store, Options{}, logging.NewNop())
	if err := stage.Execute(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	cases := []struct {
		entry  *catalog.Entry
		folder string
		name   string
	}{
		{solo, "Ada_Archivist", "solo.epub"},
		{duo, "Ada_Archivist-Brin_Binder", "duo.epub"},
		{anon, "Unknown_Author", "anon.epub"},
	}
	for _, tc := range cases {
		entry, err := store.GetByID(context.Background(), tc.entry.ID)
		if err != nil {
			t.Fatal(err)
		}
		want := filepath.Join(cfg.ProcessedDir(), tc.folder, tc.name)
		if entry.Path != want {
			t.Fatalf("%s path = %q, want %q", tc.name, entry.Path, want)
		}
		if _, err := os.Stat(want); err != nil {
			t.Fatalf("%s missing on disk: %v", tc.name, err)
		}
	}
}

func TestOrganizerRenamesAfterSanitizedTitle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t)

	entry := seedProcessed(t, store, cfg, "original.epub", "My, Book", []string{"Ada Archivist"})

	stage := New(cfg, store, Options{RenameFiles: true}, logging.NewNop())
	if err := stage.Execute(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	updated, err := store.GetByID(context.Background(), entry.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(cfg.ProcessedDir(), "Ada_Archivist", "My__Book.epub")
	if updated.Path != want {
		t.Fatalf("path = %q, want %q", updated.Path, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("renamed file missing: %v", err)
	}
	if updated.OriginalName != "original.epub" {
		t.Fatalf("original name changed: %q", updated.OriginalName)
	}
}

func TestOrganizerRemovesEmptiedDirectories(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t)

	nested := filepath.Join(cfg.Paths.LibraryDir, "inbox", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	seedProcessed(t, store, cfg, "book.epub", "Book", []string{"Ada Archivist"})

	stage := New(cfg, store, Options{}, logging.NewNop())
	if err := stage.Execute(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if _, err := os.Stat(filepath.Join(cfg.Paths.LibraryDir, "inbox")); !os.IsNotExist(err) {
		t.Fatalf("empty tree survived: %v", err)
	}
	for _, dir := range cfg.ManagedDirs() {
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("managed dir removed: %v", err)
		}
	}
}

func TestOrganizerParksUnmovableEntry(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t)

	ghost := testsupport.AddEntry(t, store, catalog.Entry{
		SourcePath:   filepath.Join(cfg.ProcessedDir(), "ghost.epub"),
		Path:         filepath.Join(cfg.ProcessedDir(), "ghost.epub"),
		OriginalName: "ghost.epub",
		Identifier:   "id-ghost",
		Title:        "Ghost",
		Authors:      []string{"Nobody"},
		Status:       catalog.StatusProcessed,
	})

	stage := New(cfg, store, Options{}, logging.NewNop())
	if err := stage.Execute(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	entry, err := store.GetByID(context.Background(), ghost.ID)
	if err != nil {
		t.Fatal(err)
	}
	if entry.Status != catalog.StatusInconsistent {
		t.Fatalf("status = %s, want inconsistent", entry.Status)
	}
}
