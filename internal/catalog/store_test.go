package catalog_test

import (
	"context"
	"errors"
	"testing"

	"shelfsort/internal/catalog"
)

func openStore(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.Open()
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func addEntry(t *testing.T, store *catalog.Store, entry catalog.Entry) *catalog.Entry {
	t.Helper()
	stored, err := store.Add(context.Background(), &entry)
	if err != nil {
		t.Fatalf("Add(%s): %v", entry.SourcePath, err)
	}
	return stored
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	store := openStore(t)
	paths := []string{"/lib/c.epub", "/lib/a.epub", "/lib/b.epub"}
	for _, path := range paths {
		addEntry(t, store, catalog.Entry{
			SourcePath:   path,
			Path:         path,
			OriginalName: path,
			Status:       catalog.StatusDiscovered,
		})
	}

	entries, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != len(paths) {
		t.Fatalf("got %d entries, want %d", len(entries), len(paths))
	}
	for i, entry := range entries {
		if entry.SourcePath != paths[i] {
			t.Errorf("entry %d = %q, want %q", i, entry.SourcePath, paths[i])
		}
	}
}

func TestAddRejectsDuplicateSourcePath(t *testing.T) {
	store := openStore(t)
	entry := catalog.Entry{
		SourcePath:   "/lib/a.epub",
		Path:         "/lib/a.epub",
		OriginalName: "a.epub",
		Status:       catalog.StatusDiscovered,
	}
	addEntry(t, store, entry)
	if _, err := store.Add(context.Background(), &entry); !errors.Is(err, catalog.ErrDuplicateEntry) {
		t.Fatalf("expected ErrDuplicateEntry, got %v", err)
	}
}

func TestFindByIdentifierReturnsInsertionOrder(t *testing.T) {
	store := openStore(t)
	for i, path := range []string{"/lib/a.epub", "/lib/b.epub", "/lib/c.epub"} {
		identifier := "ISBN-123"
		if i == 1 {
			identifier = "ISBN-999"
		}
		addEntry(t, store, catalog.Entry{
			SourcePath:   path,
			Path:         path,
			OriginalName: path,
			Identifier:   identifier,
			Title:        "T",
			Status:       catalog.StatusProcessed,
		})
	}

	matches, err := store.FindByIdentifier(context.Background(), "ISBN-123")
	if err != nil {
		t.Fatalf("FindByIdentifier: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].SourcePath != "/lib/a.epub" || matches[1].SourcePath != "/lib/c.epub" {
		t.Fatalf("unexpected match order: %q, %q", matches[0].SourcePath, matches[1].SourcePath)
	}
}

func TestDuplicateIdentifiersGroupsProcessedOnly(t *testing.T) {
	store := openStore(t)
	add := func(path, identifier string, status catalog.Status) {
		addEntry(t, store, catalog.Entry{
			SourcePath:   path,
			Path:         path,
			OriginalName: path,
			Identifier:   identifier,
			Title:        "T",
			Status:       status,
		})
	}
	add("/lib/a.epub", "ISBN-123", catalog.StatusProcessed)
	add("/lib/b.epub", "ISBN-123", catalog.StatusProcessed)
	add("/lib/c.epub", "ISBN-999", catalog.StatusProcessed)
	// A failed entry sharing the identifier must not count.
	add("/lib/d.epub", "ISBN-999", catalog.StatusFailed)

	identifiers, err := store.DuplicateIdentifiers(context.Background())
	if err != nil {
		t.Fatalf("DuplicateIdentifiers: %v", err)
	}
	if len(identifiers) != 1 || identifiers[0] != "ISBN-123" {
		t.Fatalf("got %v, want [ISBN-123]", identifiers)
	}
}

func TestUpdateRoundTripsAuthors(t *testing.T) {
	store := openStore(t)
	entry := addEntry(t, store, catalog.Entry{
		SourcePath:   "/lib/a.epub",
		Path:         "/lib/a.epub",
		OriginalName: "a.epub",
		Identifier:   "ISBN-1",
		Title:        "Old",
		Authors:      []string{"First Author"},
		Status:       catalog.StatusProcessed,
	})

	entry.Title = "New"
	entry.Authors = []string{"First Author", "Second Author"}
	if err := store.Update(context.Background(), entry); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := store.GetByID(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "New" {
		t.Errorf("title = %q", got.Title)
	}
	if len(got.Authors) != 2 || got.Authors[1] != "Second Author" {
		t.Errorf("authors = %v", got.Authors)
	}
}

func TestStatsCountsByStatus(t *testing.T) {
	store := openStore(t)
	addEntry(t, store, catalog.Entry{SourcePath: "/a", Path: "/a", OriginalName: "a", Status: catalog.StatusProcessed, Identifier: "1", Title: "T"})
	addEntry(t, store, catalog.Entry{SourcePath: "/b", Path: "/b", OriginalName: "b", Status: catalog.StatusFailed})
	addEntry(t, store, catalog.Entry{SourcePath: "/c", Path: "/c", OriginalName: "c", Status: catalog.StatusFailed})

	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats[catalog.StatusProcessed] != 1 || stats[catalog.StatusFailed] != 2 {
		t.Fatalf("unexpected stats: %v", stats)
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := catalog.ParseStatus(" Processed "); !ok || status != catalog.StatusProcessed {
		t.Fatalf("ParseStatus = %q, %v", status, ok)
	}
	if _, ok := catalog.ParseStatus("bogus"); ok {
		t.Fatal("expected bogus status to be rejected")
	}
}
