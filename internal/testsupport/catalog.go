package testsupport

import (
	"context"
	"testing"

	"shelfsort/internal/catalog"
)

// MustOpenCatalog opens a catalog.Store for tests and registers cleanup.
func MustOpenCatalog(t testing.TB) *catalog.Store {
	t.Helper()

	store, err := catalog.Open()
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddEntry inserts an entry for tests using the provided store.
func AddEntry(t testing.TB, store *catalog.Store, entry catalog.Entry) *catalog.Entry {
	t.Helper()

	stored, err := store.Add(context.Background(), &entry)
	if err != nil {
		t.Fatalf("store.Add(%s): %v", entry.SourcePath, err)
	}
	return stored
}
