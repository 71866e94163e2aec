package fileops_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"shelfsort/internal/fileops"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRelocateMovesFile(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "in", "book.epub")
	dst := filepath.Join(base, "out", "book.epub")
	writeFile(t, src, "payload")

	if err := fileops.Relocate(src, dst); err != nil {
		t.Fatalf("Relocate: %v", err)
	}
	if _, err := os.Stat(src); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("source still present: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil || string(got) != "payload" {
		t.Fatalf("dest content = %q, err = %v", got, err)
	}
}

func TestRelocateOverwritesExistingTarget(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "a.epub")
	dst := filepath.Join(base, "b.epub")
	writeFile(t, src, "new")
	writeFile(t, dst, "old")

	if err := fileops.Relocate(src, dst); err != nil {
		t.Fatalf("Relocate: %v", err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "new" {
		t.Fatalf("expected last write to win, got %q", got)
	}
}

func TestRelocateMissingSourceWrapsSentinel(t *testing.T) {
	base := t.TempDir()
	err := fileops.Relocate(filepath.Join(base, "absent.epub"), filepath.Join(base, "out.epub"))
	if !errors.Is(err, fileops.ErrRelocate) {
		t.Fatalf("expected ErrRelocate, got %v", err)
	}
}

func TestRemoveEmptyDirsDeepestFirst(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	keepDir := filepath.Join(root, "[processed]")
	if err := os.MkdirAll(keepDir, 0o755); err != nil {
		t.Fatalf("mkdir keep: %v", err)
	}

	removed, err := fileops.RemoveEmptyDirs(root, keepDir)
	if err != nil {
		t.Fatalf("RemoveEmptyDirs: %v", err)
	}
	if removed != 3 {
		t.Fatalf("removed %d dirs, want 3", removed)
	}
	if _, err := os.Stat(filepath.Join(root, "a")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("ancestor survived: %v", err)
	}
	if _, err := os.Stat(keepDir); err != nil {
		t.Fatalf("kept dir removed: %v", err)
	}
	if _, err := os.Stat(root); err != nil {
		t.Fatalf("root removed: %v", err)
	}
}

func TestRemoveEmptyDirsSkipsPopulated(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "keep.epub"), "x")
	if err := os.MkdirAll(filepath.Join(root, "a", "empty"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	removed, err := fileops.RemoveEmptyDirs(root)
	if err != nil {
		t.Fatalf("RemoveEmptyDirs: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed %d, want 1", removed)
	}
	if _, err := os.Stat(filepath.Join(root, "a", "keep.epub")); err != nil {
		t.Fatalf("populated tree disturbed: %v", err)
	}
}
