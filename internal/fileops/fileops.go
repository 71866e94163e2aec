// Package fileops provides the filesystem primitives the pipeline stages
// share: single-file relocation and the post-run empty-directory sweep.
package fileops

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"syscall"
)

// ErrRelocate marks a failed file relocation. Stages contain these per file:
// the affected entry is flagged inconsistent and the batch continues.
var ErrRelocate = errors.New("relocation error")

// Relocate moves src to dst with a rename, falling back to copy-and-remove
// when the target sits on another device. An existing dst is overwritten
// (last write wins). Content is never touched.
func Relocate(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("%w: prepare %s: %v", ErrRelocate, filepath.Dir(dst), err)
	}
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		if copyErr := copyFile(src, dst); copyErr != nil {
			return fmt.Errorf("%w: copy %s to %s: %v", ErrRelocate, src, dst, copyErr)
		}
		if removeErr := os.Remove(src); removeErr != nil {
			return fmt.Errorf("%w: remove %s after copy: %v", ErrRelocate, src, removeErr)
		}
		return nil
	}
	return fmt.Errorf("%w: move %s to %s: %v", ErrRelocate, src, dst, err)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	if _, err := io.Copy(out, in); err != nil {
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return nil
}

// RemoveEmptyDirs removes every empty directory beneath root, deepest first
// so an emptied child exposes its now-empty parent in the same pass. The
// root itself and any directory listed in keep survive. Directories that
// pick up files between the scan and the removal are skipped, not fatal.
// Returns the number of directories removed.
func RemoveEmptyDirs(root string, keep ...string) (int, error) {
	kept := make(map[string]struct{}, len(keep)+1)
	kept[filepath.Clean(root)] = struct{}{}
	for _, dir := range keep {
		kept[filepath.Clean(dir)] = struct{}{}
	}

	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if _, ok := kept[filepath.Clean(path)]; ok {
			return nil
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", root, err)
	}

	// Reverse-lexicographic order visits children before their parents.
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))

	removed := 0
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return removed, fmt.Errorf("read %s: %w", dir, err)
		}
		if len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err != nil {
			// Raced with a new file; leave it standing.
			if errors.Is(err, syscall.ENOTEMPTY) || errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return removed, fmt.Errorf("remove %s: %w", dir, err)
		}
		removed++
	}
	return removed, nil
}
