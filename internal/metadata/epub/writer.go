package epub

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"shelfsort/internal/metadata"
)

var (
	titlePattern   = regexp.MustCompile(`(?s)(<dc:title[^>]*>)(.*?)(</dc:title>)`)
	creatorPattern = regexp.MustCompile(`(?s)[ \t]*<dc:creator[^>]*>.*?</dc:creator>\r?\n?`)
)

// Write replaces title and author metadata in the OPF and rebuilds the
// archive atomically. The patching is textual and expects the conventional
// dc: prefix on Dublin Core elements, which is what the Read path's test
// fixtures and the vast majority of real EPUBs use. Failures wrap
// metadata.ErrEncode and leave the original file untouched.
func (c *Codec) Write(path string, book metadata.Book) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", metadata.ErrEncode, path, err)
	}
	defer zr.Close()

	opfPath, raw, err := readOPF(&zr.Reader)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", metadata.ErrEncode, path, err)
	}

	patched, err := rewriteOPF(raw, book)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", metadata.ErrEncode, path, err)
	}

	if err := replaceArchiveEntry(path, &zr.Reader, opfPath, patched); err != nil {
		return fmt.Errorf("%w: rebuild %s: %v", metadata.ErrEncode, path, err)
	}
	return nil
}

// rewriteOPF patches the first dc:title's text and replaces the whole
// dc:creator set. Empty fields on book leave the corresponding elements
// unchanged.
func rewriteOPF(raw []byte, book metadata.Book) ([]byte, error) {
	doc := string(raw)

	if book.Title != "" {
		if !titlePattern.MatchString(doc) {
			return nil, errors.New("no dc:title element in package document")
		}
		replaced := false
		doc = titlePattern.ReplaceAllStringFunc(doc, func(match string) string {
			if replaced {
				return match
			}
			replaced = true
			sub := titlePattern.FindStringSubmatch(match)
			return sub[1] + escapeXML(book.Title) + sub[3]
		})
	}

	if len(book.Authors) > 0 {
		doc = creatorPattern.ReplaceAllString(doc, "")
		idx := strings.Index(doc, "</dc:title>")
		if idx < 0 {
			return nil, errors.New("no dc:title element in package document")
		}
		insertAt := idx + len("</dc:title>")
		var creators strings.Builder
		for _, author := range book.Authors {
			creators.WriteString("\n    <dc:creator>")
			creators.WriteString(escapeXML(author))
			creators.WriteString("</dc:creator>")
		}
		doc = doc[:insertAt] + creators.String() + doc[insertAt:]
	}

	return []byte(doc), nil
}

// replaceArchiveEntry writes a new archive next to the original with one
// entry's contents replaced, then renames it over the original. Untouched
// entries are raw-copied so their compression (including the stored mimetype
// entry) survives byte for byte.
func replaceArchiveEntry(path string, zr *zip.Reader, name string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".shelfsort-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	zw := zip.NewWriter(tmp)
	for _, entry := range zr.File {
		if entry.Name == name {
			w, err := zw.CreateHeader(&zip.FileHeader{
				Name:     entry.Name,
				Method:   zip.Deflate,
				Modified: entry.Modified,
			})
			if err != nil {
				return closeAll(zw, tmp, err)
			}
			if _, err := w.Write(content); err != nil {
				return closeAll(zw, tmp, err)
			}
			continue
		}
		if err := zw.Copy(entry); err != nil {
			return closeAll(zw, tmp, err)
		}
	}
	if err := zw.Close(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func closeAll(zw *zip.Writer, tmp *os.File, err error) error {
	_ = zw.Close()
	_ = tmp.Close()
	return err
}

func escapeXML(value string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(value))
	return buf.String()
}
