package testsupport

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shelfsort/internal/metadata"
)

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

// WriteBook authors a minimal but structurally real EPUB at path carrying the
// provided metadata record.
func WriteBook(t testing.TB, path string, book metadata.Book) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	// The mimetype entry must come first and be stored uncompressed.
	mimetype, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		t.Fatalf("create mimetype entry: %v", err)
	}
	if _, err := mimetype.Write([]byte("application/epub+zip")); err != nil {
		t.Fatalf("write mimetype entry: %v", err)
	}

	writeEntry(t, zw, "META-INF/container.xml", containerXML)
	writeEntry(t, zw, "OEBPS/content.opf", buildOPF(book))
	writeEntry(t, zw, "OEBPS/chapter1.xhtml", "<html><body><p>content</p></body></html>")

	if err := zw.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteBrokenBook writes a file with the managed extension that is not a
// valid archive, so metadata extraction fails.
func WriteBrokenBook(t testing.TB, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("not a zip archive"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func writeEntry(t testing.TB, zw *zip.Writer, name, content string) {
	t.Helper()

	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("create entry %s: %v", name, err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("write entry %s: %v", name, err)
	}
}

func buildOPF(book metadata.Book) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" unique-identifier="bookid" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:opf="http://www.idpf.org/2007/opf">
`)
	if book.Identifier != "" {
		b.WriteString(`    <dc:identifier id="bookid">` + escape(book.Identifier) + "</dc:identifier>\n")
	}
	if book.Title != "" {
		b.WriteString(`    <dc:title>` + escape(book.Title) + "</dc:title>\n")
	}
	for _, author := range book.Authors {
		b.WriteString(`    <dc:creator opf:role="aut">` + escape(author) + "</dc:creator>\n")
	}
	b.WriteString(`    <dc:language>en</dc:language>
  </metadata>
  <manifest>
    <item id="chapter1" href="chapter1.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="chapter1"/>
  </spine>
</package>`)
	return b.String()
}

func escape(value string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(value))
	return buf.String()
}
