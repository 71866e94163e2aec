// Package epub implements the metadata port for EPUB files.
//
// An EPUB is a zip archive whose OPF package document is located through
// META-INF/container.xml. Reads parse the OPF with encoding/xml; writes patch
// the OPF textually and rebuild the archive, so untouched entries keep their
// exact bytes and compression.
package epub

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"shelfsort/internal/metadata"
)

const containerPath = "META-INF/container.xml"

// Codec reads and writes EPUB metadata.
type Codec struct{}

// New returns an EPUB metadata codec.
func New() *Codec { return &Codec{} }

var _ metadata.Port = (*Codec)(nil)

type container struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type opfPackage struct {
	UniqueIdentifier string      `xml:"unique-identifier,attr"`
	Metadata         opfMetadata `xml:"metadata"`
}

type opfMetadata struct {
	Identifiers []opfIdentifier `xml:"identifier"`
	Titles      []string        `xml:"title"`
	Creators    []string        `xml:"creator"`
}

type opfIdentifier struct {
	ID    string `xml:"id,attr"`
	Value string `xml:",chardata"`
}

// Read extracts identifier, title, and author list from the OPF package
// document. Any structural problem wraps metadata.ErrDecode.
func (c *Codec) Read(path string) (metadata.Book, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return metadata.Book{}, fmt.Errorf("%w: open %s: %v", metadata.ErrDecode, path, err)
	}
	defer zr.Close()

	opfPath, raw, err := readOPF(&zr.Reader)
	if err != nil {
		return metadata.Book{}, fmt.Errorf("%w: %s: %v", metadata.ErrDecode, path, err)
	}

	var pkg opfPackage
	if err := xml.Unmarshal(raw, &pkg); err != nil {
		return metadata.Book{}, fmt.Errorf("%w: parse %s in %s: %v", metadata.ErrDecode, opfPath, path, err)
	}

	book := metadata.Book{
		Identifier: pickIdentifier(pkg),
		Title:      firstNonEmpty(pkg.Metadata.Titles),
	}
	for _, creator := range pkg.Metadata.Creators {
		if trimmed := strings.TrimSpace(creator); trimmed != "" {
			book.Authors = append(book.Authors, trimmed)
		}
	}
	return book, nil
}

// readOPF resolves the rootfile through the container document and returns
// its archive path and raw bytes.
func readOPF(zr *zip.Reader) (string, []byte, error) {
	rawContainer, err := readArchiveFile(zr, containerPath)
	if err != nil {
		return "", nil, err
	}

	var cont container
	if err := xml.Unmarshal(rawContainer, &cont); err != nil {
		return "", nil, fmt.Errorf("parse %s: %v", containerPath, err)
	}
	if len(cont.Rootfiles) == 0 || strings.TrimSpace(cont.Rootfiles[0].FullPath) == "" {
		return "", nil, fmt.Errorf("%s declares no rootfile", containerPath)
	}

	opfPath := cont.Rootfiles[0].FullPath
	raw, err := readArchiveFile(zr, opfPath)
	if err != nil {
		return "", nil, err
	}
	return opfPath, raw, nil
}

func readArchiveFile(zr *zip.Reader, name string) ([]byte, error) {
	f, err := zr.Open(name)
	if err != nil {
		return nil, fmt.Errorf("missing archive entry %s", name)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read archive entry %s: %v", name, err)
	}
	return raw, nil
}

func pickIdentifier(pkg opfPackage) string {
	wanted := strings.TrimSpace(pkg.UniqueIdentifier)
	if wanted != "" {
		for _, id := range pkg.Metadata.Identifiers {
			if id.ID == wanted {
				if value := strings.TrimSpace(id.Value); value != "" {
					return value
				}
			}
		}
	}
	for _, id := range pkg.Metadata.Identifiers {
		if value := strings.TrimSpace(id.Value); value != "" {
			return value
		}
	}
	return ""
}

func firstNonEmpty(values []string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
