// Package metadata defines the boundary to e-book metadata codecs. The
// pipeline only ever sees the Port interface and the Book record; the
// format-specific decoding lives in subpackages.
package metadata

import "errors"

var (
	// ErrDecode marks metadata extraction failures. The classifier recovers
	// from these by routing the file to the failed folder.
	ErrDecode = errors.New("metadata decode error")
	// ErrEncode marks metadata write-back failures. Callers reject the
	// pending edit and keep the prior record.
	ErrEncode = errors.New("metadata encode error")
)

// Book is the descriptive record embedded in an e-book file.
type Book struct {
	// Identifier is the unique work identifier (ISBN, UUID, ...) used as the
	// deduplication key.
	Identifier string
	Title      string
	Authors    []string
}

// Port reads and writes a file's embedded metadata.
type Port interface {
	// Read extracts the metadata record. Failures wrap ErrDecode.
	Read(path string) (Book, error)
	// Write replaces title and author metadata in place. Failures wrap
	// ErrEncode and leave the file untouched.
	Write(path string, book Book) error
}
