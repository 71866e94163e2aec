// Package textutil provides the text normalization helpers shared by the
// organizer and report stages: filesystem-safe name sanitization, author list
// joining, and display-title derivation from filenames.
package textutil

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SanitizeName converts a title or author string into its filesystem-safe
// form: every comma and whitespace rune becomes a single underscore. No run
// collapsing is applied, so "My, Book" yields "My__Book".
func SanitizeName(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r == ',' || unicode.IsSpace(r) {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// JoinAuthors builds the sanitized author folder name: authors joined with a
// hyphen, then sanitized. Empty input yields the empty string; callers decide
// the fallback folder.
func JoinAuthors(authors []string) string {
	if len(authors) == 0 {
		return ""
	}
	return SanitizeName(strings.Join(authors, "-"))
}

// AuthorDisplay renders an author list for human-facing output and the report
// author column.
func AuthorDisplay(authors []string) string {
	return strings.Join(authors, ", ")
}

var titleCaser = cases.Title(language.Und)

// TitleFromFilename derives a presentable title from a file path when the
// embedded metadata carries none. Separator punctuation collapses to single
// spaces and the result is title-cased.
func TitleFromFilename(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	var cleaned strings.Builder
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Untitled"
	}
	return titleCaser.String(title)
}
