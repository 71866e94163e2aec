package textutil_test

import (
	"testing"

	"shelfsort/internal/textutil"
)

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"My, Book", "My__Book"},
		{"Plain", "Plain"},
		{"a b\tc", "a_b_c"},
		{",,", "__"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := textutil.SanitizeName(tc.input); got != tc.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestJoinAuthors(t *testing.T) {
	got := textutil.JoinAuthors([]string{"Le Guin, Ursula", "Wolfe, Gene"})
	want := "Le_Guin__Ursula-Wolfe__Gene"
	if got != want {
		t.Fatalf("JoinAuthors = %q, want %q", got, want)
	}
	if got := textutil.JoinAuthors(nil); got != "" {
		t.Fatalf("JoinAuthors(nil) = %q, want empty", got)
	}
}

func TestAuthorDisplay(t *testing.T) {
	if got := textutil.AuthorDisplay([]string{"A", "B"}); got != "A, B" {
		t.Fatalf("AuthorDisplay = %q", got)
	}
	if got := textutil.AuthorDisplay(nil); got != "" {
		t.Fatalf("AuthorDisplay(nil) = %q, want empty", got)
	}
}

func TestTitleFromFilename(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"/books/the_left-hand.of.darkness.epub", "The Left Hand Of Darkness"},
		{"dune.epub", "Dune"},
		{"___.epub", "Untitled"},
	}
	for _, tc := range cases {
		if got := textutil.TitleFromFilename(tc.input); got != tc.want {
			t.Errorf("TitleFromFilename(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
