package scraper

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/search"
)

// indexFold returns the byte index of the first case-insensitive occurrence of pattern in text, or -1.
func indexFold(text, pattern string) int {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" || text == "" {
		return -1
	}
	m := search.New(language.Und, search.IgnoreCase)
	start, _ := m.IndexString(text, pattern)
	return start
}

// runeIndexFold is indexFold expressed as a character offset
func runeIndexFold(text, pattern string) int {
	idx := indexFold(text, pattern)
	if idx < 0 {
		return -1
	}
	return utf8.RuneCountInString(text[:idx])
}

// containsFold reports whether pattern occurs in text ignoring case
func containsFold(text, pattern string) bool {
	return indexFold(text, pattern) >= 0
}
