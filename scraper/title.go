package scraper

import (
	"strings"
)

// DecomposeTitle splits a page title such as "Item - Restaurant - Platform"
// into its item and restaurant parts. Titles that do not follow the
// convention degrade to (title, "").
func DecomposeTitle(title string) (item, restaurant string) {
	parts := strings.FieldsFunc(title, isTitleDelimiter)

	pieces := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			pieces = append(pieces, part)
		}
	}

	switch len(pieces) {
	case 0:
		return title, ""
	case 1:
		return pieces[0], ""
	default:
		return pieces[0], pieces[1]
	}
}

func isTitleDelimiter(r rune) bool {
	switch r {
	case '-', '|', '–', '—', ':':
		return true
	}
	return false
}
