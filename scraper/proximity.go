package scraper

import (
	"menucompare/models"
)

// NearestPrice returns the price token closest to the first case-insensitive
// occurrence of anchor in text.
//
// This is best effort: textual adjacency stands in for visual adjacency on the
// rendered page, which it often is not. When anchor is empty or missing the
// first price on the page wins. Equal distances resolve to the earlier token.
func NearestPrice(text, anchor string) (models.PriceToken, bool) {
	tokens := FindPriceTokens(text)
	if len(tokens) == 0 {
		return models.PriceToken{}, false
	}

	anchorOffset := runeIndexFold(text, anchor)
	if anchorOffset < 0 {
		return tokens[0], true
	}

	best := tokens[0]
	bestDistance := distance(best.Offset, anchorOffset)
	for _, token := range tokens[1:] {
		if d := distance(token.Offset, anchorOffset); d < bestDistance {
			best, bestDistance = token, d
		}
	}
	return best, true
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
