package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"menucompare/models"
)

// rupeePattern matches "₹" or the word "Rs"/"Rs." followed by comma-grouped digits.
// Only rupee amounts are recognised.
var rupeePattern = regexp.MustCompile(`(?i)(?:₹|\brs\.?)\s*[0-9]+(?:,[0-9]+)*`)

// FindPriceTokens returns every rupee price in text, left to right
func FindPriceTokens(text string) []models.PriceToken {
	if text == "" {
		return nil
	}

	matches := rupeePattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	tokens := make([]models.PriceToken, 0, len(matches))
	runeOffset, byteOffset := 0, 0
	for _, m := range matches {
		runeOffset += utf8.RuneCountInString(text[byteOffset:m[0]])
		byteOffset = m[0]
		tokens = append(tokens, models.PriceToken{
			Raw:    text[m[0]:m[1]],
			Offset: runeOffset,
		})
	}
	return tokens
}

// FirstPriceToken returns the first rupee price in text
func FirstPriceToken(text string) (models.PriceToken, bool) {
	loc := rupeePattern.FindStringIndex(text)
	if loc == nil {
		return models.PriceToken{}, false
	}
	return models.PriceToken{
		Raw:    text[loc[0]:loc[1]],
		Offset: utf8.RuneCountInString(text[:loc[0]]),
	}, true
}

// NormalizePrice keeps only the digits of raw and parses them.
// A string without digits, or one that overflows, yields false rather than zero.
func NormalizePrice(raw string) (models.Money, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	if digits == "" {
		return 0, false
	}

	value, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || value < 0 {
		return 0, false
	}
	return models.Money(value), true
}

// normalizeToken is NormalizePrice for an optional token
func normalizeToken(token models.PriceToken, found bool) *models.Money {
	if !found {
		return nil
	}
	value, ok := NormalizePrice(token.Raw)
	if !ok {
		return nil
	}
	return &value
}
