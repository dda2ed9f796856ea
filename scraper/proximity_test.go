package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNearestPrice_PicksClosestToken(t *testing.T) {
	// Naan starts at offset 50; tokens sit 50, 5 and 2 characters before it.
	text := "₹10" + strings.Repeat(" ", 42) + "₹30₹7Naan with butter"

	token, ok := NearestPrice(text, "Naan")
	require.True(t, ok)
	assert.Equal(t, "₹7", token.Raw)
	assert.Equal(t, 48, token.Offset)
}

func TestNearestPrice_AnchorMissingFallsBackToFirst(t *testing.T) {
	text := "Combo ₹500 ... Dal Makhani ₹220"

	token, ok := NearestPrice(text, "Biryani")
	require.True(t, ok)
	assert.Equal(t, "₹500", token.Raw)
}

func TestNearestPrice_EmptyAnchorFallsBackToFirst(t *testing.T) {
	token, ok := NearestPrice("Rs 40 then ₹60", "")
	require.True(t, ok)
	assert.Equal(t, "Rs 40", token.Raw)
}

func TestNearestPrice_CaseInsensitiveAnchor(t *testing.T) {
	text := "Soup ₹90\nGarlic bread and dips on the side\nMARGHERITA PIZZA ₹349"

	token, ok := NearestPrice(text, "Margherita Pizza")
	require.True(t, ok)
	assert.Equal(t, "₹349", token.Raw)
}

func TestNearestPrice_TieGoesToEarlierToken(t *testing.T) {
	token, ok := NearestPrice("₹10 Dal ₹20", "Dal")
	require.True(t, ok)
	assert.Equal(t, "₹10", token.Raw)
}

func TestNearestPrice_NoTokens(t *testing.T) {
	_, ok := NearestPrice("Margherita Pizza", "Margherita Pizza")
	assert.False(t, ok)
}
