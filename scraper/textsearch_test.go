package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuneIndexFold(t *testing.T) {
	assert.Equal(t, 5, runeIndexFold("₹120 pizza palace", "Pizza"))
	assert.Equal(t, -1, runeIndexFold("pizza", "burger"))
	assert.Equal(t, -1, runeIndexFold("pizza", "   "))
	assert.Equal(t, -1, runeIndexFold("", "pizza"))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, containsFold("Pizza Palace, Indiranagar", "pizza palace"))
	assert.False(t, containsFold("Burger Barn", "pizza palace"))
}
