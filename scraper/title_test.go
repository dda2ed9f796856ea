package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecomposeTitle(t *testing.T) {
	tests := []struct {
		title      string
		item       string
		restaurant string
	}{
		{"Veg Biryani - Tasty Bites - Zomato", "Veg Biryani", "Tasty Bites"},
		{"JustOneWord", "JustOneWord", ""},
		{"Paneer Tikka | Spice Hub | Swiggy", "Paneer Tikka", "Spice Hub"},
		{"Masala Dosa – Udupi Café", "Masala Dosa", "Udupi Café"},
		{"Order: Burger King", "Order", "Burger King"},
		{"  - Lone Item -  ", "Lone Item", ""},
		{"", "", ""},
		{" - | - ", " - | - ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			item, restaurant := DecomposeTitle(tt.title)
			assert.Equal(t, tt.item, item)
			assert.Equal(t, tt.restaurant, restaurant)
		})
	}
}
