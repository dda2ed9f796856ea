package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menucompare/models"
)

func TestLine(t *testing.T) {
	assert.Equal(t, "Zomato: ₹349 | https://www.zomato.com/p", Line(models.PlatformRecord{
		Platform: models.PlatformZomato,
		URL:      "https://www.zomato.com/p",
		Price:    models.MoneyPtr(349),
	}))
	assert.Equal(t, "Swiggy: not available | not found", Line(models.PlatformRecord{Platform: models.PlatformSwiggy}))
}

func TestVerdict(t *testing.T) {
	zomato := models.PlatformRecord{Platform: models.PlatformZomato}
	swiggy := models.PlatformRecord{Platform: models.PlatformSwiggy}
	priced := func(rec models.PlatformRecord, m models.Money) models.PlatformRecord {
		rec.Price = models.MoneyPtr(m)
		return rec
	}

	tests := []struct {
		name   string
		source models.PlatformRecord
		target models.PlatformRecord
		want   string
	}{
		{"target cheaper", priced(zomato, 349), priced(swiggy, 299), "Swiggy is cheaper by ₹50"},
		{"source cheaper", priced(zomato, 199), priced(swiggy, 249), "Zomato is cheaper by ₹50"},
		{"same", priced(zomato, 250), priced(swiggy, 250), "Same price on both platforms (₹250)"},
		{"one side", priced(zomato, 349), swiggy, "Only Zomato has a price"},
		{"none", zomato, swiggy, "No prices found on either platform"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := models.NewComparisonResult("id", tt.source, tt.target)
			assert.Equal(t, tt.want, Verdict(res))
		})
	}
}

func TestPrinter_PlainOutput(t *testing.T) {
	res := models.NewComparisonResult("id",
		models.PlatformRecord{
			Platform:       models.PlatformZomato,
			URL:            "https://www.zomato.com/p",
			ItemName:       "Margherita Pizza",
			RestaurantName: "Pizza Palace",
			Price:          models.MoneyPtr(349),
		},
		models.PlatformRecord{
			Platform: models.PlatformSwiggy,
			URL:      "https://www.swiggy.com/r",
			Price:    models.MoneyPtr(299),
		},
	)

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, false).Print(res))

	want := "Margherita Pizza @ Pizza Palace\n" +
		"Zomato: ₹349 | https://www.zomato.com/p\n" +
		"Swiggy: ₹299 | https://www.swiggy.com/r  <- cheapest\n" +
		"Swiggy is cheaper by ₹50\n"
	assert.Equal(t, want, buf.String())
}

func TestPrinter_ColorHighlightsCheapest(t *testing.T) {
	res := models.NewComparisonResult("id",
		models.PlatformRecord{Platform: models.PlatformZomato, ItemName: "Dosa", Price: models.MoneyPtr(90)},
		models.PlatformRecord{Platform: models.PlatformSwiggy},
	)

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, true).Print(res))

	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "Zomato: ₹90 | not found  <- cheapest")
	assert.Contains(t, buf.String(), "Swiggy: not available | not found")
}
