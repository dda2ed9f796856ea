package scraper

import (
	"menucompare/models"
)

// ExtractRecord turns one rendered page into a platform record.
//
// The price is taken, in order of preference, from the title itself, from the
// body price nearest to the raw title, or from the first price in the body.
func ExtractRecord(title, body string, platform models.Platform, pageURL string) models.PlatformRecord {
	item, restaurant := DecomposeTitle(title)

	token, found := FirstPriceToken(title)
	if !found {
		token, found = NearestPrice(body, title)
	}
	if !found {
		token, found = FirstPriceToken(body)
	}

	return models.PlatformRecord{
		Platform:       platform,
		URL:            pageURL,
		ItemName:       item,
		RestaurantName: restaurant,
		Price:          normalizeToken(token, found),
	}
}
