package models

import (
	"fmt"
	"strings"
	"time"
)

// Money is a normalized price in whole rupees
type Money int64

// String renders the amount with the rupee sign, e.g. ₹349
func (m Money) String() string {
	return fmt.Sprintf("₹%d", int64(m))
}

// MoneyPtr returns a pointer to m, handy when building records in tests and fixtures
func MoneyPtr(m Money) *Money {
	return &m
}

// PriceToken is a currency-marked numeric substring found in rendered text
type PriceToken struct {
	Raw    string `json:"raw"`
	Offset int    `json:"offset"` // character (rune) offset in the scanned text
}

// Anchor is one link read from a rendered page
type Anchor struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// PlatformRecord is the extraction result for one platform within a comparison.
// An empty URL or a nil Price means the value could not be found.
type PlatformRecord struct {
	Platform       Platform `json:"platform"`
	URL            string   `json:"url,omitempty"`
	ItemName       string   `json:"item_name"`
	RestaurantName string   `json:"restaurant_name"`
	Price          *Money   `json:"price"`
}

// HasPrice returns true if a price was extracted for this record
func (r PlatformRecord) HasPrice() bool {
	return r.Price != nil
}

// HasURL returns true if the record carries a link
func (r PlatformRecord) HasURL() bool {
	return strings.TrimSpace(r.URL) != ""
}

// ComparisonResult is the two-platform outcome of one comparison.
// Records[0] is always the source platform, Records[1] the competing one.
type ComparisonResult struct {
	ID        string            `json:"id"`
	Records   [2]PlatformRecord `json:"records"`
	Cheapest  *Platform         `json:"cheapest"`
	StartedAt time.Time         `json:"started_at"`
	Duration  time.Duration     `json:"duration_ns"`
}

// NewComparisonResult builds a result and selects the cheapest record
func NewComparisonResult(id string, source, target PlatformRecord) *ComparisonResult {
	res := &ComparisonResult{
		ID:      id,
		Records: [2]PlatformRecord{source, target},
	}
	if idx := SelectCheapest(res.Records[:]); idx >= 0 {
		p := res.Records[idx].Platform
		res.Cheapest = &p
	}
	return res
}

// CheapestRecord returns the record selected as cheapest, or nil when no record has a price
func (c *ComparisonResult) CheapestRecord() *PlatformRecord {
	if c == nil || c.Cheapest == nil {
		return nil
	}
	for i := range c.Records {
		if c.Records[i].Platform == *c.Cheapest {
			return &c.Records[i]
		}
	}
	return nil
}

// SelectCheapest returns the index of the record with the lowest defined price.
// Equal prices resolve to the lowest index; -1 means no record has a price.
func SelectCheapest(records []PlatformRecord) int {
	best := -1
	for i, rec := range records {
		if rec.Price == nil {
			continue
		}
		if best < 0 || *rec.Price < *records[best].Price {
			best = i
		}
	}
	return best
}

// CompareRequest is the body of POST /api/v1/compare
type CompareRequest struct {
	URL string `json:"url"`
}

// ErrorResponse is returned for rejected or failed comparisons
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}
