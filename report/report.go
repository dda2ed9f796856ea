// Package report renders a comparison result for the terminal.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"menucompare/models"
)

const (
	priceMissing = "not available"
	linkMissing  = "not found"
)

// Printer writes comparison reports
type Printer struct {
	w         io.Writer
	highlight *color.Color
	muted     *color.Color
}

// NewPrinter creates a printer; with colour disabled the output is plain text
func NewPrinter(w io.Writer, useColor bool) *Printer {
	highlight := color.New(color.FgGreen, color.Bold)
	muted := color.New(color.Faint)
	if useColor {
		highlight.EnableColor()
		muted.EnableColor()
	} else {
		highlight.DisableColor()
		muted.DisableColor()
	}
	return &Printer{w: w, highlight: highlight, muted: muted}
}

// Line formats one record as "<Platform>: ₹<price> | <link>"
func Line(rec models.PlatformRecord) string {
	price := priceMissing
	if rec.Price != nil {
		price = rec.Price.String()
	}
	link := linkMissing
	if rec.HasURL() {
		link = rec.URL
	}
	return fmt.Sprintf("%s: %s | %s", rec.Platform.DisplayName(), price, link)
}

// Verdict summarises which platform is cheaper
func Verdict(res *models.ComparisonResult) string {
	best := res.CheapestRecord()
	if best == nil {
		return "No prices found on either platform"
	}

	source, target := res.Records[0], res.Records[1]
	if !source.HasPrice() || !target.HasPrice() {
		return fmt.Sprintf("Only %s has a price", best.Platform.DisplayName())
	}
	if *source.Price == *target.Price {
		return fmt.Sprintf("Same price on both platforms (%s)", source.Price)
	}

	other := source
	if best.Platform == source.Platform {
		other = target
	}
	return fmt.Sprintf("%s is cheaper by %s", best.Platform.DisplayName(), *other.Price-*best.Price)
}

// Print writes the item header, one line per record and the verdict
func (p *Printer) Print(res *models.ComparisonResult) error {
	source := res.Records[0]
	header := source.ItemName
	if source.RestaurantName != "" {
		header = fmt.Sprintf("%s @ %s", source.ItemName, source.RestaurantName)
	}
	if _, err := fmt.Fprintln(p.w, header); err != nil {
		return err
	}

	best := res.CheapestRecord()
	for i := range res.Records {
		rec := &res.Records[i]
		line := Line(*rec)
		var err error
		switch {
		case rec == best:
			_, err = p.highlight.Fprintln(p.w, line+"  <- cheapest")
		case !rec.HasPrice():
			_, err = p.muted.Fprintln(p.w, line)
		default:
			_, err = fmt.Fprintln(p.w, line)
		}
		if err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(p.w, Verdict(res))
	return err
}
