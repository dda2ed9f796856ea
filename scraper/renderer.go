package scraper

import (
	"context"
	"time"

	"menucompare/models"
)

// Renderer opens rendering sessions. Each comparison owns exactly one session.
type Renderer interface {
	NewSession(ctx context.Context) (Session, error)
}

// Session is one browser context with a single page. Navigations within a
// session are sequential.
type Session interface {
	// Navigate loads url and fails on unreachable or invalid addresses.
	// Running out of time is not a failure: the page keeps whatever has loaded.
	Navigate(url string, timeout time.Duration) error
	// WaitForQuiescence waits for the page to settle. A timeout is not an error.
	WaitForQuiescence(timeout time.Duration)
	Title() (string, error)
	BodyText() (string, error)
	// Anchors returns up to limit links in document order.
	Anchors(limit int) ([]models.Anchor, error)
	// FindInput returns the first element matching one of selectors, in order.
	FindInput(selectors []string) (Input, bool)
	Close() error
}

// Input is a text field on the current page
type Input interface {
	// FillAndSubmit sets the value in one step and presses Enter.
	FillAndSubmit(text string) error
	// TypeAndSubmit clicks the field, types text one character at a time and presses Enter.
	TypeAndSubmit(text string) error
}
