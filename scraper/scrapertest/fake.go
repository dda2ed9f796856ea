// Package scrapertest provides an in-memory Renderer for tests.
package scrapertest

import (
	"context"
	"errors"
	"sync"
	"time"

	"menucompare/models"
	"menucompare/scraper"
)

// ErrNotFound is returned by Navigate for URLs without a page
var ErrNotFound = errors.New("scrapertest: no such page")

// Page is the rendered state served for one URL
type Page struct {
	Title   string
	Body    string
	Anchors []models.Anchor
	// HasSearch makes FindInput succeed on this page.
	HasSearch bool
	// Results maps a submitted query to the anchors of the result page.
	Results map[string][]models.Anchor
	// FillFails makes FillAndSubmit fail so TypeAndSubmit is used.
	FillFails bool
}

// Renderer serves canned pages keyed by URL and records what happened
type Renderer struct {
	Pages      map[string]Page
	SessionErr error

	mu       sync.Mutex
	sessions []*Session
}

// NewRenderer creates a renderer serving pages
func NewRenderer(pages map[string]Page) *Renderer {
	return &Renderer{Pages: pages}
}

// NewSession implements scraper.Renderer
func (r *Renderer) NewSession(_ context.Context) (scraper.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SessionErr != nil {
		return nil, r.SessionErr
	}
	s := &Session{renderer: r}
	r.sessions = append(r.sessions, s)
	return s, nil
}

// Sessions returns every session opened so far
func (r *Renderer) Sessions() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Session, len(r.sessions))
	copy(out, r.sessions)
	return out
}

// Session is a fake single-page browser context
type Session struct {
	renderer *Renderer

	mu        sync.Mutex
	current   Page
	loaded    bool
	closed    bool
	visited   []string
	typed     []string
	submitted []string
}

func (s *Session) Navigate(url string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visited = append(s.visited, url)
	page, ok := s.renderer.Pages[url]
	if !ok {
		s.current, s.loaded = Page{}, false
		return ErrNotFound
	}
	s.current, s.loaded = page, true
	return nil
}

func (s *Session) WaitForQuiescence(time.Duration) {}

func (s *Session) Title() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Title, nil
}

func (s *Session) BodyText() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Body, nil
}

func (s *Session) Anchors(limit int) ([]models.Anchor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	anchors := s.current.Anchors
	if limit >= 0 && len(anchors) > limit {
		anchors = anchors[:limit]
	}
	return append([]models.Anchor(nil), anchors...), nil
}

func (s *Session) FindInput(_ []string) (scraper.Input, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded || !s.current.HasSearch {
		return nil, false
	}
	return &input{session: s, fillFails: s.current.FillFails}, true
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close was called
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Visited returns the navigated URLs in order
func (s *Session) Visited() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.visited...)
}

// Submitted returns the search queries submitted in one step
func (s *Session) Submitted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.submitted...)
}

// Typed returns the search queries typed character by character
func (s *Session) Typed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.typed...)
}

func (s *Session) showResults(query string) {
	s.current.Anchors = s.current.Results[query]
	s.current.HasSearch = false
}

type input struct {
	session   *Session
	fillFails bool
}

var errFillRejected = errors.New("scrapertest: input rejected value")

func (i *input) FillAndSubmit(text string) error {
	if i.fillFails {
		return errFillRejected
	}
	i.session.mu.Lock()
	defer i.session.mu.Unlock()
	i.session.submitted = append(i.session.submitted, text)
	i.session.showResults(text)
	return nil
}

func (i *input) TypeAndSubmit(text string) error {
	i.session.mu.Lock()
	defer i.session.mu.Unlock()
	i.session.typed = append(i.session.typed, text)
	i.session.showResults(text)
	return nil
}
