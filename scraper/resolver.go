package scraper

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"menucompare/models"
)

// DefaultSearchSelectors are tried in order to find a platform's search box
var DefaultSearchSelectors = []string{
	`input[placeholder*="search" i]`,
	`input[placeholder*="restaurant" i]`,
	`input[type="search"]`,
	`input[aria-label*="search" i]`,
	`input[type="text"]`,
	`input`,
}

// SearchInputLocator finds the search field on a platform's home page
type SearchInputLocator interface {
	Locate(sess Session) (Input, bool)
}

// ResultLinkScorer picks the restaurant link among search results
type ResultLinkScorer interface {
	Pick(query string, anchors []models.Anchor) (models.Anchor, bool)
}

// SelectorInputLocator tries CSS selectors in order
type SelectorInputLocator struct {
	Selectors []string
}

// Locate returns the first input matched by the configured selectors
func (l SelectorInputLocator) Locate(sess Session) (Input, bool) {
	selectors := l.Selectors
	if len(selectors) == 0 {
		selectors = DefaultSearchSelectors
	}
	return sess.FindInput(selectors)
}

// TextMatchScorer prefers the first absolute link whose text contains the query.
//
// Failing that it returns the first absolute link among the first few results
// as a best guess. The chosen anchor text ends up in the target record.
type TextMatchScorer struct {
	MaxAnchors      int // links scanned for a textual match
	FallbackAnchors int // links considered when nothing matches
}

// Pick implements ResultLinkScorer
func (s TextMatchScorer) Pick(query string, anchors []models.Anchor) (models.Anchor, bool) {
	maxAnchors := s.MaxAnchors
	if maxAnchors <= 0 {
		maxAnchors = 20
	}
	fallback := s.FallbackAnchors
	if fallback <= 0 {
		fallback = 5
	}

	for i, a := range anchors {
		if i >= maxAnchors {
			break
		}
		if IsAbsoluteURL(a.Href) && containsFold(a.Text, query) {
			return a, true
		}
	}

	for i, a := range anchors {
		if i >= fallback {
			break
		}
		if IsAbsoluteURL(a.Href) {
			return a, true
		}
	}
	return models.Anchor{}, false
}

// IsAbsoluteURL reports whether href is an http(s) URL with a host
func IsAbsoluteURL(href string) bool {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ResolverOptions configures the cross-platform resolver
type ResolverOptions struct {
	SearchSelectors   []string
	MaxAnchors        int
	FallbackAnchors   int
	NavigationTimeout time.Duration
	SettleTimeout     time.Duration
}

// DefaultResolverOptions returns default resolver options
func DefaultResolverOptions() ResolverOptions {
	return ResolverOptions{
		SearchSelectors:   DefaultSearchSelectors,
		MaxAnchors:        20,
		FallbackAnchors:   5,
		NavigationTimeout: 60 * time.Second,
		SettleTimeout:     10 * time.Second,
	}
}

// Resolver finds a restaurant and an item price on the competing platform
type Resolver struct {
	locator SearchInputLocator
	scorer  ResultLinkScorer
	opts    ResolverOptions
	log     *zap.Logger
}

// NewResolver creates a resolver using the selector locator and text-match scorer
func NewResolver(opts ResolverOptions, log *zap.Logger) *Resolver {
	return NewResolverWith(
		SelectorInputLocator{Selectors: opts.SearchSelectors},
		TextMatchScorer{MaxAnchors: opts.MaxAnchors, FallbackAnchors: opts.FallbackAnchors},
		opts,
		log,
	)
}

// NewResolverWith creates a resolver with custom matching policies
func NewResolverWith(locator SearchInputLocator, scorer ResultLinkScorer, opts ResolverOptions, log *zap.Logger) *Resolver {
	defaults := DefaultResolverOptions()
	if opts.MaxAnchors <= 0 {
		opts.MaxAnchors = defaults.MaxAnchors
	}
	if opts.FallbackAnchors <= 0 {
		opts.FallbackAnchors = defaults.FallbackAnchors
	}
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = defaults.NavigationTimeout
	}
	if opts.SettleTimeout <= 0 {
		opts.SettleTimeout = defaults.SettleTimeout
	}
	if log == nil {
		log = zap.L()
	}
	return &Resolver{locator: locator, scorer: scorer, opts: opts, log: log.Named("resolver")}
}

// ResolveRestaurantLink searches target for query and returns the chosen result link
func (r *Resolver) ResolveRestaurantLink(ctx context.Context, sess Session, query string, target models.PlatformInfo) (models.Anchor, bool) {
	log := r.log.With(zap.String("platform", string(target.Platform)), zap.String("query", query))
	if ctx.Err() != nil {
		return models.Anchor{}, false
	}

	if err := sess.Navigate(target.HomeURL, r.opts.NavigationTimeout); err != nil {
		log.Warn("failed to open platform home page", zap.String("url", target.HomeURL), zap.Error(err))
		return models.Anchor{}, false
	}
	sess.WaitForQuiescence(r.opts.SettleTimeout)

	input, ok := r.locator.Locate(sess)
	if !ok {
		log.Warn("no search input found")
		return models.Anchor{}, false
	}

	if err := input.FillAndSubmit(query); err != nil {
		log.Debug("direct fill failed, typing instead", zap.Error(err))
		if err := input.TypeAndSubmit(query); err != nil {
			log.Warn("failed to submit search", zap.Error(err))
		}
	}
	sess.WaitForQuiescence(r.opts.SettleTimeout)

	anchors, err := sess.Anchors(r.opts.MaxAnchors)
	if err != nil {
		log.Warn("failed to read search results", zap.Error(err))
		return models.Anchor{}, false
	}

	anchor, ok := r.scorer.Pick(query, anchors)
	if !ok {
		log.Info("no restaurant link in search results", zap.Int("anchors", len(anchors)))
		return models.Anchor{}, false
	}

	anchor.Text = strings.TrimSpace(anchor.Text)
	log.Info("resolved restaurant link", zap.String("href", anchor.Href), zap.String("text", anchor.Text))
	return anchor, true
}

// ResolveItemPrice opens restaurantURL and returns the price nearest to itemName
func (r *Resolver) ResolveItemPrice(ctx context.Context, sess Session, restaurantURL, itemName string) *models.Money {
	log := r.log.With(zap.String("url", restaurantURL), zap.String("item", itemName))
	if ctx.Err() != nil {
		return nil
	}

	if err := sess.Navigate(restaurantURL, r.opts.NavigationTimeout); err != nil {
		log.Warn("failed to open restaurant page", zap.Error(err))
		return nil
	}
	sess.WaitForQuiescence(r.opts.SettleTimeout)

	body, err := sess.BodyText()
	if err != nil {
		log.Warn("failed to read restaurant page", zap.Error(err))
		return nil
	}

	price := normalizeToken(NearestPrice(body, itemName))
	if price == nil {
		log.Info("no price found on restaurant page")
		return nil
	}
	log.Info("resolved item price", zap.Int64("price", int64(*price)))
	return price
}
