package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"menucompare/metrics"
	"menucompare/models"
	"menucompare/scraper"
)

// ErrRendererUnavailable is returned when no rendering session can be opened
var ErrRendererUnavailable = eris.New("renderer unavailable")

// Options configures page loading for the source page
type Options struct {
	NavigationTimeout time.Duration
	SettleTimeout     time.Duration
}

// DefaultOptions returns default comparison options
func DefaultOptions() Options {
	return Options{
		NavigationTimeout: 60 * time.Second,
		SettleTimeout:     10 * time.Second,
	}
}

// ComparisonService compares one dish across the two platforms
type ComparisonService struct {
	renderer  scraper.Renderer
	resolver  *scraper.Resolver
	platforms *models.PlatformRegistry
	detector  *scraper.BotDetector
	metrics   *metrics.Registry
	opts      Options
	log       *zap.Logger
	now       func() time.Time
}

// NewComparisonService creates a new comparison service
func NewComparisonService(
	renderer scraper.Renderer,
	resolver *scraper.Resolver,
	platforms *models.PlatformRegistry,
	m *metrics.Registry,
	opts Options,
	log *zap.Logger,
) *ComparisonService {
	defaults := DefaultOptions()
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = defaults.NavigationTimeout
	}
	if opts.SettleTimeout <= 0 {
		opts.SettleTimeout = defaults.SettleTimeout
	}
	if log == nil {
		log = zap.L()
	}
	if platforms == nil {
		platforms = models.NewPlatformRegistry(nil)
	}
	if resolver == nil {
		resolver = scraper.NewResolver(scraper.DefaultResolverOptions(), log)
	}
	return &ComparisonService{
		renderer:  renderer,
		resolver:  resolver,
		platforms: platforms,
		detector:  scraper.NewBotDetector(),
		metrics:   m,
		opts:      opts,
		log:       log.Named("comparison"),
		now:       time.Now,
	}
}

// Compare extracts the dish behind inputURL and looks it up on the other platform.
// Input that is not a supported web page fails with *InputRejectedError before
// any page is rendered.
func (s *ComparisonService) Compare(ctx context.Context, inputURL string) (*models.ComparisonResult, error) {
	started := s.now()
	id := uuid.NewString()
	log := s.log.With(zap.String("comparison_id", id))

	class, err := ClassifyURL(s.platforms, inputURL)
	if err != nil {
		log.Info("input rejected", zap.String("url", inputURL), zap.Error(err))
		s.metrics.ObserveComparison(metrics.OutcomeRejected, 0)
		return nil, err
	}
	log = log.With(
		zap.String("source", string(class.Source.Platform)),
		zap.String("target", string(class.Target.Platform)),
	)

	done := s.metrics.TrackInFlight()
	defer done()

	sess, err := s.renderer.NewSession(ctx)
	if err != nil {
		log.Error("failed to open rendering session", zap.Error(err))
		s.metrics.ObserveComparison(metrics.OutcomeFailed, 0)
		return nil, eris.Wrapf(errors.Join(ErrRendererUnavailable, err), "open session for %s", class.URL)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			log.Warn("failed to close rendering session", zap.Error(cerr))
		}
	}()

	source := s.extractSource(log, sess, class)
	target := s.resolveTarget(ctx, log, sess, source, class.Target)

	res := models.NewComparisonResult(id, source, target)
	res.StartedAt = started
	res.Duration = s.now().Sub(started)

	for _, rec := range res.Records {
		s.metrics.ObservePrice(string(rec.Platform), rec.HasPrice())
	}
	if res.Cheapest != nil {
		s.metrics.ObserveCheapest(string(*res.Cheapest))
	}
	s.metrics.ObserveComparison(metrics.OutcomeCompleted, res.Duration)

	log.Info("comparison finished",
		zap.Bool("source_price", source.HasPrice()),
		zap.Bool("target_price", target.HasPrice()),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}

func (s *ComparisonService) extractSource(log *zap.Logger, sess scraper.Session, class Classification) models.PlatformRecord {
	var title, body string
	if err := sess.Navigate(class.URL, s.opts.NavigationTimeout); err != nil {
		log.Warn("failed to open source page", zap.String("url", class.URL), zap.Error(err))
	} else {
		sess.WaitForQuiescence(s.opts.SettleTimeout)
		if title, err = sess.Title(); err != nil {
			log.Warn("failed to read source title", zap.Error(err))
			title = ""
		}
		if body, err = sess.BodyText(); err != nil {
			log.Warn("failed to read source body", zap.Error(err))
			body = ""
		}
	}

	if blockType, pattern := s.detector.Detect(body, title); blockType != scraper.BlockNone {
		log.Warn("source page looks blocked",
			zap.String("block_type", string(blockType)),
			zap.String("pattern", pattern),
		)
		s.metrics.ObserveBlockedPage(string(class.Source.Platform), string(blockType))
	}

	rec := scraper.ExtractRecord(title, body, class.Source.Platform, class.URL)
	log.Info("extracted source record",
		zap.String("item", rec.ItemName),
		zap.String("restaurant", rec.RestaurantName),
		zap.Bool("has_price", rec.HasPrice()),
	)
	return rec
}

func (s *ComparisonService) resolveTarget(
	ctx context.Context,
	log *zap.Logger,
	sess scraper.Session,
	source models.PlatformRecord,
	target models.PlatformInfo,
) models.PlatformRecord {
	rec := models.PlatformRecord{Platform: target.Platform, ItemName: source.ItemName}

	query := source.RestaurantName
	if query == "" {
		query = source.ItemName
	}
	if query == "" {
		log.Info("nothing to search for on target platform")
		return rec
	}

	anchor, ok := s.resolver.ResolveRestaurantLink(ctx, sess, query, target)
	if !ok {
		return rec
	}
	rec.URL = anchor.Href
	rec.RestaurantName = anchor.Text
	rec.Price = s.resolver.ResolveItemPrice(ctx, sess, anchor.Href, source.ItemName)
	return rec
}
