package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Comparison outcomes
const (
	OutcomeCompleted = "completed"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// Registry holds the service metrics on a private prometheus registry.
// A nil *Registry is valid and records nothing.
type Registry struct {
	reg             *prometheus.Registry
	Comparisons     *prometheus.CounterVec
	PricesResolved  *prometheus.CounterVec
	PricesMissing   *prometheus.CounterVec
	Cheapest        *prometheus.CounterVec
	BlockedPages    *prometheus.CounterVec
	DurationSec     prometheus.Histogram
	InFlight        prometheus.Gauge
	BrowserRestarts prometheus.Counter
}

// NewRegistry creates and registers all service metrics
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	comparisons := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "menucompare_comparisons_total"}, []string{"outcome"})
	resolved := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "menucompare_prices_resolved_total"}, []string{"platform"})
	missing := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "menucompare_prices_missing_total"}, []string{"platform"})
	cheapest := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "menucompare_cheapest_total"}, []string{"platform"})
	blocked := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "menucompare_blocked_pages_total"}, []string{"platform", "type"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "menucompare_comparison_duration_seconds",
		Buckets: []float64{1, 2.5, 5, 10, 20, 40, 60, 120, 240},
	})
	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{Name: "menucompare_comparisons_in_flight"})
	restarts := prometheus.NewCounter(prometheus.CounterOpts{Name: "menucompare_browser_restarts_total"})

	r.MustRegister(comparisons, resolved, missing, cheapest, blocked, duration, inFlight, restarts)
	return &Registry{
		reg:             r,
		Comparisons:     comparisons,
		PricesResolved:  resolved,
		PricesMissing:   missing,
		Cheapest:        cheapest,
		BlockedPages:    blocked,
		DurationSec:     duration,
		InFlight:        inFlight,
		BrowserRestarts: restarts,
	}
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// Gatherer exposes the underlying registry for tests
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// ObserveComparison counts a finished comparison; durations are recorded for completed ones only
func (r *Registry) ObserveComparison(outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.Comparisons.WithLabelValues(outcome).Inc()
	if outcome == OutcomeCompleted {
		r.DurationSec.Observe(d.Seconds())
	}
}

// ObservePrice counts a price found or missing for platform
func (r *Registry) ObservePrice(platform string, found bool) {
	if r == nil {
		return
	}
	if found {
		r.PricesResolved.WithLabelValues(platform).Inc()
		return
	}
	r.PricesMissing.WithLabelValues(platform).Inc()
}

// ObserveCheapest counts platform being selected as cheapest
func (r *Registry) ObserveCheapest(platform string) {
	if r == nil {
		return
	}
	r.Cheapest.WithLabelValues(platform).Inc()
}

// ObserveBlockedPage counts a page that looked like a bot wall
func (r *Registry) ObserveBlockedPage(platform, blockType string) {
	if r == nil {
		return
	}
	r.BlockedPages.WithLabelValues(platform, blockType).Inc()
}

// ObserveBrowserRestart counts a browser relaunch
func (r *Registry) ObserveBrowserRestart() {
	if r == nil {
		return
	}
	r.BrowserRestarts.Inc()
}

// TrackInFlight increments the in-flight gauge and returns its decrement
func (r *Registry) TrackInFlight() func() {
	if r == nil {
		return func() {}
	}
	r.InFlight.Inc()
	return r.InFlight.Dec
}
