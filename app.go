package main

import (
	"go.uber.org/zap"

	"menucompare/config"
	"menucompare/metrics"
	"menucompare/scraper"
	"menucompare/services"
)

// app wires the renderer and the comparison service from configuration
type app struct {
	renderer *scraper.RodRenderer
	service  *services.ComparisonService
	metrics  *metrics.Registry
}

func newApp(cfg *config.Config, log *zap.Logger) *app {
	m := metrics.NewRegistry()
	renderer := scraper.NewRodRenderer(cfg.RodOptions(), log)
	resolver := scraper.NewResolver(cfg.ResolverOptions(), log)
	service := services.NewComparisonService(
		renderer,
		resolver,
		cfg.PlatformRegistry(),
		m,
		services.Options{
			NavigationTimeout: cfg.Browser.NavigationTimeout,
			SettleTimeout:     cfg.Browser.SettleTimeout,
		},
		log,
	)
	return &app{renderer: renderer, service: service, metrics: m}
}

func (a *app) Close() {
	if err := a.renderer.Close(); err != nil {
		zap.L().Warn("failed to close browser", zap.Error(err))
	}
}
