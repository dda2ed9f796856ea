package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rotisserie/eris"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"menucompare/config"
	"menucompare/handlers"
	"menucompare/metrics"
	"menucompare/middleware"
	"menucompare/scheduler"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the comparison HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := interruptContext(cmd.Context())
		defer stop()

		log := zap.L()
		a := newApp(cfg, log)
		defer a.Close()

		keeper := scheduler.NewBrowserKeeper(a.renderer, cfg.Browser.HealthSchedule, a.metrics, log)
		if err := keeper.Start(); err != nil {
			return err
		}
		defer keeper.Stop()

		h := handlers.NewHandlers(a.service, handlers.Options{
			MaxConcurrent:  cfg.Server.MaxConcurrent,
			MaxRequestSize: cfg.Server.MaxRequestSize,
			RequestTimeout: cfg.Server.RequestTimeout,
		}, log)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, port),
			Handler:           newRouter(h, a.metrics, cfg.Server, log),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		log.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newRouter builds the HTTP routes with logging, rate limiting and CORS
func newRouter(h *handlers.Handlers, m *metrics.Registry, sc config.ServerConfig, log *zap.Logger) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(log))

	// Health and monitoring endpoints
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	if sc.RateLimitEnabled && sc.RateLimitPerSecond > 0 {
		apiV1.Use(middleware.RateLimit(sc.RateLimitPerSecond))
	}
	apiV1.HandleFunc("/compare", h.Compare).Methods(http.MethodPost, http.MethodOptions)

	if !sc.CORSEnabled {
		return r
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   sc.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
