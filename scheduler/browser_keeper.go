package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"menucompare/metrics"
)

// Pinger is a browser that can check and restore its own liveness
type Pinger interface {
	EnsureAlive(ctx context.Context) (relaunched bool, err error)
}

// BrowserKeeper periodically makes sure the shared browser still answers
type BrowserKeeper struct {
	cron     *cron.Cron
	pinger   Pinger
	schedule string
	timeout  time.Duration
	metrics  *metrics.Registry
	log      *zap.Logger
}

func NewBrowserKeeper(pinger Pinger, schedule string, m *metrics.Registry, log *zap.Logger) *BrowserKeeper {
	if log == nil {
		log = zap.L()
	}
	return &BrowserKeeper{
		cron:     cron.New(),
		pinger:   pinger,
		schedule: schedule,
		timeout:  30 * time.Second,
		metrics:  m,
		log:      log.Named("browser_keeper"),
	}
}

// Start schedules the liveness check
func (k *BrowserKeeper) Start() error {
	if _, err := k.cron.AddFunc(k.schedule, k.Check); err != nil {
		return eris.Wrapf(err, "scheduler: invalid browser health schedule %q", k.schedule)
	}

	k.cron.Start()
	k.log.Info("browser health check scheduled", zap.String("schedule", k.schedule))
	return nil
}

// Stop stops the scheduler and waits for a running check to finish
func (k *BrowserKeeper) Stop() {
	if k.cron != nil {
		<-k.cron.Stop().Done()
	}
}

// Check pings the browser once, relaunching it if needed
func (k *BrowserKeeper) Check() {
	ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
	defer cancel()

	relaunched, err := k.pinger.EnsureAlive(ctx)
	if err != nil {
		k.log.Error("browser health check failed", zap.Error(err))
		return
	}
	if relaunched {
		k.metrics.ObserveBrowserRestart()
		k.log.Warn("browser was unresponsive and has been relaunched")
		return
	}
	k.log.Debug("browser healthy")
}
