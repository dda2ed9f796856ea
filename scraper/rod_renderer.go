package scraper

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"menucompare/models"
)

// DesktopUserAgent is sent instead of the headless default
const DesktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const systemChromium = "/usr/bin/chromium-browser"

// RodOptions configures the headless browser
type RodOptions struct {
	Bin                  string
	Headless             bool
	UserAgent            string
	ReadTimeout          time.Duration
	InputTimeout         time.Duration
	NavigationsPerSecond float64
}

// DefaultRodOptions returns default browser options
func DefaultRodOptions() RodOptions {
	return RodOptions{
		Headless:             true,
		UserAgent:            DesktopUserAgent,
		ReadTimeout:          15 * time.Second,
		InputTimeout:         5 * time.Second,
		NavigationsPerSecond: 2,
	}
}

// RodRenderer drives a single Chromium process and hands out one incognito
// context per session. The browser is launched lazily.
type RodRenderer struct {
	opts    RodOptions
	limiter *rate.Limiter
	log     *zap.Logger

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// NewRodRenderer creates a renderer; Chromium starts on the first session
func NewRodRenderer(opts RodOptions, log *zap.Logger) *RodRenderer {
	defaults := DefaultRodOptions()
	if opts.UserAgent == "" {
		opts.UserAgent = defaults.UserAgent
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = defaults.ReadTimeout
	}
	if opts.InputTimeout <= 0 {
		opts.InputTimeout = defaults.InputTimeout
	}
	limit := rate.Inf
	if opts.NavigationsPerSecond > 0 {
		limit = rate.Limit(opts.NavigationsPerSecond)
	}
	if log == nil {
		log = zap.L()
	}
	return &RodRenderer{
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
		log:     log.Named("renderer"),
	}
}

// NewSession opens an incognito context with one page bound to ctx
func (r *RodRenderer) NewSession(ctx context.Context) (Session, error) {
	browser, err := r.connected()
	if err != nil {
		return nil, err
	}

	incognito, err := browser.Incognito()
	if err != nil {
		return nil, eris.Wrap(err, "renderer: open incognito context")
	}

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = incognito.Close()
		return nil, eris.Wrap(err, "renderer: open page")
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: r.opts.UserAgent}); err != nil {
		r.log.Warn("failed to override user agent", zap.Error(err))
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{Width: 1920, Height: 1080, DeviceScaleFactor: 1}); err != nil {
		r.log.Warn("failed to set viewport", zap.Error(err))
	}

	return &rodSession{
		ctx:       ctx,
		raw:       page,
		page:      page.Context(ctx),
		incognito: incognito,
		limiter:   r.limiter,
		opts:      r.opts,
		log:       r.log,
	}, nil
}

// EnsureAlive pings the browser and relaunches it when it no longer answers.
// It reports whether a relaunch happened.
func (r *RodRenderer) EnsureAlive(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return false, nil
	}

	_, err := proto.BrowserGetVersion{}.Call(r.browser.Context(ctx))
	if err == nil {
		return false, nil
	}
	r.log.Warn("browser stopped responding, relaunching", zap.Error(err))

	_ = r.shutdownLocked()
	if _, err := r.launchLocked(); err != nil {
		return false, err
	}
	return true, nil
}

// Close shuts down the browser process
func (r *RodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shutdownLocked()
}

func (r *RodRenderer) connected() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browser != nil {
		return r.browser, nil
	}
	return r.launchLocked()
}

func (r *RodRenderer) launchLocked() (*rod.Browser, error) {
	l := launcher.New().
		Headless(r.opts.Headless).
		NoSandbox(true).
		Leakless(false)

	switch {
	case r.opts.Bin != "":
		l = l.Bin(r.opts.Bin)
	default:
		if _, err := os.Stat(systemChromium); err == nil {
			l = l.Bin(systemChromium)
		}
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, eris.Wrap(err, "renderer: launch chromium")
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, eris.Wrap(err, "renderer: connect to chromium")
	}

	r.log.Info("browser launched", zap.String("control_url", controlURL))
	r.launcher = l
	r.browser = browser
	return browser, nil
}

func (r *RodRenderer) shutdownLocked() error {
	var err error
	if r.browser != nil {
		if cerr := r.browser.Close(); cerr != nil {
			err = eris.Wrap(cerr, "renderer: close browser")
		}
		r.browser = nil
	}
	if r.launcher != nil {
		r.launcher.Kill()
		r.launcher.Cleanup()
		r.launcher = nil
	}
	return err
}

type rodSession struct {
	ctx       context.Context
	raw       *rod.Page // not bound to ctx, so Close works after cancellation
	page      *rod.Page
	incognito *rod.Browser
	limiter   *rate.Limiter
	opts      RodOptions
	log       *zap.Logger
}

func (s *rodSession) Navigate(url string, timeout time.Duration) error {
	if err := s.limiter.Wait(s.ctx); err != nil {
		return eris.Wrap(err, "renderer: navigation throttled")
	}

	err := s.page.Timeout(timeout).Navigate(url)
	if isTimeout(err) {
		s.log.Warn("navigation timed out, continuing with partial page", zap.String("url", url))
		return nil
	}
	if err != nil {
		return eris.Wrapf(err, "renderer: navigate to %s", url)
	}
	return nil
}

func (s *rodSession) WaitForQuiescence(timeout time.Duration) {
	p := s.page.Timeout(timeout)
	if err := p.WaitLoad(); err != nil {
		s.log.Debug("page load wait ended early", zap.Error(err))
		return
	}
	if err := p.WaitStable(time.Second); err != nil {
		s.log.Debug("page did not settle", zap.Error(err))
	}
}

func (s *rodSession) Title() (string, error) {
	res, err := s.page.Timeout(s.opts.ReadTimeout).Eval(`() => document.title`)
	if err != nil {
		return "", eris.Wrap(err, "renderer: read title")
	}
	return res.Value.Str(), nil
}

func (s *rodSession) BodyText() (string, error) {
	res, err := s.page.Timeout(s.opts.ReadTimeout).Eval(`() => document.body ? document.body.innerText : ""`)
	if err != nil {
		return "", eris.Wrap(err, "renderer: read body text")
	}
	return res.Value.Str(), nil
}

func (s *rodSession) Anchors(limit int) ([]models.Anchor, error) {
	res, err := s.page.Timeout(s.opts.ReadTimeout).Eval(`(limit) =>
		Array.from(document.querySelectorAll("a")).slice(0, limit).map(a => ({
			text: (a.innerText || "").trim(),
			href: a.getAttribute("href") || ""
		}))`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "renderer: read anchors")
	}

	var anchors []models.Anchor
	if err := res.Value.Unmarshal(&anchors); err != nil {
		return nil, eris.Wrap(err, "renderer: decode anchors")
	}
	return anchors, nil
}

func (s *rodSession) FindInput(selectors []string) (Input, bool) {
	for _, selector := range selectors {
		has, el, err := s.page.Timeout(s.opts.InputTimeout).Has(selector)
		if err != nil {
			s.log.Debug("selector lookup failed", zap.String("selector", selector), zap.Error(err))
			continue
		}
		if has {
			return &rodInput{page: s.page, el: el.Context(s.ctx), timeout: s.opts.InputTimeout}, true
		}
	}
	return nil, false
}

func (s *rodSession) Close() error {
	var errs []error
	if err := s.raw.Close(); err != nil {
		errs = append(errs, eris.Wrap(err, "renderer: close page"))
	}
	if err := s.incognito.Close(); err != nil {
		errs = append(errs, eris.Wrap(err, "renderer: close incognito context"))
	}
	return errors.Join(errs...)
}

type rodInput struct {
	page    *rod.Page
	el      *rod.Element
	timeout time.Duration
}

func (i *rodInput) FillAndSubmit(text string) error {
	el := i.el.Timeout(i.timeout)
	if err := el.Input(text); err != nil {
		return eris.Wrap(err, "renderer: fill input")
	}
	if err := el.Type(input.Enter); err != nil {
		return eris.Wrap(err, "renderer: submit input")
	}
	return nil
}

func (i *rodInput) TypeAndSubmit(text string) error {
	if err := i.el.Timeout(i.timeout).Click(proto.InputMouseButtonLeft, 1); err != nil {
		return eris.Wrap(err, "renderer: focus input")
	}
	page := i.page.Timeout(i.timeout)
	for _, r := range text {
		if err := page.InsertText(string(r)); err != nil {
			return eris.Wrap(err, "renderer: type into input")
		}
		time.Sleep(40 * time.Millisecond)
	}
	if err := page.Keyboard.Type(input.Enter); err != nil {
		return eris.Wrap(err, "renderer: press enter")
	}
	return nil
}

func isTimeout(err error) bool {
	return err != nil && errors.Is(err, context.DeadlineExceeded)
}
