package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"menucompare/models"
	"menucompare/scraper"
)

// Config holds the full application configuration.
type Config struct {
	Log       LogConfig        `yaml:"log" mapstructure:"log"`
	Server    ServerConfig     `yaml:"server" mapstructure:"server"`
	Browser   BrowserConfig    `yaml:"browser" mapstructure:"browser"`
	Resolver  ResolverConfig   `yaml:"resolver" mapstructure:"resolver"`
	Platforms []PlatformConfig `yaml:"platforms" mapstructure:"platforms"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host               string        `yaml:"host" mapstructure:"host"`
	Port               int           `yaml:"port" mapstructure:"port"`
	AllowedOrigins     []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	CORSEnabled        bool          `yaml:"cors_enabled" mapstructure:"cors_enabled"`
	RateLimitEnabled   bool          `yaml:"rate_limit_enabled" mapstructure:"rate_limit_enabled"`
	RateLimitPerSecond float64       `yaml:"rate_limit_per_second" mapstructure:"rate_limit_per_second"`
	MaxConcurrent      int64         `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	MaxRequestSize     int64         `yaml:"max_request_size" mapstructure:"max_request_size"`
	RequestTimeout     time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
}

// BrowserConfig configures the headless Chromium renderer.
type BrowserConfig struct {
	Bin                  string        `yaml:"bin" mapstructure:"bin"`
	Headless             bool          `yaml:"headless" mapstructure:"headless"`
	UserAgent            string        `yaml:"user_agent" mapstructure:"user_agent"`
	NavigationTimeout    time.Duration `yaml:"navigation_timeout" mapstructure:"navigation_timeout"`
	SettleTimeout        time.Duration `yaml:"settle_timeout" mapstructure:"settle_timeout"`
	ReadTimeout          time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	NavigationsPerSecond float64       `yaml:"navigations_per_second" mapstructure:"navigations_per_second"`
	HealthSchedule       string        `yaml:"health_schedule" mapstructure:"health_schedule"`
}

// ResolverConfig tunes the restaurant search on the competing platform.
type ResolverConfig struct {
	MaxAnchors      int      `yaml:"max_anchors" mapstructure:"max_anchors"`
	FallbackAnchors int      `yaml:"fallback_anchors" mapstructure:"fallback_anchors"`
	SearchSelectors []string `yaml:"search_selectors" mapstructure:"search_selectors"`
}

// PlatformConfig overrides how a platform is reached and recognised.
type PlatformConfig struct {
	Name          string   `yaml:"name" mapstructure:"name"`
	HomeURL       string   `yaml:"home_url" mapstructure:"home_url"`
	Domains       []string `yaml:"domains" mapstructure:"domains"`
	DeepLinkHosts []string `yaml:"deep_link_hosts" mapstructure:"deep_link_hosts"`
}

// Load reads configuration from config.yaml (optional) and MENUCOMPARE_* env vars.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MENUCOMPARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.cors_enabled", true)
	v.SetDefault("server.rate_limit_enabled", true)
	v.SetDefault("server.rate_limit_per_second", 1.0)
	v.SetDefault("server.max_concurrent", 2)
	v.SetDefault("server.max_request_size", 64*1024)
	v.SetDefault("server.request_timeout", "3m")
	v.SetDefault("browser.bin", "")
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.user_agent", scraper.DesktopUserAgent)
	v.SetDefault("browser.navigation_timeout", "60s")
	v.SetDefault("browser.settle_timeout", "10s")
	v.SetDefault("browser.read_timeout", "15s")
	v.SetDefault("browser.navigations_per_second", 2.0)
	v.SetDefault("browser.health_schedule", "@every 5m")
	v.SetDefault("resolver.max_anchors", 20)
	v.SetDefault("resolver.fallback_anchors", 5)
	v.SetDefault("resolver.search_selectors", scraper.DefaultSearchSelectors)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail deep inside a comparison.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return eris.Errorf("config: invalid server.port %d", c.Server.Port)
	}
	if c.Server.MaxConcurrent <= 0 {
		return eris.New("config: server.max_concurrent must be positive")
	}
	for i, p := range c.Platforms {
		if p.Name == "" || p.HomeURL == "" || len(p.Domains) == 0 {
			return eris.Errorf("config: platforms[%d] needs name, home_url and domains", i)
		}
	}
	return nil
}

// PlatformRegistry builds the registry from the configured platforms, or the
// built-in Zomato and Swiggy entries when none are configured.
func (c *Config) PlatformRegistry() *models.PlatformRegistry {
	infos := make([]models.PlatformInfo, 0, len(c.Platforms))
	for _, p := range c.Platforms {
		infos = append(infos, models.PlatformInfo{
			Platform:      models.Platform(strings.ToLower(p.Name)),
			HomeURL:       p.HomeURL,
			Domains:       p.Domains,
			DeepLinkHosts: p.DeepLinkHosts,
		})
	}
	return models.NewPlatformRegistry(infos)
}

// RodOptions maps the browser section onto renderer options.
func (c *Config) RodOptions() scraper.RodOptions {
	return scraper.RodOptions{
		Bin:                  c.Browser.Bin,
		Headless:             c.Browser.Headless,
		UserAgent:            c.Browser.UserAgent,
		ReadTimeout:          c.Browser.ReadTimeout,
		NavigationsPerSecond: c.Browser.NavigationsPerSecond,
	}
}

// ResolverOptions maps the resolver and browser sections onto resolver options.
func (c *Config) ResolverOptions() scraper.ResolverOptions {
	return scraper.ResolverOptions{
		SearchSelectors:   c.Resolver.SearchSelectors,
		MaxAnchors:        c.Resolver.MaxAnchors,
		FallbackAnchors:   c.Resolver.FallbackAnchors,
		NavigationTimeout: c.Browser.NavigationTimeout,
		SettleTimeout:     c.Browser.SettleTimeout,
	}
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
