package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"menucompare/models"
	"menucompare/scraper"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Server.CORSEnabled)
	assert.True(t, cfg.Server.RateLimitEnabled)
	assert.Equal(t, int64(2), cfg.Server.MaxConcurrent)
	assert.Equal(t, 3*time.Minute, cfg.Server.RequestTimeout)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, scraper.DesktopUserAgent, cfg.Browser.UserAgent)
	assert.Equal(t, 60*time.Second, cfg.Browser.NavigationTimeout)
	assert.Equal(t, 10*time.Second, cfg.Browser.SettleTimeout)
	assert.Equal(t, "@every 5m", cfg.Browser.HealthSchedule)
	assert.Equal(t, 20, cfg.Resolver.MaxAnchors)
	assert.Equal(t, 5, cfg.Resolver.FallbackAnchors)
	assert.Equal(t, scraper.DefaultSearchSelectors, cfg.Resolver.SearchSelectors)
	assert.Empty(t, cfg.Platforms)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
  format: console
browser:
  navigation_timeout: 30s
  bin: /opt/chrome/chrome
platforms:
  - name: Zomato
    home_url: https://www.zomato.com
    domains: [zomato.com]
    deep_link_hosts: [zoma.to]
  - name: Swiggy
    home_url: https://www.swiggy.com
    domains: [swiggy.com, swiggy.in]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 30*time.Second, cfg.Browser.NavigationTimeout)
	assert.Equal(t, "/opt/chrome/chrome", cfg.RodOptions().Bin)
	// Defaults still apply for unset values
	assert.Equal(t, 10*time.Second, cfg.Browser.SettleTimeout)

	registry := cfg.PlatformRegistry()
	info, ok := registry.Lookup("www.swiggy.in")
	require.True(t, ok)
	assert.Equal(t, models.PlatformSwiggy, info.Platform)
	assert.True(t, registry.IsDeepLinkHost("zoma.to"))
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("MENUCOMPARE_SERVER_PORT", "3000")
	t.Setenv("MENUCOMPARE_BROWSER_HEADLESS", "false")
	t.Setenv("MENUCOMPARE_BROWSER_SETTLE_TIMEOUT", "2s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 2*time.Second, cfg.ResolverOptions().SettleTimeout)
}

func TestLoadRejectsInvalidPlatform(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
platforms:
  - name: zomato
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Server.MaxConcurrent = 1
	assert.NoError(t, cfg.Validate())

	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg.Server.Port = 8080
	cfg.Server.MaxConcurrent = 0
	assert.Error(t, cfg.Validate())
}

func TestPlatformRegistryDefaults(t *testing.T) {
	registry := (&Config{}).PlatformRegistry()

	_, ok := registry.Info(models.PlatformZomato)
	assert.True(t, ok)
	_, ok = registry.Info(models.PlatformSwiggy)
	assert.True(t, ok)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
