package testsupport

import (
	"path/filepath"
	"testing"

	"jellywatch/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.Bind = "127.0.0.1:0"
	cfgVal.Sync.Enabled = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithJellyfin points the test config at a Jellyfin server, usually an
// httptest instance.
func WithJellyfin(url, apiKey string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Jellyfin.URL = url
		b.cfg.Jellyfin.APIKey = apiKey
	}
}

// WithDiscordWebhook sets the outbound webhook URL on the test config.
func WithDiscordWebhook(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Discord.WebhookURL = url
	}
}

// WithWatchChanges overrides the per-category watch toggles.
func WithWatchChanges(watch map[string]bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.WatchChanges = watch
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
