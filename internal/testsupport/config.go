// Package testsupport provides shared helpers for package tests: temp-backed
// configs and history stores wired with cleanup.
package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/praneethvg/video-summarizer/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.TempDir = filepath.Join(base, "temp")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.OpenAI.APIKey = "test"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithAPIKey overrides the OpenAI API key on the test config.
func WithAPIKey(key string) ConfigOption {
	return func(c *config.Config) {
		c.OpenAI.APIKey = key
	}
}

// WithPluginPolicy sets the plugin enablement policy on the test config.
func WithPluginPolicy(enabled []string, loadAll bool) ConfigOption {
	return func(c *config.Config) {
		c.Plugins.Enabled = enabled
		c.Plugins.LoadAllByDefault = loadAll
	}
}
