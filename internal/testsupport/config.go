package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"dlsort/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The watched directory exists and the settle age is zero so files are
// eligible as soon as they are written; options adjust the rest.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WatchDir = filepath.Join(base, "downloads")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Organize.MinAgeSeconds = 0
	cfgVal.Watch.PollIntervalSeconds = 0.05

	if err := os.MkdirAll(cfgVal.Paths.WatchDir, 0o755); err != nil {
		t.Fatalf("mkdir watch dir: %v", err)
	}

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

// WithMinAge sets the settle age in seconds.
func WithMinAge(seconds float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.MinAgeSeconds = seconds
	}
}

// WithDryRun toggles dry-run mode.
func WithDryRun(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.DryRun = enabled
	}
}

// WithIgnoreHidden toggles the hidden-file policy.
func WithIgnoreHidden(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.IgnoreHidden = enabled
	}
}

// WithCategories replaces the category mapping.
func WithCategories(categories map[string][]string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Categories = categories
	}
}

// WithWatchMode sets watch.mode.
func WithWatchMode(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Watch.Mode = mode
	}
}

// WithoutWatchDir removes the watched directory so setup failures can be exercised.
func WithoutWatchDir() ConfigOption {
	return func(b *configBuilder) {
		if err := os.RemoveAll(b.cfg.Paths.WatchDir); err != nil {
			b.t.Fatalf("remove watch dir: %v", err)
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WatchDir)
}
