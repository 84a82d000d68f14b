// Package testsupport provides shared helpers for package tests: temp-backed
// configs, catalog stores with registered cleanup, and file fixtures.
package testsupport

import (
	"path/filepath"
	"testing"

	"camsync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.CatalogPath = filepath.Join(base, "catalog.db")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithSyncDays overrides the recency window on the test config.
func WithSyncDays(days int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Sync.Days = days
	}
}

// WithCollisionPolicy overrides the basename collision policy.
func WithCollisionPolicy(policy string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Sync.OnCollision = policy
	}
}

// WithWorkers overrides the extractor worker pool width.
func WithWorkers(workers int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Extractor.Workers = workers
	}
}
