package testsupport

import (
	"path/filepath"
	"testing"

	"mediatools/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with a unique temp cache dir per test.
// It shortens retry backoff so tests run quickly.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Cache.Dir = filepath.Join(t.TempDir(), "cache")
	cfg.Pipeline.RetryBackoffMS = 1
	cfg.Pipeline.StepTimeoutSeconds = 10

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithoutDurableCache disables the durable cache store.
func WithoutDurableCache() ConfigOption {
	return func(c *config.Config) {
		c.Cache.Dir = ""
	}
}

// WithRetryBudget overrides the transient retry budget.
func WithRetryBudget(budget int) ConfigOption {
	return func(c *config.Config) {
		c.Pipeline.RetryBudget = budget
	}
}

// WithWorkers overrides the batch worker count.
func WithWorkers(n int) ConfigOption {
	return func(c *config.Config) {
		c.Batch.Workers = n
	}
}
