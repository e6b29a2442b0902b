package livescene

import (
	"go.uber.org/zap"

	"github.com/livefir/livescene/internal/metrics"
)

// Config holds reconciler configuration options
type Config struct {
	Logger               *zap.Logger
	IDCapacity           int  // initial id map capacity
	IgnoreEventListeners bool // skip listener edits instead of failing the pass
	Metrics              *metrics.Collector
}

// Option is a functional option for configuring a Reconciler
type Option func(*Config)

// WithLogger sets the logger; the default discards everything
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithIDCapacity preallocates room for n element ids
func WithIDCapacity(n int) Option {
	return func(c *Config) {
		c.IDCapacity = n
	}
}

// WithIgnoredEventListeners makes listener edits no-ops
func WithIgnoredEventListeners() Option {
	return func(c *Config) {
		c.IgnoreEventListeners = true
	}
}

// WithMetrics shares a metrics collector, e.g. with an HTTP endpoint
func WithMetrics(collector *metrics.Collector) Option {
	return func(c *Config) {
		c.Metrics = collector
	}
}
