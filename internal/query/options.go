package query

import (
	"time"

	"go.uber.org/zap"

	"github.com/lgbarn/chessql-go/internal/stats"
)

// Option configures an Executor.
type Option interface {
	apply(*options)
}

type options struct {
	logger       *zap.Logger
	stats        stats.Collector
	cacheSize    int
	timeout      time.Duration
	defaultLimit int
	maxLimit     int
}

func defaultOptions() options {
	return options{
		logger:       zap.NewNop(),
		stats:        stats.NewNoop(),
		cacheSize:    256,
		timeout:      5 * time.Second,
		defaultLimit: 100,
		maxLimit:     1000,
	}
}

type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithCacheSize sets how many compiled queries are kept.
// Default is 256.
func WithCacheSize(n int) Option {
	return optionFunc(func(o *options) {
		o.cacheSize = n
	})
}

// WithTimeout bounds each execution, count included. Zero disables the
// bound. Default is 5s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(o *options) {
		o.timeout = d
	})
}

// WithDefaultLimit sets the page size used when a request names none.
// Default is 100.
func WithDefaultLimit(n int) Option {
	return optionFunc(func(o *options) {
		o.defaultLimit = n
	})
}

// WithMaxLimit caps the page size a request may ask for.
// Default is 1000.
func WithMaxLimit(n int) Option {
	return optionFunc(func(o *options) {
		o.maxLimit = n
	})
}
