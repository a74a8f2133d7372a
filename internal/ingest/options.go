package ingest

import (
	"go.uber.org/zap"

	"github.com/lgbarn/chessql-go/internal/classify"
	"github.com/lgbarn/chessql-go/internal/eco"
	"github.com/lgbarn/chessql-go/internal/stats"
)

// Option configures a Service.
type Option interface {
	apply(*options)
}

type options struct {
	logger     *zap.Logger
	stats      stats.Collector
	policy     classify.Policy
	book       *eco.Book
	workers    int
	bufferSize int
}

func defaultOptions() options {
	return options{
		logger:     zap.NewNop(),
		stats:      stats.NewNoop(),
		policy:     classify.DefaultPolicy(),
		workers:    4,
		bufferSize: 64,
	}
}

type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

// WithStats sets the stats collector.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithPolicy sets the classification windows and thresholds.
func WithPolicy(p classify.Policy) Option {
	return optionFunc(func(o *options) {
		o.policy = p
	})
}

// WithWorkers sets how many games are derived in parallel. Default is 4.
func WithWorkers(n int) Option {
	return optionFunc(func(o *options) {
		o.workers = n
	})
}

// WithBufferSize sets the worker pool's channel buffer. Default is 64.
func WithBufferSize(n int) Option {
	return optionFunc(func(o *options) {
		o.bufferSize = n
	})
}

// WithBook fills in the ECO code and opening name of games that arrive
// without them.
func WithBook(b *eco.Book) Option {
	return optionFunc(func(o *options) {
		o.book = b
	})
}
