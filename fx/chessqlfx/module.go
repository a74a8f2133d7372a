// Package chessqlfx provides an fx module wiring the store, ingestion,
// query execution and the HTTP API from a config.Config.
package chessqlfx

import (
	"context"
	"errors"
	"net"
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lgbarn/chessql-go/internal/config"
	"github.com/lgbarn/chessql-go/internal/eco"
	"github.com/lgbarn/chessql-go/internal/ingest"
	"github.com/lgbarn/chessql-go/internal/query"
	"github.com/lgbarn/chessql-go/internal/stats"
	promstats "github.com/lgbarn/chessql-go/internal/stats/prometheus"
	"github.com/lgbarn/chessql-go/internal/store"
	httptransport "github.com/lgbarn/chessql-go/internal/transport/http"
)

// Module provides everything behind the API server.
// Requires a *config.Config and a *zap.Logger to be provided.
var Module = fx.Module("chessql",
	fx.Provide(
		newRegistry,
		newStatsCollector,
		newStore,
		newExecutor,
		newIngestService,
		newApp,
	),
)

// ServerModule additionally starts the fiber listener on fx start.
var ServerModule = fx.Options(
	Module,
	fx.Invoke(startServer),
)

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func newStatsCollector(reg *prometheus.Registry) stats.Collector {
	return promstats.New(reg)
}

// Params holds dependencies for opening the store.
type Params struct {
	fx.In

	Config    *config.Config
	Logger    *zap.Logger
	Lifecycle fx.Lifecycle
}

func newStore(p Params) (*store.Store, error) {
	s, err := store.Open(p.Config.Database.Path)
	if err != nil {
		return nil, err
	}
	p.Logger.Info("store opened", zap.String("path", p.Config.Database.Path))

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return s.Close()
		},
	})
	return s, nil
}

func newExecutor(cfg *config.Config, s *store.Store, c stats.Collector, log *zap.Logger) (*query.Executor, error) {
	return query.New(s,
		query.WithLogger(log.Named("query")),
		query.WithStats(c),
		query.WithTimeout(cfg.Query.Timeout),
		query.WithCacheSize(cfg.Query.CacheSize),
		query.WithDefaultLimit(cfg.Query.DefaultLimit),
		query.WithMaxLimit(cfg.Query.MaxLimit),
	)
}

func newIngestService(cfg *config.Config, s *store.Store, c stats.Collector, log *zap.Logger) (*ingest.Service, error) {
	opts := []ingest.Option{
		ingest.WithLogger(log.Named("ingest")),
		ingest.WithStats(c),
		ingest.WithPolicy(cfg.Classifier),
		ingest.WithWorkers(cfg.Ingest.Workers),
		ingest.WithBufferSize(cfg.Ingest.BufferSize),
	}
	if cfg.Ingest.ECOFile != "" {
		book, err := eco.LoadFile(cfg.Ingest.ECOFile)
		if err != nil {
			return nil, err
		}
		log.Info("opening book loaded", zap.String("path", cfg.Ingest.ECOFile), zap.Int("positions", book.Len()))
		opts = append(opts, ingest.WithBook(book))
	}
	return ingest.New(s, opts...)
}

// AppParams holds dependencies for building the HTTP application.
type AppParams struct {
	fx.In

	Config   *config.Config
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Store    *store.Store
	Executor *query.Executor
	Ingest   *ingest.Service
}

func newApp(p AppParams) *fiber.App {
	var metrics nethttp.Handler = promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{})
	return httptransport.NewApp(httptransport.Deps{
		Executor: p.Executor,
		Ingest:   p.Ingest,
		Games:    p.Store,
		Metrics:  metrics,
		Logger:   p.Logger,
	}, p.Config.Server)
}

func startServer(lc fx.Lifecycle, cfg *config.Config, app *fiber.App, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Server.Addr)
			if err != nil {
				return err
			}
			log.Info("listening", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := app.Listener(ln); err != nil && !errors.Is(err, net.ErrClosed) {
					log.Error("server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}
