package main

import (
	"go.uber.org/zap"

	"github.com/lgbarn/chessql-go/internal/config"
	"github.com/lgbarn/chessql-go/internal/query"
	"github.com/lgbarn/chessql-go/internal/stats/logger"
	"github.com/lgbarn/chessql-go/internal/store"
)

func newExecutor(s *store.Store, cfg *config.Config, log *zap.Logger) (*query.Executor, error) {
	return query.New(s,
		query.WithLogger(log.Named("query")),
		query.WithStats(logger.New(log)),
		query.WithTimeout(cfg.Query.Timeout),
		query.WithCacheSize(cfg.Query.CacheSize),
		query.WithDefaultLimit(cfg.Query.DefaultLimit),
		query.WithMaxLimit(cfg.Query.MaxLimit),
	)
}
