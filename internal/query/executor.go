// Package query executes hybrid chess queries against the game store and
// shapes the rows into paged responses.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/lgbarn/chessql-go/internal/compiler"
	"github.com/lgbarn/chessql-go/internal/cql"
	"github.com/lgbarn/chessql-go/internal/errors"
	"github.com/lgbarn/chessql-go/internal/stats"
)

// Source runs read-only SQL. *store.Store satisfies it.
type Source interface {
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) *sql.Row
}

// Request is one query execution.
type Request struct {
	Text  string
	Scope compiler.Scope

	// Limit is the page size. Zero uses the executor default.
	Limit int
	// Page is 1-based and ignored when Offset is set.
	Page   int
	Offset *int

	// CountOnly skips fetching rows.
	CountOnly bool
}

// Response is one page of results. HasNext is set when rows remain past
// this page.
type Response struct {
	Columns    []string         `json:"columns"`
	Results    []map[string]any `json:"results"`
	Count      int              `json:"count"`
	TotalCount int              `json:"total_count"`
	PageNo     int              `json:"page_no"`
	Limit      int              `json:"limit"`
	Offset     int              `json:"offset"`
	TotalPages int              `json:"total_pages"`
	HasNext    bool             `json:"has_next"`
	HasPrev    bool             `json:"has_prev"`
	Aggregate  bool             `json:"aggregate"`
}

// Executor compiles and runs queries. It is safe for concurrent use.
type Executor struct {
	src   Source
	cache *lru.Cache[string, *compiler.Compiled]
	opts  options
}

// New creates an executor reading from src.
func New(src Source, opts ...Option) (*Executor, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}
	if o.cacheSize <= 0 {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "query cache size %d", o.cacheSize)
	}
	if o.defaultLimit <= 0 {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "default limit %d", o.defaultLimit)
	}
	cache, err := lru.New[string, *compiler.Compiled](o.cacheSize)
	if err != nil {
		return nil, err
	}
	return &Executor{src: src, cache: cache, opts: o}, nil
}

// Prepare parses and compiles text under scope, reusing a cached statement
// when the same text was compiled for the same scope before. Returned
// statements are shared and must not be modified.
func (e *Executor) Prepare(text string, scope compiler.Scope) (*compiler.Compiled, error) {
	key := text + "\x00" + scope.Key()
	if c, ok := e.cache.Get(key); ok {
		e.opts.stats.IncCounter(stats.MetricCacheHits, 1)
		return c, nil
	}
	e.opts.stats.IncCounter(stats.MetricCacheMisses, 1)

	q, err := cql.Parse(text)
	if err != nil {
		return nil, err
	}
	c, err := compiler.Compile(q, scope)
	if err != nil {
		return nil, err
	}
	e.cache.Add(key, c)
	e.opts.stats.SetGauge(stats.MetricCacheSize, int64(e.cache.Len()))
	return c, nil
}

// Execute runs req and returns one page of results. Syntax and unknown
// field errors come back unchanged; failures of the store, the deadline or
// cancellation come back as *errors.OperationalError.
func (e *Executor) Execute(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.opts.stats.IncCounter(stats.MetricQueries, 1)

	resp, err := e.execute(ctx, req)

	e.opts.stats.ObserveHistogram(stats.MetricQuerySeconds, time.Since(start).Seconds())
	if err != nil {
		e.opts.stats.IncCounter(stats.MetricQueryErrors, 1)
		if errors.Is(err, errors.ErrQueryTimeout) {
			e.opts.stats.IncCounter(stats.MetricQueryTimeouts, 1)
		}
		log := e.opts.logger.Warn
		if errors.IsQueryError(err) {
			log = e.opts.logger.Debug
		}
		log("query failed",
			zap.String("query", req.Text),
			zap.Error(err),
		)
		return nil, err
	}
	e.opts.logger.Debug("query executed",
		zap.String("query", req.Text),
		zap.Int("rows", resp.Count),
		zap.Int("total", resp.TotalCount),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}

func (e *Executor) execute(ctx context.Context, req Request) (*Response, error) {
	c, err := e.Prepare(req.Text, req.Scope)
	if err != nil {
		return nil, err
	}

	if e.opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, operational("execute query", err)
	}

	var countAll int
	if err := e.src.QueryRow(ctx, c.CountSQL, c.Args...).Scan(&countAll); err != nil {
		return nil, operational("count results", contextErr(ctx, err))
	}

	w := e.newWindow(req, c.Limit)
	resp := &Response{Columns: c.Columns, Results: []map[string]any{}, Aggregate: c.Aggregate}

	if !req.CountOnly && w.limit > 0 {
		textOffset := 0
		if c.Offset != nil {
			textOffset = *c.Offset
		}
		args := make([]any, 0, len(c.Args)+2)
		args = append(args, c.Args...)
		args = append(args, w.limit, textOffset+w.offset)

		rows, err := e.src.Query(ctx, c.SQL+" LIMIT ? OFFSET ?", args...)
		if err != nil {
			return nil, operational("execute query", contextErr(ctx, err))
		}
		resp.Results, err = scanRows(rows, c.Columns)
		if err != nil {
			return nil, operational("read results", contextErr(ctx, err))
		}
	}

	resp.Count = len(resp.Results)
	w.fill(resp, total(countAll, c.Limit, c.Offset))
	return resp, nil
}

// scanRows reads every row into a map keyed by the compiled column names.
// Text comes back as string rather than []byte.
func scanRows(rows *sql.Rows, columns []string) ([]map[string]any, error) {
	defer rows.Close()

	results := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(columns))
		for i, name := range columns {
			if b, ok := values[i].([]byte); ok {
				values[i] = string(b)
			}
			row[name] = values[i]
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// contextErr prefers the context's error when the context is done, so a
// driver's "interrupted" error surfaces as a deadline or cancellation.
func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

func operational(op string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		err = fmt.Errorf("%w: %w", errors.ErrQueryTimeout, err)
	case errors.Is(err, context.Canceled):
	default:
		err = fmt.Errorf("%w: %w", errors.ErrStoreUnavailable, err)
	}
	return &errors.OperationalError{Op: op, Err: err}
}
