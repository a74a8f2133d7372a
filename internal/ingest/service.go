package ingest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lgbarn/chessql-go/internal/chess"
	"github.com/lgbarn/chessql-go/internal/errors"
	"github.com/lgbarn/chessql-go/internal/stats"
	"github.com/lgbarn/chessql-go/internal/store"
	"github.com/lgbarn/chessql-go/internal/worker"
)

// Writer persists derived games. *store.Store satisfies it.
type Writer interface {
	ReplaceGame(ctx context.Context, rec *store.Record) error
}

// Report summarises one batch.
type Report struct {
	Ingested int `json:"ingested"`
	Degraded int `json:"degraded"`
	Partial  int `json:"partial"`
	Failed   int `json:"failed"`
	Warnings int `json:"warnings"`

	// IDs of the stored games in batch order. Failed games are absent.
	IDs []string `json:"ids"`

	// One *errors.GameError per failed game, in batch order.
	Errors []error `json:"-"`
}

// Service derives games on a worker pool and writes them one at a time
// through the store's single writer.
type Service struct {
	w    Writer
	opts options
}

// New creates a service writing to w.
func New(w Writer, opts ...Option) (*Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}
	if err := o.policy.Validate(); err != nil {
		return nil, err
	}
	return &Service{w: w, opts: o}, nil
}

// IngestOne derives and stores a single game. A game without an id gets a
// fresh one.
func (s *Service) IngestOne(ctx context.Context, g *chess.Game) (*Derivation, error) {
	if err := prepare(g); err != nil {
		return nil, &errors.GameError{Err: err}
	}
	d := s.derive(g)
	if err := s.write(ctx, d); err != nil {
		return nil, &errors.GameError{GameID: g.ID, Err: err}
	}
	return d, nil
}

// Ingest derives and stores a batch. A game that fails is counted and
// reported without affecting the rest. The returned error is non-nil only
// when ctx ends before the batch finishes; the report then covers the games
// written so far.
func (s *Service) Ingest(ctx context.Context, games []*chess.Game) (*Report, error) {
	report := &Report{}
	ids := make([]string, len(games))

	pool := worker.NewPool(func(item worker.Item[*chess.Game]) (*Derivation, error) {
		return s.derive(item.Value), nil
	}, worker.WithWorkers(s.opts.workers), worker.WithBufferSize(s.opts.bufferSize))
	pool.Start()
	s.opts.logger.Debug("ingesting batch",
		zap.Int("games", len(games)),
		zap.Int("workers", pool.NumWorkers()),
	)

	var invalid []*errors.GameError
	valid := make([]worker.Item[*chess.Game], 0, len(games))
	for i, g := range games {
		if err := prepare(g); err != nil {
			invalid = append(invalid, &errors.GameError{Index: i, Err: err})
			continue
		}
		valid = append(valid, worker.Item[*chess.Game]{Value: g, Index: i})
	}

	go func() {
		defer pool.Close()
		for _, item := range valid {
			if ctx.Err() != nil {
				pool.Stop()
				return
			}
			pool.Submit(item)
		}
	}()

	failures := invalid
	for res := range pool.Results() {
		if ctx.Err() != nil {
			pool.Stop()
			continue
		}
		if err := s.write(ctx, res.Value); err != nil {
			failures = append(failures, &errors.GameError{GameID: res.Input.ID, Index: res.Index, Err: err})
			continue
		}
		rec := res.Value.Record
		ids[res.Index] = rec.Game.ID
		report.Ingested++
		report.Warnings += len(rec.Warnings)
		if rec.Partial {
			report.Partial++
		}
		if rec.Degraded {
			report.Degraded++
		}
	}

	sort.Slice(failures, func(i, j int) bool { return failures[i].Index < failures[j].Index })
	for _, f := range failures {
		s.opts.logger.Warn("game not ingested",
			zap.String("game_id", f.GameID),
			zap.Int("index", f.Index),
			zap.Error(f.Err),
		)
		report.Errors = append(report.Errors, f)
	}
	report.Failed = len(failures)
	s.opts.stats.IncCounter(stats.MetricGamesFailed, int64(report.Failed))

	for _, id := range ids {
		if id != "" {
			report.IDs = append(report.IDs, id)
		}
	}

	if err := ctx.Err(); err != nil {
		return report, &errors.OperationalError{Op: "ingest", Err: err}
	}
	return report, nil
}

// prepare checks the fields every stored game needs and assigns an id when
// the caller left it empty.
func prepare(g *chess.Game) error {
	switch {
	case g == nil:
		return fmt.Errorf("nil game")
	case g.AccountID == "":
		return fmt.Errorf("missing account id")
	case g.Platform == "":
		return fmt.Errorf("missing platform")
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

func (s *Service) derive(g *chess.Game) *Derivation {
	start := time.Now()
	s.classifyOpening(g)
	d := Derive(g, s.opts.policy)
	s.opts.stats.ObserveHistogram(stats.MetricIngestSeconds, time.Since(start).Seconds())

	log := s.opts.logger.With(zap.String("game_id", g.ID))
	if d.FENError != nil {
		log.Debug("initial position unreadable; replayed from standard start", zap.Error(d.FENError))
	}
	for _, w := range d.Record.Warnings {
		log.Debug("move skipped",
			zap.Int("ply", w.Ply),
			zap.String("token", w.Token),
			zap.Error(w.Err),
		)
	}
	for _, a := range d.Ambiguities {
		log.Debug("capture classification ambiguous",
			zap.Int("ply", a.Ply),
			zap.String("reason", a.Reason),
		)
	}
	return d
}

// classifyOpening looks the game up in the opening book when it carries no
// ECO code. An opening name already present is kept.
func (s *Service) classifyOpening(g *chess.Game) {
	if s.opts.book == nil || g.ECO != "" {
		return
	}
	e, ok := s.opts.book.Classify(g.Moves, g.InitialFEN)
	if !ok {
		return
	}
	g.ECO = e.Code
	if g.Opening == "" {
		g.Opening = e.Opening
	}
}

func (s *Service) write(ctx context.Context, d *Derivation) error {
	rec := d.Record
	if err := s.w.ReplaceGame(ctx, rec); err != nil {
		return err
	}
	s.opts.stats.IncCounter(stats.MetricGamesIngested, 1)
	s.opts.stats.IncCounter(stats.MetricCapturesStored, int64(len(rec.Captures)))
	s.opts.stats.IncCounter(stats.MetricReplayWarnings, int64(len(rec.Warnings)))
	if rec.Partial {
		s.opts.stats.IncCounter(stats.MetricGamesPartial, 1)
	}
	if rec.Degraded {
		s.opts.stats.IncCounter(stats.MetricGamesDegraded, 1)
	}
	return nil
}
