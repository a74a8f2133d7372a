package store

import (
	"path/filepath"
	"testing"

	"github.com/lgbarn/chessql-go/internal/chess"
	"github.com/lgbarn/chessql-go/internal/classify"
	"github.com/lgbarn/chessql-go/internal/replay"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// deriveRecord replays and classifies g the way ingestion does.
func deriveRecord(g *chess.Game) *Record {
	rep := replay.Replay(g.Moves, g.InitialFEN)
	res := classify.Classify(rep.Events, g.ReferencePlayer, classify.DefaultPolicy())
	return &Record{
		Game:       g,
		PlyCount:   rep.Plies,
		Partial:    rep.Partial(),
		Degraded:   rep.Degraded,
		Captures:   res.Captures,
		Promotions: res.Promotions,
		Warnings:   rep.Warnings,
	}
}
