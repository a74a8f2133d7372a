// Package ingest turns incoming games into stored games with their capture,
// promotion and warning rows.
package ingest

import (
	"github.com/lgbarn/chessql-go/internal/chess"
	"github.com/lgbarn/chessql-go/internal/classify"
	"github.com/lgbarn/chessql-go/internal/replay"
	"github.com/lgbarn/chessql-go/internal/store"
)

// Derivation is everything computed from one game before it is stored.
type Derivation struct {
	Record *store.Record

	// Captures whose classification could not be settled inside the
	// window. They are stored with the conservative default.
	Ambiguities []classify.Ambiguity

	// FENError is set when the game's initial position was unreadable and
	// the standard position was used.
	FENError error
}

// Derive replays and classifies g. It reads nothing shared and never fails:
// unreadable moves become warnings on the record.
func Derive(g *chess.Game, policy classify.Policy) *Derivation {
	rep := replay.Replay(g.Moves, g.InitialFEN)
	res := classify.Classify(rep.Events, chess.NormalizeName(g.ReferencePlayer), policy)
	return &Derivation{
		Record: &store.Record{
			Game:       g,
			PlyCount:   rep.Plies,
			Partial:    rep.Partial(),
			Degraded:   rep.Degraded,
			Captures:   res.Captures,
			Promotions: res.Promotions,
			Warnings:   rep.Warnings,
		},
		Ambiguities: res.Ambiguities,
		FENError:    rep.FENError,
	}
}
