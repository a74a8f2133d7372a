// Package hashing computes Zobrist keys for board positions.
package hashing

import (
	"math/rand/v2"

	"github.com/lgbarn/chessql-go/internal/chess"
)

type zobristTable struct {
	pieces    [12][64]uint64
	blackMove uint64
	castling  [16]uint64
	enPassant [8]uint64
}

// Fixed seeds keep keys stable across runs.
var table = func() *zobristTable {
	r := rand.New(rand.NewPCG(0x9e3779b97f4a7c15, 0xbf58476d1ce4e5b9))
	t := &zobristTable{}
	for p := range t.pieces {
		for sq := range t.pieces[p] {
			t.pieces[p][sq] = r.Uint64()
		}
	}
	t.blackMove = r.Uint64()
	for i := range t.castling {
		t.castling[i] = r.Uint64()
	}
	for i := range t.enPassant {
		t.enPassant[i] = r.Uint64()
	}
	return t
}()

func pieceIndex(p chess.Piece) int {
	return (int(chess.ExtractPiece(p))-1)*2 + int(chess.ExtractColour(p))
}

// Key returns the Zobrist key of b. Placement, side to move, castling
// rights and the en passant file all contribute; move counters do not.
func Key(b *chess.Board) uint64 {
	var key uint64
	for sq, p := range b.Squares {
		if p == chess.Empty {
			continue
		}
		if idx := pieceIndex(p); idx >= 0 && idx < len(table.pieces) {
			key ^= table.pieces[idx][sq]
		}
	}
	if b.ToMove == chess.Black {
		key ^= table.blackMove
	}
	key ^= table.castling[b.Castling&chess.AllCastling]
	if b.EnPassant.Valid() {
		key ^= table.enPassant[b.EnPassant.File()]
	}
	return key
}
