package engine

import (
	"testing"

	"github.com/lgbarn/chessql-go/internal/chess"
	"github.com/lgbarn/chessql-go/internal/errors"
	"github.com/lgbarn/chessql-go/internal/testutil"
)

func TestNewBoardFromFEN(t *testing.T) {
	tests := []struct {
		name    string
		fen     string
		checkFn func(*chess.Board) bool
	}{
		{
			name: "initial position",
			fen:  InitialFEN,
			checkFn: func(b *chess.Board) bool {
				return b.Get(chess.ParseSquare("e1")) == chess.W(chess.King) &&
					b.Get(chess.ParseSquare("e8")) == chess.B(chess.King) &&
					b.ToMove == chess.White &&
					b.Castling == chess.AllCastling
			},
		},
		{
			name: "after 1.e4",
			fen:  "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
			checkFn: func(b *chess.Board) bool {
				return b.Get(chess.ParseSquare("e4")) == chess.W(chess.Pawn) &&
					b.Get(chess.ParseSquare("e2")) == chess.Empty &&
					b.ToMove == chess.Black &&
					b.EnPassant == chess.ParseSquare("e3")
			},
		},
		{
			name: "no castling rights",
			fen:  "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w - - 12 30",
			checkFn: func(b *chess.Board) bool {
				return b.Castling == chess.NoCastling && b.HalfmoveClock == 12 && b.MoveNumber == 30
			},
		},
		{
			name: "placement only",
			fen:  "4k3/8/8/8/8/8/8/4K3",
			checkFn: func(b *chess.Board) bool {
				return b.ToMove == chess.White && b.MoveNumber == 1
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board, err := NewBoardFromFEN(tt.fen)
			if err != nil {
				t.Fatalf("NewBoardFromFEN() error = %v", err)
			}
			if !tt.checkFn(board) {
				t.Errorf("board state does not match FEN %q", tt.fen)
			}
		})
	}
}

func TestNewBoardFromFEN_Invalid(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"empty", ""},
		{"seven ranks", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w - - 0 1"},
		{"short rank", "rnbqkbn/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"},
		{"bad piece", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w - - 0 1"},
		{"missing king", "rnbq1bnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"},
		{"bad side", "4k3/8/8/8/8/8/8/4K3 x - - 0 1"},
		{"bad castling", "4k3/8/8/8/8/8/8/4K3 w Z - 0 1"},
		{"bad en passant", "4k3/8/8/8/8/8/8/4K3 w - e5 0 1"},
		{"bad clock", "4k3/8/8/8/8/8/8/4K3 w - - x 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBoardFromFEN(tt.fen)
			testutil.AssertErrorIs(t, err, errors.ErrInvalidFEN)
		})
	}
}

func TestBoardToFEN_RoundTrip(t *testing.T) {
	fens := []string{
		InitialFEN,
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		"r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4",
		"8/5k2/8/8/8/8/5K2/4R3 w - - 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R b Kq - 3 17",
	}
	for _, fen := range fens {
		board, err := NewBoardFromFEN(fen)
		testutil.AssertNoError(t, err, fen)
		if err != nil {
			continue
		}
		testutil.AssertEqual(t, BoardToFEN(board), fen)
	}
}

func TestNewBoardForGame(t *testing.T) {
	board, err := NewBoardForGame("")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, BoardToFEN(board), InitialFEN)

	board, err = NewBoardForGame("not a fen")
	testutil.AssertErrorIs(t, err, errors.ErrInvalidFEN)
	testutil.AssertEqual(t, BoardToFEN(board), InitialFEN, "fallback position")

	board, err = NewBoardForGame("4k3/8/8/8/8/8/8/4K3 b - - 0 40")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, board.ToMove, chess.Black)
}
