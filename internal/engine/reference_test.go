package engine

import (
	"strings"
	"testing"

	refchess "github.com/notnil/chess"

	"github.com/lgbarn/chessql-go/internal/chess"
)

// TestReplayMatchesReference replays SAN through Apply and through an
// independent move generator and compares the resulting placement after
// every move.
func TestReplayMatchesReference(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		moves string
	}{
		{
			name:  "open game with exchange",
			moves: "e4 e5 Nf3 Nc6 d4 exd4 Nxd4 Nf6 Nc3 Bb4 Nxc6 bxc6",
		},
		{
			name:  "scholars mate",
			moves: "e4 e5 Bc4 Nc6 Qh5 Nf6 Qxf7#",
		},
		{
			name:  "en passant and castling",
			moves: "e4 d5 e5 f5 exf6 Nh6 fxg7 Bxg7 Nf3 O-O Be2 Nc6 O-O",
		},
		{
			name:  "file disambiguation",
			moves: "Nf3 Nf6 Nc3 Nc6 Nd4 Nd5 Ndb5 Ndb4 a3 a6 axb4 axb5",
		},
		{
			name:  "promotions from a set position",
			fen:   "4k3/1P6/8/8/8/8/6p1/4K3 w - - 0 1",
			moves: "b8=Q+ Kd7 Kf2 g1=Q+ Kxg1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				board *chess.Board
				ref   *refchess.Game
			)
			if tt.fen == "" {
				board = chess.NewInitialBoard()
				ref = refchess.NewGame()
			} else {
				board = mustBoard(t, tt.fen)
				opt, err := refchess.FEN(tt.fen)
				if err != nil {
					t.Fatalf("reference FEN: %v", err)
				}
				ref = refchess.NewGame(opt)
			}

			for i, san := range strings.Fields(tt.moves) {
				if _, err := Apply(board, san); err != nil {
					t.Fatalf("move %d Apply(%q) failed: %v", i+1, san, err)
				}
				if err := ref.MoveStr(san); err != nil {
					t.Fatalf("move %d reference rejected %q: %v", i+1, san, err)
				}
				want := ref.Position().Board().String()
				if got := board.Placement(); got != want {
					t.Fatalf("after %q placement = %s, want %s", san, got, want)
				}
			}
		})
	}
}
