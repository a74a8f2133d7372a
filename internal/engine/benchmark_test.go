package engine

import (
	"strings"
	"testing"

	"github.com/lgbarn/chessql-go/internal/chess"
	"github.com/lgbarn/chessql-go/internal/testutil"
)

// Positions reached by the scenario game and the promotion fixtures.
var benchPositions = []struct {
	name string
	fen  string
}{
	{"start", InitialFEN},
	{"after-exd4", "r1bqkbnr/pppp1ppp/2n5/8/3pP3/5N2/PPP2PPP/RNBQKB1R w KQkq - 0 4"},
	{"promotion", "4k3/PP6/8/8/8/8/8/4K3 w - - 0 1"},
	{"en-passant", "rnbqkbnr/pppp1ppp/8/4pP2/8/8/PPPPP1PP/RNBQKBNR w KQkq e6 0 3"},
}

func BenchmarkNewBoardFromFEN(b *testing.B) {
	for _, pos := range benchPositions {
		b.Run(pos.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := NewBoardFromFEN(pos.fen); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkApplyScoutingGame(b *testing.B) {
	moves := strings.Fields(testutil.BareScoutingGame)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		board := chess.NewInitialBoard()
		for _, san := range moves {
			if _, err := Apply(board, san); err != nil {
				b.Fatal(err)
			}
		}
	}
}

// Knights on b1 and f3 both reach d2; the file hint settles it.
func BenchmarkApplyDisambiguated(b *testing.B) {
	start, err := NewBoardFromFEN("4k3/8/8/8/8/5N2/8/1N2K3 w - - 0 1")
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		board := start.Copy()
		if _, err := Apply(board, "Nbd2"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkIsInCheck(b *testing.B) {
	board, _ := NewBoardFromFEN("r1bqkb1r/pppp1Qpp/2n2n2/4p3/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 0 4")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		IsInCheck(board, chess.Black)
	}
}
