package classify

import (
	"testing"

	"github.com/lgbarn/chessql-go/internal/chess"
	"github.com/lgbarn/chessql-go/internal/engine"
	"github.com/lgbarn/chessql-go/internal/errors"
	"github.com/lgbarn/chessql-go/internal/replay"
	"github.com/lgbarn/chessql-go/internal/testutil"
)

func classifyMoves(t *testing.T, moves, fen string) *Result {
	t.Helper()
	rep := replay.Replay(moves, fen)
	if rep.Partial() {
		t.Fatalf("replay of %q skipped tokens: %v", moves, rep.Warnings)
	}
	return Classify(rep.Events, "alice", DefaultPolicy())
}

func TestClassify_ScenarioExchanges(t *testing.T) {
	res := classifyMoves(t, testutil.ScoutingGame, "")

	type summary struct {
		Move     int
		Side     chess.Colour
		Piece    chess.Piece
		Captured chess.Piece
		Square   string
		Exchange bool
		Sacrif   bool
	}
	var got []summary
	for _, c := range res.Captures {
		got = append(got, summary{c.MoveNumber, c.Side, c.Piece, c.Captured, c.To.String(), c.IsExchange, c.IsSacrifice})
	}

	want := []summary{
		{3, chess.Black, chess.Pawn, chess.Pawn, "d4", true, false},
		{4, chess.White, chess.Knight, chess.Pawn, "d4", true, false},
		{6, chess.White, chess.Knight, chess.Knight, "c6", true, false},
		{6, chess.Black, chess.Pawn, chess.Knight, "c6", true, false},
	}
	testutil.AssertEqual(t, got, want)

	for _, c := range res.Captures {
		testutil.AssertEqual(t, c.ReferencePlayer, "alice")
	}
}

func TestClassify_BishopSacrifice(t *testing.T) {
	res := classifyMoves(t, "1. e4 e5 2. Bc4 Nc6 3. Bxf7+ Kxf7 4. Nf3 d6 5. d3 h6", "")

	if len(res.Captures) != 2 {
		t.Fatalf("len(Captures) = %d, want 2", len(res.Captures))
	}
	sac, reply := res.Captures[0], res.Captures[1]

	testutil.AssertTrue(t, sac.IsSacrifice, "Bxf7+ should be a sacrifice")
	testutil.AssertFalse(t, sac.IsExchange, "Bxf7+ is not an exchange")
	testutil.AssertEqual(t, sac.PieceValue, 3)
	testutil.AssertEqual(t, sac.CapturedValue, 1)

	testutil.AssertFalse(t, reply.IsSacrifice, "Kxf7 wins material")
	testutil.AssertEqual(t, reply.Piece, chess.King)
	testutil.AssertEqual(t, reply.PieceValue, 0)
	testutil.AssertEqual(t, len(res.Ambiguities), 0)
}

func TestClassify_RecoveredMaterialIsNotSacrifice(t *testing.T) {
	// 3.Nxe5 drops a knight for a pawn; 5.Qxe5+ wins a pawn back on ply 9.
	const moves = "1. e4 e5 2. Nf3 d6 3. Nxe5 dxe5 4. Qh5 Nc6 5. Qxe5+ Be7"

	res := classifyMoves(t, moves, "")
	first := res.Captures[0]
	testutil.AssertEqual(t, first.SAN, "Nxe5")
	testutil.AssertFalse(t, first.IsExchange, "knight for pawn is not comparable")
	testutil.AssertFalse(t, first.IsSacrifice, "deficit is one pawn after four plies")

	short := DefaultPolicy()
	short.SacrificeWindow = 3
	rep := replay.Replay(moves, "")
	res = Classify(rep.Events, "alice", short)
	testutil.AssertTrue(t, res.Captures[0].IsSacrifice, "still two down after three plies")
}

func TestClassify_WindowBoundaries(t *testing.T) {
	// Nxd5 answers exd5 three plies later.
	const delayed = "1. e4 d5 2. exd5 Nf6 3. Nc3 Nxd5"

	rep := replay.Replay(delayed, "")
	res := Classify(rep.Events, "", DefaultPolicy())
	testutil.AssertFalse(t, res.Captures[0].IsExchange, "recapture outside default window")
	testutil.AssertFalse(t, res.Captures[1].IsExchange, "recapture outside default window")

	wide := DefaultPolicy()
	wide.RecaptureWindow = 3
	res = Classify(rep.Events, "", wide)
	testutil.AssertTrue(t, res.Captures[0].IsExchange, "exd5 inside a three-ply window")
	testutil.AssertTrue(t, res.Captures[1].IsExchange, "Nxd5 inside a three-ply window")

	rep = replay.Replay("1. e4 d5 2. exd5 Qxd5 3. Nc3 Qa5", "")
	res = Classify(rep.Events, "", DefaultPolicy())
	testutil.AssertTrue(t, res.Captures[0].IsExchange, "pawn for pawn on d5")
	testutil.AssertTrue(t, res.Captures[1].IsExchange, "Qxd5 answers exd5")
}

func TestClassify_Ambiguities(t *testing.T) {
	res := classifyMoves(t, testutil.ScholarsMate, "")

	if len(res.Captures) != 1 {
		t.Fatalf("len(Captures) = %d, want 1", len(res.Captures))
	}
	testutil.AssertFalse(t, res.Captures[0].IsSacrifice, "last-move capture defaults to no sacrifice")
	testutil.AssertEqual(t, len(res.Ambiguities), 1)
	testutil.AssertEqual(t, res.Ambiguities[0].Ply, 7)

	res = classifyMoves(t, "1. e4 d5 2. Qg4 Bxg4 3. a3", "")
	testutil.AssertFalse(t, res.Captures[0].IsSacrifice, "Bxg4 gains material")
	testutil.AssertEqual(t, len(res.Ambiguities), 1, "truncated window")
}

func TestClassify_PromotionTally(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		moves  string
		queens int
		knight int
	}{
		{"two queens", "4k3/PP6/8/8/8/8/8/4K3 w - - 0 1", "1. a8=Q+ Kd7 2. b8=Q Ke6", 2, 0},
		{"one queen", "4k3/PP6/8/8/8/8/8/4K3 w - - 0 1", "1. a8=Q+ Kd7 2. Kd2 Ke6", 1, 0},
		{"queen and knight", "4k3/PP6/8/8/8/8/8/4K3 w - - 0 1", "1. a8=Q+ Kd7 2. b8=N+ Ke6", 1, 1},
		{"none", "", testutil.ScoutingGame, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := classifyMoves(t, tt.moves, tt.fen)
			testutil.AssertEqual(t, res.Tally[PromotionKey{Side: chess.White, Piece: chess.Queen}], tt.queens)
			testutil.AssertEqual(t, res.Tally[PromotionKey{Side: chess.White, Piece: chess.Knight}], tt.knight)
			testutil.AssertEqual(t, res.Tally[PromotionKey{Side: chess.Black, Piece: chess.Queen}], 0)
			testutil.AssertEqual(t, len(res.Promotions), tt.queens+tt.knight)
		})
	}
}

// The captured total always equals what left the board: the starting
// material minus the final material plus whatever promotions added.
func TestClassify_CapturedValueBound(t *testing.T) {
	games := []struct {
		moves string
		fen   string
	}{
		{testutil.ScoutingGame, ""},
		{testutil.ScholarsMate, ""},
		{"1. e4 e5 2. Bc4 Nc6 3. Bxf7+ Kxf7 4. Nf3 d6 5. d3 h6", ""},
		{"1. e4 d5 2. exd5 Qxd5 3. Nc3 Qa5", ""},
		{"1. a8=Q+ Kd7 2. Qxh8 Ke6", "4k2r/P7/8/8/8/8/8/4K3 w - - 0 1"},
	}

	for _, g := range games {
		start, _ := engine.NewBoardForGame(g.fen)
		startMaterial := start.Material(chess.White) + start.Material(chess.Black)

		rep := replay.Replay(g.moves, g.fen)
		res := Classify(rep.Events, "", DefaultPolicy())

		endMaterial := rep.Final.Material(chess.White) + rep.Final.Material(chess.Black)
		gain := 0
		for _, p := range res.Promotions {
			gain += p.Piece.Value() - chess.Pawn.Value()
		}

		removed := startMaterial - endMaterial + gain
		if res.CapturedValue() > removed {
			t.Errorf("%q: captured %d > removed %d", g.moves, res.CapturedValue(), removed)
		}
		testutil.AssertEqual(t, res.CapturedValue(), removed, g.moves)
	}
}

func TestClassify_PureFunction(t *testing.T) {
	rep := replay.Replay(testutil.ScoutingGame, "")
	a := Classify(rep.Events, "alice", DefaultPolicy())
	b := Classify(rep.Events, "alice", DefaultPolicy())
	testutil.AssertEqual(t, a, b)
}

func TestPolicyValidate(t *testing.T) {
	testutil.AssertNoError(t, DefaultPolicy().Validate())

	bad := []Policy{
		{RecaptureWindow: 0, SacrificeWindow: 4, SacrificeThreshold: 2},
		{RecaptureWindow: 2, SacrificeWindow: 0, SacrificeThreshold: 2},
		{RecaptureWindow: 2, SacrificeWindow: 4, SacrificeThreshold: 0},
		{RecaptureWindow: 2, SacrificeWindow: 4, SacrificeThreshold: 2, ExchangeTolerance: -1},
	}
	for _, p := range bad {
		testutil.AssertErrorIs(t, p.Validate(), errors.ErrInvalidConfig, "%+v", p)
	}
}
