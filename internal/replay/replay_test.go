package replay

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/lgbarn/chessql-go/internal/chess"
	"github.com/lgbarn/chessql-go/internal/engine"
	"github.com/lgbarn/chessql-go/internal/errors"
	"github.com/lgbarn/chessql-go/internal/testutil"
)

func TestReplay_ScenarioGolden(t *testing.T) {
	res := Replay(testutil.ScoutingGame, "")
	testutil.AssertFalse(t, res.Partial(), "scenario should replay cleanly")
	testutil.AssertTrue(t, res.Numbered)

	var buf bytes.Buffer
	if err := WriteEvents(&buf, res.Events); err != nil {
		t.Fatalf("WriteEvents() error = %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "scouting_game", buf.Bytes())
}

func TestReplay_BareMatchesNumbered(t *testing.T) {
	numbered := Replay(testutil.ScoutingGame, "")
	bare := Replay(testutil.BareScoutingGame, "")

	testutil.AssertFalse(t, bare.Numbered)
	testutil.AssertEqual(t, bare.Events, numbered.Events)
	testutil.AssertEqual(t, bare.Final.Placement(), numbered.Final.Placement())
}

func TestReplay_CaptureEvents(t *testing.T) {
	res := Replay(testutil.ScoutingGame, "")

	type capture struct {
		Move  int
		Side  chess.Colour
		Piece chess.Piece
		Taken chess.Piece
		On    string
	}
	var got []capture
	for _, ev := range res.Events {
		if ev.IsCapture() {
			got = append(got, capture{ev.MoveNumber, ev.Side, ev.Piece, ev.Captured, ev.CaptureSquare.String()})
		}
	}

	want := []capture{
		{3, chess.Black, chess.Pawn, chess.Pawn, "d4"},
		{4, chess.White, chess.Knight, chess.Pawn, "d4"},
		{6, chess.White, chess.Knight, chess.Knight, "c6"},
		{6, chess.Black, chess.Pawn, chess.Knight, "c6"},
	}
	testutil.AssertEqual(t, got, want)
}

func TestReplay_SkipsBadTokens(t *testing.T) {
	res := Replay("1. e4 e5 2. Qh9 Nc6 3. Nf3 Zz 4. Bb5", "")

	if len(res.Warnings) != 2 {
		t.Fatalf("len(Warnings) = %d, want 2: %v", len(res.Warnings), res.Warnings)
	}
	w := res.Warnings[0]
	testutil.AssertEqual(t, w.Token, "Qh9")
	testutil.AssertEqual(t, w.Ply, 3)
	testutil.AssertEqual(t, w.MoveNumber, 2)
	testutil.AssertEqual(t, w.Side, "white")
	testutil.AssertErrorIs(t, w, errors.ErrBadNotation)

	testutil.AssertEqual(t, res.Warnings[1].Side, "black")
	testutil.AssertEqual(t, res.Warnings[1].Ply, 6)
	testutil.AssertTrue(t, res.Partial())

	// The remaining moves still replay.
	testutil.AssertEqual(t, len(res.Events), 5)
	testutil.AssertEqual(t, res.Plies, 7)
	last := res.Events[len(res.Events)-1]
	testutil.AssertEqual(t, last.SAN, "Bb5")
	testutil.AssertEqual(t, last.Ply, 7)
	testutil.AssertEqual(t, last.MoveNumber, 4)
}

func TestReplay_AmbiguousTokenIsWarning(t *testing.T) {
	res := Replay("Nd2 Ke7", "4k3/8/8/8/8/8/8/1N1K1N2 w - - 0 1")

	if len(res.Warnings) != 1 {
		t.Fatalf("len(Warnings) = %d, want 1", len(res.Warnings))
	}
	testutil.AssertErrorIs(t, res.Warnings[0], errors.ErrAmbiguousMove)
	testutil.AssertEqual(t, len(res.Events), 1)
	testutil.AssertEqual(t, res.Events[0].Side, chess.Black)
}

func TestReplay_DegradedFEN(t *testing.T) {
	res := Replay("1. e4 e5", "this is not a position")

	testutil.AssertTrue(t, res.Degraded)
	testutil.AssertErrorIs(t, res.FENError, errors.ErrInvalidFEN)
	testutil.AssertEqual(t, len(res.Events), 2)
	testutil.AssertFalse(t, res.Partial())
}

func TestReplay_CustomFEN(t *testing.T) {
	res := Replay("12... Kd7 13. Kf2", "4k3/8/8/8/8/8/8/4K3 b - - 0 12")

	testutil.AssertFalse(t, res.Degraded)
	testutil.AssertEqual(t, len(res.Events), 2)
	testutil.AssertEqual(t, res.Events[0].Side, chess.Black)
	testutil.AssertEqual(t, res.Events[0].MoveNumber, 12)
	testutil.AssertEqual(t, res.Events[1].MoveNumber, 13)
}

func TestReplay_StopsAtResult(t *testing.T) {
	res := Replay("1. e4 e5 1-0 2. Nf3", "")
	testutil.AssertEqual(t, res.Result, "1-0")
	testutil.AssertEqual(t, len(res.Events), 2)
}

func TestReplay_FinalBoardMatchesDirectApply(t *testing.T) {
	res := Replay(testutil.ScholarsMate, "")

	board := chess.NewInitialBoard()
	for _, san := range []string{"e4", "e5", "Bc4", "Nc6", "Qh5", "Nf6", "Qxf7#"} {
		if _, err := engine.Apply(board, san); err != nil {
			t.Fatalf("Apply(%q) error = %v", san, err)
		}
	}
	testutil.AssertEqual(t, engine.BoardToFEN(res.Final), engine.BoardToFEN(board))
	testutil.AssertTrue(t, res.Events[len(res.Events)-1].Mate)
}
