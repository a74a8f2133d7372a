// Package replay drives the board across a game's movetext and collects
// the resulting move events.
package replay

import (
	"fmt"
	"io"

	"github.com/lgbarn/chessql-go/internal/chess"
	"github.com/lgbarn/chessql-go/internal/engine"
	"github.com/lgbarn/chessql-go/internal/errors"
	"github.com/lgbarn/chessql-go/internal/parser"
)

// Result is the outcome of replaying one game.
type Result struct {
	// Events in play order. Skipped tokens produce no event, so Ply values
	// may have gaps.
	Events []chess.MoveEvent

	// One warning per skipped token.
	Warnings []*errors.ReplayWarning

	// Degraded is set when the custom initial position could not be read
	// and the standard position was used instead. FENError holds the cause.
	Degraded bool
	FENError error

	// Numbered reports whether the movetext carried move numbers.
	Numbered bool

	// Termination result token, if the movetext ended with one.
	Result string

	// Plies counts every move token, including skipped ones.
	Plies int

	Final *chess.Board
}

// Partial reports whether any token was skipped.
func (r *Result) Partial() bool {
	return len(r.Warnings) > 0
}

// Replay interprets movetext from the given initial position (empty means
// the standard position). It never fails: unreadable tokens become
// warnings and an unreadable position falls back to the standard one.
func Replay(movetext, initialFEN string) *Result {
	board, fenErr := engine.NewBoardForGame(initialFEN)

	res := &Result{
		Degraded: fenErr != nil,
		FENError: fenErr,
	}

	tokens := parser.NewLexer(movetext).Tokens()
	res.Numbered = parser.HasMoveNumbers(tokens)

	for _, tok := range tokens {
		switch tok.Type {
		case parser.MoveNumber:
			// Markers are trusted over the running count.
			board.MoveNumber = tok.MoveNum
			if tok.BlackToMove {
				board.ToMove = chess.Black
			} else {
				board.ToMove = chess.White
			}

		case parser.MoveToken:
			res.Plies++
			side, number := board.ToMove, board.MoveNumber

			ev, err := engine.Apply(board, tok.Text)
			if err != nil {
				res.Warnings = append(res.Warnings, &errors.ReplayWarning{
					Ply:        res.Plies,
					MoveNumber: number,
					Side:       side.String(),
					Token:      tok.Text,
					Err:        err,
				})
				skipTurn(board)
				continue
			}
			ev.Ply = res.Plies
			res.Events = append(res.Events, ev)

		case parser.TerminatingResult:
			res.Result = tok.Text
		}

		if res.Result != "" {
			break
		}
	}

	res.Final = board
	return res
}

// skipTurn passes the move to the other side without touching occupancy.
func skipTurn(board *chess.Board) {
	if board.ToMove == chess.Black {
		board.MoveNumber++
	}
	board.ToMove = board.ToMove.Opposite()
	board.EnPassant = chess.NoSquare
}

// WriteEvents writes one line per event in a stable text form.
func WriteEvents(w io.Writer, events []chess.MoveEvent) error {
	for _, ev := range events {
		line := fmt.Sprintf("ply=%d move=%d side=%s san=%s piece=%s from=%s to=%s",
			ev.Ply, ev.MoveNumber, ev.Side, ev.SAN, ev.Piece, ev.From, ev.To)
		if ev.IsCapture() {
			line += fmt.Sprintf(" captured=%s@%s", ev.Captured, ev.CaptureSquare)
		}
		if ev.IsPromotion() {
			line += " promotion=" + ev.Promotion.String()
		}
		switch ev.Castle {
		case chess.CastleKingside:
			line += " castle=kingside"
		case chess.CastleQueenside:
			line += " castle=queenside"
		}
		if ev.Mate {
			line += " mate"
		} else if ev.Check {
			line += " check"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
