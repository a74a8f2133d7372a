package engine

import (
	"fmt"

	"github.com/lgbarn/chessql-go/internal/chess"
	"github.com/lgbarn/chessql-go/internal/errors"
	"github.com/lgbarn/chessql-go/internal/parser"
)

// Apply decodes a SAN token and applies it to the board for the side to
// move. On error the board is left unchanged.
func Apply(board *chess.Board, san string) (chess.MoveEvent, error) {
	return ApplyMove(board, parser.DecodeMove(san))
}

// ApplyMove applies a decoded move and returns the resulting event. The
// event's Ply is left for the caller to number.
//
// Source squares are found from occupancy and the notation's hints. Check
// and pin legality is consulted only to break a tie between candidates.
func ApplyMove(board *chess.Board, move *chess.Move) (chess.MoveEvent, error) {
	if move == nil {
		return chess.MoveEvent{}, fmt.Errorf("nil move: %w", errors.ErrBadNotation)
	}

	var (
		event chess.MoveEvent
		err   error
	)

	switch move.Class {
	case chess.NullMove:
		event = newEvent(board, move)
		board.EnPassant = chess.NoSquare
		board.HalfmoveClock++

	case chess.KingsideCastle, chess.QueensideCastle:
		event, err = applyCastle(board, move)

	case chess.PawnMove, chess.PawnMoveWithPromotion, chess.EnPassantPawnMove:
		event, err = applyPawnMove(board, move)

	case chess.PieceMove:
		event, err = applyPieceMove(board, move)

	default:
		return chess.MoveEvent{}, fmt.Errorf("%q: %w", move.Text, errors.ErrBadNotation)
	}
	if err != nil {
		return chess.MoveEvent{}, err
	}

	if board.ToMove == chess.Black {
		board.MoveNumber++
	}
	board.ToMove = board.ToMove.Opposite()

	event.Mate = move.CheckStatus == chess.Checkmate
	event.Check = event.Mate || IsInCheck(board, board.ToMove)
	return event, nil
}

func newEvent(board *chess.Board, move *chess.Move) chess.MoveEvent {
	return chess.MoveEvent{
		MoveNumber:    board.MoveNumber,
		Side:          board.ToMove,
		SAN:           move.Text,
		Piece:         move.PieceToMove,
		From:          chess.NoSquare,
		To:            move.To,
		CaptureSquare: chess.NoSquare,
	}
}

func applyPawnMove(board *chess.Board, move *chess.Move) (chess.MoveEvent, error) {
	colour := board.ToMove
	to := move.To

	sources, enPassant, err := findPawnSources(board, move)
	if err != nil {
		return chess.MoveEvent{}, err
	}
	from, err := resolveCandidates(board, move, sources)
	if err != nil {
		return chess.MoveEvent{}, err
	}

	promotion := move.PromotedPiece
	if to.Rank() == lastRank(colour) {
		if promotion == chess.Empty {
			promotion = chess.Queen
		}
	} else if promotion != chess.Empty {
		return chess.MoveEvent{}, &errors.IllegalDestinationError{
			Move:   move.Text,
			Reason: fmt.Sprintf("promotion on %s is not the last rank", to),
		}
	}

	event := newEvent(board, move)
	event.From = from
	event.Promotion = promotion

	captureSquare := to
	if enPassant {
		captureSquare = to.Offset(0, -chess.ColourOffset(colour))
	}
	if captured := board.Get(captureSquare); captured != chess.Empty {
		event.Captured = chess.ExtractPiece(captured)
		event.CaptureSquare = captureSquare
		updateCastlingRightsForSquare(board, captureSquare)
	}

	board.Set(captureSquare, chess.Empty)
	board.Set(from, chess.Empty)
	if promotion != chess.Empty {
		board.Set(to, chess.MakeColouredPiece(colour, promotion))
	} else {
		board.Set(to, chess.MakeColouredPiece(colour, chess.Pawn))
	}

	board.EnPassant = chess.NoSquare
	if abs(to.Rank()-from.Rank()) == 2 {
		board.EnPassant = from.Offset(0, chess.ColourOffset(colour))
	}
	board.HalfmoveClock = 0

	return event, nil
}

func applyPieceMove(board *chess.Board, move *chess.Move) (chess.MoveEvent, error) {
	colour := board.ToMove
	to := move.To

	target := board.Get(to)
	if target != chess.Empty && chess.ExtractColour(target) == colour {
		return chess.MoveEvent{}, &errors.IllegalDestinationError{
			Move:   move.Text,
			Reason: fmt.Sprintf("%s is occupied by own piece", to),
		}
	}
	if move.CaptureMarked && target == chess.Empty {
		return chess.MoveEvent{}, &errors.IllegalDestinationError{
			Move:   move.Text,
			Reason: fmt.Sprintf("nothing to capture on %s", to),
		}
	}

	from, err := resolveCandidates(board, move, findPieceSources(board, move))
	if err != nil {
		return chess.MoveEvent{}, err
	}

	event := newEvent(board, move)
	event.From = from
	if target != chess.Empty {
		event.Captured = chess.ExtractPiece(target)
		event.CaptureSquare = to
	}

	piece := board.Get(from)
	board.Set(from, chess.Empty)
	board.Set(to, piece)

	if move.PieceToMove == chess.King {
		clearCastlingRights(board, colour)
	}
	updateCastlingRightsForSquare(board, from)
	updateCastlingRightsForSquare(board, to)

	board.EnPassant = chess.NoSquare
	if target != chess.Empty {
		board.HalfmoveClock = 0
	} else {
		board.HalfmoveClock++
	}

	return event, nil
}

// findPieceSources lists every square holding a piece of the moving type
// that matches the hints and can reach the destination.
func findPieceSources(board *chess.Board, move *chess.Move) []chess.Square {
	piece := chess.MakeColouredPiece(board.ToMove, move.PieceToMove)

	var sources []chess.Square
	for sq := chess.Square(0); sq < chess.BoardSize*chess.BoardSize; sq++ {
		if board.Get(sq) != piece {
			continue
		}
		if move.FromFile >= 0 && sq.File() != move.FromFile {
			continue
		}
		if move.FromRank >= 0 && sq.Rank() != move.FromRank {
			continue
		}
		if canPieceMove(board, move.PieceToMove, sq, move.To) {
			sources = append(sources, sq)
		}
	}
	return sources
}

// resolveCandidates narrows candidate sources to exactly one. When several
// remain, those that would leave the mover's king attacked are dropped.
func resolveCandidates(board *chess.Board, move *chess.Move, sources []chess.Square) (chess.Square, error) {
	if len(sources) > 1 {
		var legal []chess.Square
		for _, from := range sources {
			if !leavesKingInCheck(board, from, move.To) {
				legal = append(legal, from)
			}
		}
		sources = legal
	}

	switch len(sources) {
	case 1:
		return sources[0], nil
	case 0:
		return chess.NoSquare, &errors.IllegalDestinationError{
			Move:   move.Text,
			Reason: fmt.Sprintf("no %s %s can reach %s", board.ToMove, move.PieceToMove, move.To),
		}
	}

	candidates := make([]string, len(sources))
	for i, sq := range sources {
		candidates[i] = sq.String()
	}
	return chess.NoSquare, &errors.AmbiguousMoveError{Move: move.Text, Candidates: candidates}
}

func leavesKingInCheck(board *chess.Board, from, to chess.Square) bool {
	trial := board.Copy()
	trial.Set(to, trial.Get(from))
	trial.Set(from, chess.Empty)
	return IsInCheck(trial, board.ToMove)
}
