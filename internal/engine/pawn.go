package engine

import (
	"fmt"

	"github.com/lgbarn/chessql-go/internal/chess"
	"github.com/lgbarn/chessql-go/internal/errors"
)

// findPawnSources returns the squares a pawn of the side to move could have
// come from. A capture also reports whether it is en passant.
func findPawnSources(board *chess.Board, move *chess.Move) ([]chess.Square, bool, error) {
	colour := board.ToMove
	to := move.To
	pawn := chess.MakeColouredPiece(colour, chess.Pawn)
	direction := chess.ColourOffset(colour)
	target := board.Get(to)

	if move.FromFile >= 0 {
		from := chess.NewSquare(move.FromFile, to.Rank()-direction)
		if from == chess.NoSquare || abs(move.FromFile-to.File()) != 1 || board.Get(from) != pawn {
			return nil, false, nil
		}
		switch {
		case target != chess.Empty && chess.ExtractColour(target) != colour:
			return []chess.Square{from}, false, nil
		case target == chess.Empty && to == board.EnPassant:
			return []chess.Square{from}, true, nil
		case target == chess.Empty:
			return nil, false, &errors.IllegalDestinationError{Move: move.Text, Reason: fmt.Sprintf("nothing to capture on %s", to)}
		}
		return nil, false, nil
	}

	if target != chess.Empty {
		return nil, false, &errors.IllegalDestinationError{Move: move.Text, Reason: fmt.Sprintf("%s is occupied", to)}
	}

	one := to.Offset(0, -direction)
	if board.Get(one) == pawn {
		return []chess.Square{one}, false, nil
	}

	// Double push from the starting rank.
	startRank := 1
	if colour == chess.Black {
		startRank = chess.BoardSize - 2
	}
	two := to.Offset(0, -2*direction)
	if two != chess.NoSquare && two.Rank() == startRank && board.Get(two) == pawn && board.Get(one) == chess.Empty {
		return []chess.Square{two}, false, nil
	}

	return nil, false, nil
}

// lastRank returns the promotion rank for a colour.
func lastRank(colour chess.Colour) int {
	if colour == chess.White {
		return chess.BoardSize - 1
	}
	return 0
}
