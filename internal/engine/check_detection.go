package engine

import "github.com/lgbarn/chessql-go/internal/chess"

var (
	knightSteps  = [][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingSteps    = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	diagonalDirs = [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	straightDirs = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
)

// IsInCheck returns true if the given colour's king is attacked. A board
// without that king is never in check.
func IsInCheck(board *chess.Board, colour chess.Colour) bool {
	king := board.KingSquare(colour)
	if king == chess.NoSquare {
		return false
	}
	return IsSquareAttacked(board, king, colour.Opposite())
}

// IsSquareAttacked returns true if sq is attacked by the given colour.
func IsSquareAttacked(board *chess.Board, sq chess.Square, byColour chess.Colour) bool {
	// A white pawn attacks from the rank below, a black pawn from above.
	pawn := chess.MakeColouredPiece(byColour, chess.Pawn)
	back := -chess.ColourOffset(byColour)
	if board.Get(sq.Offset(-1, back)) == pawn || board.Get(sq.Offset(1, back)) == pawn {
		return true
	}

	if attackedByStep(board, sq, knightSteps, chess.MakeColouredPiece(byColour, chess.Knight)) {
		return true
	}
	if attackedByStep(board, sq, kingSteps, chess.MakeColouredPiece(byColour, chess.King)) {
		return true
	}

	queen := chess.MakeColouredPiece(byColour, chess.Queen)
	if attackedBySlider(board, sq, diagonalDirs, chess.MakeColouredPiece(byColour, chess.Bishop), queen) {
		return true
	}
	return attackedBySlider(board, sq, straightDirs, chess.MakeColouredPiece(byColour, chess.Rook), queen)
}

func attackedByStep(board *chess.Board, sq chess.Square, steps [][2]int, attacker chess.Piece) bool {
	for _, s := range steps {
		if from := sq.Offset(s[0], s[1]); from != chess.NoSquare && board.Get(from) == attacker {
			return true
		}
	}
	return false
}

func attackedBySlider(board *chess.Board, sq chess.Square, dirs [][2]int, slider, queen chess.Piece) bool {
	for _, dir := range dirs {
		for cur := sq.Offset(dir[0], dir[1]); cur != chess.NoSquare; cur = cur.Offset(dir[0], dir[1]) {
			piece := board.Get(cur)
			if piece == chess.Empty {
				continue
			}
			if piece == slider || piece == queen {
				return true
			}
			break // blocked
		}
	}
	return false
}
