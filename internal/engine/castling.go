package engine

import (
	"github.com/lgbarn/chessql-go/internal/chess"
	"github.com/lgbarn/chessql-go/internal/errors"
)

// castleSquares returns the king and rook origin and target squares.
func castleSquares(colour chess.Colour, kingside bool) (kingFrom, kingTo, rookFrom, rookTo chess.Square) {
	rank := 0
	if colour == chess.Black {
		rank = chess.BoardSize - 1
	}
	kingFrom = chess.NewSquare(4, rank)
	if kingside {
		return kingFrom, chess.NewSquare(6, rank), chess.NewSquare(7, rank), chess.NewSquare(5, rank)
	}
	return kingFrom, chess.NewSquare(2, rank), chess.NewSquare(0, rank), chess.NewSquare(3, rank)
}

// applyCastle moves king and rook. It checks occupancy only: the king and
// rook must stand on their home squares with nothing between them.
func applyCastle(board *chess.Board, move *chess.Move) (chess.MoveEvent, error) {
	colour := board.ToMove
	kingside := move.Class == chess.KingsideCastle
	kingFrom, kingTo, rookFrom, rookTo := castleSquares(colour, kingside)

	king := chess.MakeColouredPiece(colour, chess.King)
	rook := chess.MakeColouredPiece(colour, chess.Rook)
	if board.Get(kingFrom) != king {
		return chess.MoveEvent{}, &errors.IllegalDestinationError{Move: move.Text, Reason: "king is not on its home square"}
	}
	if board.Get(rookFrom) != rook {
		return chess.MoveEvent{}, &errors.IllegalDestinationError{Move: move.Text, Reason: "no rook on " + rookFrom.String()}
	}
	if !isPathClear(board, kingFrom, rookFrom) {
		return chess.MoveEvent{}, &errors.IllegalDestinationError{Move: move.Text, Reason: "castling path is blocked"}
	}

	event := newEvent(board, move)
	event.Piece = chess.King
	event.From = kingFrom
	event.To = kingTo
	event.Castle = chess.CastleQueenside
	if kingside {
		event.Castle = chess.CastleKingside
	}

	board.Set(kingFrom, chess.Empty)
	board.Set(rookFrom, chess.Empty)
	board.Set(kingTo, king)
	board.Set(rookTo, rook)

	clearCastlingRights(board, colour)
	board.EnPassant = chess.NoSquare
	board.HalfmoveClock++

	return event, nil
}

// clearCastlingRights removes both castling rights of one colour.
func clearCastlingRights(board *chess.Board, colour chess.Colour) {
	if colour == chess.White {
		board.Castling &^= chess.WhiteKingside | chess.WhiteQueenside
	} else {
		board.Castling &^= chess.BlackKingside | chess.BlackQueenside
	}
}

// updateCastlingRightsForSquare removes the right tied to a rook home
// square when anything moves from or to it.
func updateCastlingRightsForSquare(board *chess.Board, sq chess.Square) {
	switch sq {
	case chess.NewSquare(0, 0):
		board.Castling &^= chess.WhiteQueenside
	case chess.NewSquare(7, 0):
		board.Castling &^= chess.WhiteKingside
	case chess.NewSquare(0, 7):
		board.Castling &^= chess.BlackQueenside
	case chess.NewSquare(7, 7):
		board.Castling &^= chess.BlackKingside
	}
}
