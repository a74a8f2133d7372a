package parser

import (
	"strings"

	"github.com/lgbarn/chessql-go/internal/chess"
)

// isCol returns true if c is a valid file character.
func isCol(c byte) bool {
	return c >= 'a' && c <= 'h'
}

// isRank returns true if c is a valid rank character.
func isRank(c byte) bool {
	return c >= '1' && c <= '8'
}

// isPiece returns the piece type named by an upper-case SAN letter.
func isPiece(c byte) chess.Piece {
	switch c {
	case 'K':
		return chess.King
	case 'Q':
		return chess.Queen
	case 'R':
		return chess.Rook
	case 'N':
		return chess.Knight
	case 'B':
		return chess.Bishop
	}
	return chess.Empty
}

// isPromotionPiece also accepts lower-case letters after '='.
func isPromotionPiece(c byte) chess.Piece {
	switch c {
	case 'q':
		return chess.Queen
	case 'r':
		return chess.Rook
	case 'n':
		return chess.Knight
	case 'b':
		return chess.Bishop
	}
	p := isPiece(c)
	if p == chess.King {
		return chess.Empty
	}
	return p
}

// isCapture returns true if c is a capture or separator character.
func isCapture(c byte) bool {
	return c == 'x' || c == 'X' || c == ':'
}

// isCastlingChar returns true if c is a castling character.
func isCastlingChar(c byte) bool {
	return c == 'O' || c == '0' || c == 'o'
}

// isCheck returns true if c is a check indicator.
func isCheck(c byte) bool {
	return c == '+' || c == '#'
}

// isAnnotation returns true for trailing move assessment glyphs.
func isAnnotation(c byte) bool {
	return c == '!' || c == '?'
}

func square(col, rank byte) chess.Square {
	return chess.NewSquare(int(col-'a'), int(rank-'1'))
}

// DecodeMove parses a SAN token into a Move. Tokens that cannot be read
// come back with Class UnknownMove.
func DecodeMove(moveString string) *chess.Move {
	move := chess.NewMove()
	move.Text = moveString

	class := chess.UnknownMove
	ok := true
	pos := 0

	currentChar := func() byte {
		if pos >= len(moveString) {
			return 0
		}
		return moveString[pos]
	}

	advance := func() {
		if pos < len(moveString) {
			pos++
		}
	}

	switch c := currentChar(); {
	case isCol(c):
		// Pawn move: e4, exd5, ed5, e8=Q, exd6 e.p.
		class = chess.PawnMove
		move.PieceToMove = chess.Pawn
		col := c
		advance()

		if isRank(currentChar()) {
			move.To = square(col, currentChar())
			advance()
		} else {
			if isCapture(currentChar()) {
				move.CaptureMarked = true
				advance()
			}
			if isCol(currentChar()) && isRank(nextByte(moveString, pos)) {
				toCol := currentChar()
				if toCol != col+1 && toCol != col-1 {
					ok = false
				}
				move.FromFile = int(col - 'a')
				move.To = square(toCol, nextByte(moveString, pos))
				move.CaptureMarked = true
				advance()
				advance()
			} else {
				ok = false
			}
		}

		if ok {
			if currentChar() == '=' || currentChar() == '/' {
				advance()
			}
			if piece := isPromotionPiece(currentChar()); piece != chess.Empty {
				class = chess.PawnMoveWithPromotion
				move.PromotedPiece = piece
				advance()
			}
		}

	case isPiece(c) != chess.Empty:
		class = chess.PieceMove
		move.PieceToMove = isPiece(c)
		advance()

		// Collect up to two disambiguation characters and the destination,
		// then split them from the right.
		var coords []byte
		for {
			ch := currentChar()
			if isCapture(ch) || ch == '-' {
				if isCapture(ch) {
					move.CaptureMarked = true
				}
				advance()
				continue
			}
			if isCol(ch) || isRank(ch) {
				coords = append(coords, ch)
				advance()
				continue
			}
			break
		}

		n := len(coords)
		if n < 2 || n > 4 || !isCol(coords[n-2]) || !isRank(coords[n-1]) {
			ok = false
			break
		}
		move.To = square(coords[n-2], coords[n-1])
		for _, h := range coords[:n-2] {
			switch {
			case isCol(h) && move.FromFile < 0:
				move.FromFile = int(h - 'a')
			case isRank(h) && move.FromRank < 0:
				move.FromRank = int(h - '1')
			default:
				ok = false
			}
		}

	case isCastlingChar(c):
		advance()
		if currentChar() == '-' {
			advance()
		}
		if !isCastlingChar(currentChar()) {
			ok = false
			break
		}
		advance()
		class = chess.KingsideCastle
		if currentChar() == '-' && isCastlingChar(nextByte(moveString, pos)) {
			advance()
		}
		if isCastlingChar(currentChar()) {
			class = chess.QueensideCastle
			advance()
		}
		move.PieceToMove = chess.King

	default:
		if moveString == chess.NullMoveString {
			class = chess.NullMove
		} else {
			ok = false
		}
	}

	if ok && class != chess.NullMove {
		for isCheck(currentChar()) {
			if currentChar() == '#' {
				move.CheckStatus = chess.Checkmate
			} else if move.CheckStatus == chess.NoCheck {
				move.CheckStatus = chess.Check
			}
			advance()
		}
		for isAnnotation(currentChar()) {
			advance()
		}

		rest := strings.TrimSpace(moveString[pos:])
		switch {
		case rest == "":
		case (rest == "ep" || rest == "e.p.") && class == chess.PawnMove:
			class = chess.EnPassantPawnMove
		default:
			ok = false
		}
	}

	if !ok {
		class = chess.UnknownMove
	}
	move.Class = class

	return move
}

func nextByte(s string, pos int) byte {
	if pos+1 >= len(s) {
		return 0
	}
	return s[pos+1]
}
