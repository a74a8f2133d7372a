// Package engine applies SAN moves to a board and reads and writes FEN.
package engine

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/lgbarn/chessql-go/internal/chess"
	"github.com/lgbarn/chessql-go/internal/errors"
)

// InitialFEN is the FEN string for the standard starting position.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// NewBoardFromFEN creates a board from a FEN string. Only the placement
// field is required; missing trailing fields take starting defaults.
func NewBoardFromFEN(fen string) (*chess.Board, error) {
	parts := strings.Fields(fen)
	if len(parts) < 1 {
		return nil, fmt.Errorf("empty FEN string: %w", errors.ErrInvalidFEN)
	}

	board := chess.NewBoard()

	if err := parsePiecePositions(board, parts[0]); err != nil {
		return nil, err
	}
	if err := parseSideToMove(board, parts); err != nil {
		return nil, err
	}
	if err := parseCastlingRights(board, parts); err != nil {
		return nil, err
	}
	if err := parseEnPassant(board, parts); err != nil {
		return nil, err
	}
	if err := parseClocks(board, parts); err != nil {
		return nil, err
	}

	return board, nil
}

// parsePiecePositions parses the piece placement field. Every rank must
// account for exactly eight files and each side needs exactly one king.
func parsePiecePositions(board *chess.Board, positions string) error {
	ranks := strings.Split(positions, "/")
	if len(ranks) != chess.BoardSize {
		return fmt.Errorf("placement has %d ranks: %w", len(ranks), errors.ErrInvalidFEN)
	}

	kings := map[chess.Colour]int{}
	for i, row := range ranks {
		rank := chess.BoardSize - 1 - i
		file := 0
		for _, c := range row {
			switch {
			case c >= '1' && c <= '8':
				file += int(c - '0')
			default:
				piece := chess.PieceFromLetter(byte(c))
				if piece == chess.Empty || c > unicode.MaxASCII {
					return fmt.Errorf("invalid piece character %q: %w", c, errors.ErrInvalidFEN)
				}
				if file >= chess.BoardSize {
					return fmt.Errorf("rank %d overflows: %w", rank+1, errors.ErrInvalidFEN)
				}
				colour := chess.White
				if unicode.IsLower(c) {
					colour = chess.Black
				}
				if piece == chess.King {
					kings[colour]++
				}
				board.Set(chess.NewSquare(file, rank), chess.MakeColouredPiece(colour, piece))
				file++
			}
		}
		if file != chess.BoardSize {
			return fmt.Errorf("rank %d has %d files: %w", rank+1, file, errors.ErrInvalidFEN)
		}
	}

	if kings[chess.White] != 1 || kings[chess.Black] != 1 {
		return fmt.Errorf("each side needs one king: %w", errors.ErrInvalidFEN)
	}
	return nil
}

func parseSideToMove(board *chess.Board, parts []string) error {
	if len(parts) < 2 {
		return nil
	}
	switch parts[1] {
	case "w":
		board.ToMove = chess.White
	case "b":
		board.ToMove = chess.Black
	default:
		return fmt.Errorf("invalid side to move: %s: %w", parts[1], errors.ErrInvalidFEN)
	}
	return nil
}

func parseCastlingRights(board *chess.Board, parts []string) error {
	board.Castling = chess.NoCastling
	if len(parts) < 3 {
		board.Castling = chess.AllCastling
		return nil
	}
	if parts[2] == "-" {
		return nil
	}
	for _, c := range parts[2] {
		switch c {
		case 'K':
			board.Castling |= chess.WhiteKingside
		case 'Q':
			board.Castling |= chess.WhiteQueenside
		case 'k':
			board.Castling |= chess.BlackKingside
		case 'q':
			board.Castling |= chess.BlackQueenside
		default:
			return fmt.Errorf("invalid castling field %q: %w", parts[2], errors.ErrInvalidFEN)
		}
	}
	return nil
}

func parseEnPassant(board *chess.Board, parts []string) error {
	board.EnPassant = chess.NoSquare
	if len(parts) < 4 || parts[3] == "-" {
		return nil
	}
	sq := chess.ParseSquare(parts[3])
	if sq == chess.NoSquare || (sq.Rank() != 2 && sq.Rank() != 5) {
		return fmt.Errorf("invalid en passant square %q: %w", parts[3], errors.ErrInvalidFEN)
	}
	board.EnPassant = sq
	return nil
}

func parseClocks(board *chess.Board, parts []string) error {
	if len(parts) >= 5 {
		n, err := strconv.Atoi(parts[4])
		if err != nil || n < 0 {
			return fmt.Errorf("invalid halfmove clock %q: %w", parts[4], errors.ErrInvalidFEN)
		}
		board.HalfmoveClock = n
	}
	if len(parts) >= 6 {
		n, err := strconv.Atoi(parts[5])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid move number %q: %w", parts[5], errors.ErrInvalidFEN)
		}
		board.MoveNumber = n
	}
	return nil
}

// BoardToFEN converts a board to a FEN string.
func BoardToFEN(board *chess.Board) string {
	var sb strings.Builder

	sb.WriteString(board.Placement())
	sb.WriteByte(' ')
	if board.ToMove == chess.White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	writeCastlingRights(&sb, board.Castling)
	sb.WriteByte(' ')
	sb.WriteString(board.EnPassant.String())
	fmt.Fprintf(&sb, " %d %d", board.HalfmoveClock, board.MoveNumber)

	return sb.String()
}

func writeCastlingRights(sb *strings.Builder, rights chess.CastlingRights) {
	if rights == chess.NoCastling {
		sb.WriteByte('-')
		return
	}
	flags := []struct {
		right  chess.CastlingRights
		letter byte
	}{
		{chess.WhiteKingside, 'K'},
		{chess.WhiteQueenside, 'Q'},
		{chess.BlackKingside, 'k'},
		{chess.BlackQueenside, 'q'},
	}
	for _, f := range flags {
		if rights.Has(f.right) {
			sb.WriteByte(f.letter)
		}
	}
}

// NewBoardForGame returns the board a game starts from. An empty FEN gives
// the standard position; an unreadable one gives the standard position and
// the parse error so the caller can mark the game degraded.
func NewBoardForGame(fen string) (*chess.Board, error) {
	if strings.TrimSpace(fen) == "" {
		return chess.NewInitialBoard(), nil
	}
	board, err := NewBoardFromFEN(fen)
	if err != nil {
		return chess.NewInitialBoard(), err
	}
	return board, nil
}
