package chess

import "strings"

// CastlingRights is a bit set of the four castling options.
type CastlingRights uint8

const (
	WhiteKingside CastlingRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)

// Has reports whether every right in r is present.
func (c CastlingRights) Has(r CastlingRights) bool {
	return c&r == r
}

// Board holds piece placement and the state needed to interpret moves.
// Squares holds coloured pieces; Empty marks a vacant square.
type Board struct {
	Squares [BoardSize * BoardSize]Piece

	// Who has the next move.
	ToMove Colour

	// The current full-move number.
	MoveNumber int

	Castling CastlingRights

	// Square a pawn may capture onto en passant, or NoSquare.
	EnPassant Square

	// The half-move clock since the last pawn move or capture.
	HalfmoveClock int
}

// NewBoard creates a new empty board with White to move.
func NewBoard() *Board {
	return &Board{
		ToMove:     White,
		MoveNumber: 1,
		EnPassant:  NoSquare,
	}
}

// NewInitialBoard creates a board with the standard starting position.
func NewInitialBoard() *Board {
	b := NewBoard()
	b.SetupInitialPosition()
	return b
}

// SetupInitialPosition sets up the standard chess starting position.
func (b *Board) SetupInitialPosition() {
	for i := range b.Squares {
		b.Squares[i] = Empty
	}

	backRank := []Piece{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for file := 0; file < BoardSize; file++ {
		b.Set(NewSquare(file, 0), W(backRank[file]))
		b.Set(NewSquare(file, 1), W(Pawn))
		b.Set(NewSquare(file, 6), B(Pawn))
		b.Set(NewSquare(file, 7), B(backRank[file]))
	}

	b.ToMove = White
	b.MoveNumber = 1
	b.Castling = AllCastling
	b.EnPassant = NoSquare
	b.HalfmoveClock = 0
}

// Get returns the coloured piece on sq, or Empty.
func (b *Board) Get(sq Square) Piece {
	if !sq.Valid() {
		return Empty
	}
	return b.Squares[sq]
}

// Set places a coloured piece on sq.
func (b *Board) Set(sq Square, piece Piece) {
	if sq.Valid() {
		b.Squares[sq] = piece
	}
}

// Copy creates a deep copy of the board.
func (b *Board) Copy() *Board {
	newBoard := &Board{}
	*newBoard = *b
	return newBoard
}

// KingSquare returns the square of the given colour's king, or NoSquare.
func (b *Board) KingSquare(colour Colour) Square {
	king := MakeColouredPiece(colour, King)
	for sq := Square(0); sq < 64; sq++ {
		if b.Squares[sq] == king {
			return sq
		}
	}
	return NoSquare
}

// Material returns the summed piece values for one colour.
func (b *Board) Material(colour Colour) int {
	total := 0
	for _, p := range b.Squares {
		if p != Empty && ExtractColour(p) == colour {
			total += ExtractPiece(p).Value()
		}
	}
	return total
}

// Placement returns the FEN piece-placement field for the board.
func (b *Board) Placement() string {
	var sb strings.Builder
	for rank := BoardSize - 1; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < BoardSize; file++ {
			p := b.Get(NewSquare(file, rank))
			if p == Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			letter := ExtractPiece(p).Letter()
			if ExtractColour(p) == Black {
				letter += 'a' - 'A'
			}
			sb.WriteByte(letter)
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}
