package chess

// MoveClass categorizes different types of chess moves.
type MoveClass int

const (
	PawnMove MoveClass = iota
	PawnMoveWithPromotion
	EnPassantPawnMove
	PieceMove
	KingsideCastle
	QueensideCastle
	NullMove
	UnknownMove
)

// Move is a decoded notation token. Origin hints are -1 when the
// notation does not give them.
type Move struct {
	// The move text (e.g., "Nf3", "e4", "O-O").
	Text string

	Class MoveClass

	// Disambiguation hints from the notation.
	FromFile int
	FromRank int

	To Square

	// The piece being moved.
	PieceToMove Piece

	// The piece promoted to (Empty if not a promotion).
	PromotedPiece Piece

	// Whether the notation carried a capture marker.
	CaptureMarked bool

	// Check or mate suffix on the notation.
	CheckStatus CheckStatus
}

// NewMove creates a new empty move.
func NewMove() *Move {
	return &Move{
		FromFile:      -1,
		FromRank:      -1,
		To:            NoSquare,
		PromotedPiece: Empty,
		CheckStatus:   NoCheck,
	}
}

// IsPromotion returns true if this move is a pawn promotion.
func (m *Move) IsPromotion() bool {
	return m.Class == PawnMoveWithPromotion
}

// CastleSide records which way a king castled.
type CastleSide int

const (
	NoCastle CastleSide = iota
	CastleKingside
	CastleQueenside
)

// MoveEvent is the result of applying one move to a board.
type MoveEvent struct {
	// 1-based half-move index within the game.
	Ply        int
	MoveNumber int
	Side       Colour

	// SAN token as it appeared in the movetext.
	SAN string

	Piece Piece
	From  Square
	To    Square

	// Captured piece type, or Empty. CaptureSquare differs from To only
	// for en passant.
	Captured      Piece
	CaptureSquare Square

	// Promotion piece type, or Empty.
	Promotion Piece

	Castle CastleSide

	Check bool
	Mate  bool
}

// IsCapture reports whether the move removed an opposing piece.
func (e MoveEvent) IsCapture() bool {
	return e.Captured != Empty
}

// IsPromotion reports whether the move promoted a pawn.
func (e MoveEvent) IsPromotion() bool {
	return e.Promotion != Empty
}

// MaterialDelta returns the material change for the moving side caused by
// this move: captured value plus promotion gain.
func (e MoveEvent) MaterialDelta() int {
	delta := e.Captured.Value()
	if e.Promotion != Empty {
		delta += e.Promotion.Value() - Pawn.Value()
	}
	return delta
}
