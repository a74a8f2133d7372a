package chess

import (
	"testing"
)

func TestNewBoard(t *testing.T) {
	b := NewBoard()

	t.Run("initial state", func(t *testing.T) {
		if b.ToMove != White {
			t.Errorf("ToMove = %v; want white", b.ToMove)
		}
		if b.MoveNumber != 1 {
			t.Errorf("MoveNumber = %d; want 1", b.MoveNumber)
		}
		if b.EnPassant != NoSquare {
			t.Errorf("EnPassant = %v; want none", b.EnPassant)
		}
	})

	t.Run("all squares empty", func(t *testing.T) {
		for sq := Square(0); sq < 64; sq++ {
			if got := b.Get(sq); got != Empty {
				t.Errorf("Get(%v) = %v; want Empty", sq, got)
			}
		}
	})
}

func TestSetupInitialPosition(t *testing.T) {
	b := NewInitialBoard()

	tests := []struct {
		name  string
		sq    string
		piece Piece
	}{
		{"white rook a1", "a1", W(Rook)},
		{"white queen d1", "d1", W(Queen)},
		{"white king e1", "e1", W(King)},
		{"white pawn e2", "e2", W(Pawn)},
		{"black knight g8", "g8", B(Knight)},
		{"black pawn a7", "a7", B(Pawn)},
		{"empty e4", "e4", Empty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Get(ParseSquare(tt.sq)); got != tt.piece {
				t.Errorf("Get(%s) = %v; want %v", tt.sq, got, tt.piece)
			}
		})
	}

	if b.Castling != AllCastling {
		t.Errorf("Castling = %b; want %b", b.Castling, AllCastling)
	}
	if got := b.KingSquare(Black); got.String() != "e8" {
		t.Errorf("KingSquare(black) = %v; want e8", got)
	}
}

func TestSquareCoordinates(t *testing.T) {
	tests := []struct {
		in         string
		file, rank int
		valid      bool
	}{
		{"a1", 0, 0, true},
		{"h8", 7, 7, true},
		{"e4", 4, 3, true},
		{"i1", 0, 0, false},
		{"a9", 0, 0, false},
		{"e", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			sq := ParseSquare(tt.in)
			if sq.Valid() != tt.valid {
				t.Fatalf("ParseSquare(%q).Valid() = %v; want %v", tt.in, sq.Valid(), tt.valid)
			}
			if !tt.valid {
				return
			}
			if sq.File() != tt.file || sq.Rank() != tt.rank {
				t.Errorf("ParseSquare(%q) = (%d,%d); want (%d,%d)", tt.in, sq.File(), sq.Rank(), tt.file, tt.rank)
			}
			if sq.String() != tt.in {
				t.Errorf("String() = %q; want %q", sq.String(), tt.in)
			}
		})
	}

	if got := ParseSquare("h4").Offset(1, 0); got != NoSquare {
		t.Errorf("h4 offset off the board = %v; want none", got)
	}
}

func TestColouredPieceEncoding(t *testing.T) {
	for p := Pawn; p <= King; p++ {
		for _, c := range []Colour{White, Black} {
			cp := MakeColouredPiece(c, p)
			if ExtractPiece(cp) != p || ExtractColour(cp) != c {
				t.Errorf("round trip of %v %v = %v %v", c, p, ExtractColour(cp), ExtractPiece(cp))
			}
			if cp == Empty {
				t.Errorf("%v %v encodes as Empty", c, p)
			}
		}
	}
}

func TestMaterialAndPlacement(t *testing.T) {
	b := NewInitialBoard()
	if got := b.Material(White); got != 39 {
		t.Errorf("Material(white) = %d; want 39", got)
	}
	want := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"
	if got := b.Placement(); got != want {
		t.Errorf("Placement() = %q; want %q", got, want)
	}

	b.Set(ParseSquare("d8"), Empty)
	if got := b.Material(Black); got != 30 {
		t.Errorf("Material(black) without queen = %d; want 30", got)
	}
}

func TestParsePieceName(t *testing.T) {
	tests := []struct {
		in   string
		want Piece
		ok   bool
	}{
		{"queen", Queen, true},
		{"Queens", Queen, true},
		{"pawns", Pawn, true},
		{"KNIGHT", Knight, true},
		{"king", King, true},
		{"piece", Empty, false},
		{"dragon", Empty, false},
	}
	for _, tt := range tests {
		got, ok := ParsePieceName(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParsePieceName(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPieceValues(t *testing.T) {
	want := map[Piece]int{Pawn: 1, Knight: 3, Bishop: 3, Rook: 5, Queen: 9, King: 0}
	for p, v := range want {
		if got := p.Value(); got != v {
			t.Errorf("%v.Value() = %d; want %d", p, got, v)
		}
	}
}

func TestGameOutcomes(t *testing.T) {
	tests := []struct {
		result       string
		white, black string
	}{
		{"1-0", OutcomeWin, OutcomeLoss},
		{"0-1", OutcomeLoss, OutcomeWin},
		{"1/2-1/2", OutcomeDraw, OutcomeDraw},
		{"*", OutcomeUnknown, OutcomeUnknown},
	}
	for _, tt := range tests {
		g := &Game{Result: tt.result}
		w, b := g.Outcomes()
		if w != tt.white || b != tt.black {
			t.Errorf("Outcomes(%q) = %s, %s; want %s, %s", tt.result, w, b, tt.white, tt.black)
		}
	}
}

func TestReferenceSide(t *testing.T) {
	g := &Game{White: "lecorvus", Black: "Opponent", ReferencePlayer: "opponent"}
	side, ok := g.ReferenceSide()
	if !ok || side != Black {
		t.Errorf("ReferenceSide() = %v, %v; want black, true", side, ok)
	}

	g.ReferencePlayer = "nobody"
	if _, ok := g.ReferenceSide(); ok {
		t.Error("ReferenceSide() for a non-participant should be unknown")
	}
}

func TestSpeedFromTimeControl(t *testing.T) {
	tests := map[string]string{
		"15":      "ultrabullet",
		"60+0":    "bullet",
		"180+2":   "blitz",
		"600+5":   "rapid",
		"1800+20": "classical",
		"-":       "",
		"1/86400": "",
	}
	for in, want := range tests {
		if got := SpeedFromTimeControl(in); got != want {
			t.Errorf("SpeedFromTimeControl(%q) = %q; want %q", in, got, want)
		}
	}
}
