package cql

import (
	"testing"
)

func TestLexerBasicTokens(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenType
	}{
		{"", []TokenType{EOF}},
		{"()", []TokenType{LPAREN, RPAREN, EOF}},
		{"white_elo >= 2000", []TokenType{IDENT, GE, NUMBER, EOF}},
		{"result != '1-0'", []TokenType{IDENT, NEQ, STRING, EOF}},
		{"a <> b", []TokenType{IDENT, NEQ, IDENT, EOF}},
		{"a == 1", []TokenType{IDENT, EQ, NUMBER, EOF}},
		{"a < 1 AND b <= 2 OR c > 3", []TokenType{IDENT, LT, NUMBER, IDENT, IDENT, LE, NUMBER, IDENT, IDENT, GT, NUMBER, EOF}},
		{"(queen sacrificed before move 20)", []TokenType{LPAREN, IDENT, IDENT, IDENT, IDENT, NUMBER, RPAREN, EOF}},
		{"SELECT COUNT(*), speed FROM games", []TokenType{IDENT, IDENT, LPAREN, STAR, RPAREN, COMMA, IDENT, IDENT, IDENT, EOF}},
		{"elo > -5", []TokenType{IDENT, GT, MINUS, NUMBER, EOF}},
		{"@", []TokenType{ILLEGAL, EOF}},
		{"!", []TokenType{ILLEGAL, EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer(tt.input)
			for i, expected := range tt.expected {
				tok := lexer.NextToken()
				if tok.Type != expected {
					t.Errorf("token %d: expected %v, got %v (literal: %q)", i, expected, tok.Type, tok.Literal)
				}
			}
		})
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input   string
		literal string
		end     int
	}{
		{"'Carlsen'", "Carlsen", 9},
		{`"Carlsen"`, "Carlsen", 9},
		{"'O''Brien'", "O'Brien", 10},
		{"''", "", 2},
	}
	for _, tt := range tests {
		tok := NewLexer(tt.input).NextToken()
		if tok.Type != STRING {
			t.Errorf("%s: expected STRING, got %v", tt.input, tok.Type)
			continue
		}
		if tok.Literal != tt.literal {
			t.Errorf("%s: literal = %q, want %q", tt.input, tok.Literal, tt.literal)
		}
		if tok.Pos != 0 || tok.End != tt.end {
			t.Errorf("%s: span = [%d,%d), want [0,%d)", tt.input, tok.Pos, tok.End, tt.end)
		}
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	tok := NewLexer("white_player = 'bob").Tokens()[2]
	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %v", tok.Type)
	}
	if tok.Pos != 15 || tok.End != 19 {
		t.Errorf("span = [%d,%d), want [15,19)", tok.Pos, tok.End)
	}
}

func TestLexerNamesAndNumbers(t *testing.T) {
	tokens := NewLexer("magnus-c x2 2.5 10").Tokens()
	want := []Token{
		{Type: IDENT, Literal: "magnus-c", Pos: 0, End: 8},
		{Type: IDENT, Literal: "x2", Pos: 9, End: 11},
		{Type: NUMBER, Literal: "2.5", Pos: 12, End: 15},
		{Type: NUMBER, Literal: "10", Pos: 16, End: 18},
		{Type: EOF, Pos: 18, End: 18},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens %+v, want %d", len(tokens), tokens, len(want))
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token %d = %+v, want %+v", i, tokens[i], want[i])
		}
	}
}

func TestLexerPositions(t *testing.T) {
	tokens := NewLexer("(alice won)").Tokens()
	spans := [][2]int{{0, 1}, {1, 6}, {7, 10}, {10, 11}, {11, 11}}
	for i, span := range spans {
		if tokens[i].Pos != span[0] || tokens[i].End != span[1] {
			t.Errorf("token %d %q span = [%d,%d), want [%d,%d)", i, tokens[i].Literal, tokens[i].Pos, tokens[i].End, span[0], span[1])
		}
	}
}

func TestTokenIsKeyword(t *testing.T) {
	tok := Token{Type: IDENT, Literal: "Select"}
	if !tok.Is("SELECT") {
		t.Error("keywords should match case-insensitively")
	}
	if (Token{Type: STRING, Literal: "select"}).Is("SELECT") {
		t.Error("a quoted string is never a keyword")
	}
}
