// Package cql parses chessql query text: SQL-shaped relational clauses mixed
// with parenthesised chess phrases such as "(queen sacrificed before move 20)".
package cql

import (
	"strings"
	"unicode"
)

// TokenType represents the type of a lexical token.
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Delimiters
	LPAREN // (
	RPAREN // )
	COMMA  // ,
	STAR   // *
	MINUS  // -

	// Literals
	IDENT  // keywords, field names, player names
	NUMBER // 10, 1500, 2.5
	STRING // 'Carlsen' or "Carlsen"

	// Operators
	EQ  // = or ==
	NEQ // != or <>
	LT  // <
	GT  // >
	LE  // <=
	GE  // >=
)

var tokenNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	LPAREN:  "LPAREN",
	RPAREN:  "RPAREN",
	COMMA:   "COMMA",
	STAR:    "STAR",
	MINUS:   "MINUS",
	IDENT:   "IDENT",
	NUMBER:  "NUMBER",
	STRING:  "STRING",
	EQ:      "EQ",
	NEQ:     "NEQ",
	LT:      "LT",
	GT:      "GT",
	LE:      "LE",
	GE:      "GE",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsComparison reports whether t is a relational operator.
func (t TokenType) IsComparison() bool {
	switch t {
	case EQ, NEQ, LT, GT, LE, GE:
		return true
	}
	return false
}

// Token represents a lexical token. Pos and End are byte offsets into the
// query text; for strings they include the quotes.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int
	End     int
}

// Is reports whether the token is the given keyword, ignoring case.
func (t Token) Is(keyword string) bool {
	return t.Type == IDENT && strings.EqualFold(t.Literal, keyword)
}

// Lexer tokenizes query text.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // next reading position
	ch      byte // current character
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) skipWhitespace() {
	for isWhitespace(l.ch) {
		l.readChar()
	}
}

// NextToken returns the next token from the input. An unterminated string
// comes back as ILLEGAL spanning to the end of input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	tok := Token{Pos: l.pos}

	switch l.ch {
	case 0:
		tok.Type = EOF
		tok.Pos = len(l.input)
		tok.End = len(l.input)
		return tok
	case '(':
		tok.Type, tok.Literal = LPAREN, "("
		l.readChar()
	case ')':
		tok.Type, tok.Literal = RPAREN, ")"
		l.readChar()
	case ',':
		tok.Type, tok.Literal = COMMA, ","
		l.readChar()
	case '*':
		tok.Type, tok.Literal = STAR, "*"
		l.readChar()
	case '-':
		tok.Type, tok.Literal = MINUS, "-"
		l.readChar()
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok.Type, tok.Literal = LE, "<="
		case '>':
			l.readChar()
			tok.Type, tok.Literal = NEQ, "<>"
		default:
			tok.Type, tok.Literal = LT, "<"
		}
		l.readChar()
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = GE, ">="
		} else {
			tok.Type, tok.Literal = GT, ">"
		}
		l.readChar()
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
		}
		tok.Type, tok.Literal = EQ, "="
		l.readChar()
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = NEQ, "!="
		} else {
			tok.Type, tok.Literal = ILLEGAL, "!"
		}
		l.readChar()
	case '\'', '"':
		return l.readString()
	default:
		switch {
		case isDigit(l.ch):
			tok.Type = NUMBER
			tok.Literal = l.readNumber()
		case isIdentStart(l.ch):
			tok.Type = IDENT
			tok.Literal = l.readIdent()
		default:
			tok.Type = ILLEGAL
			tok.Literal = string(l.ch)
			l.readChar()
		}
	}

	tok.End = l.pos
	return tok
}

// Tokens returns every token up to and including EOF.
func (l *Lexer) Tokens() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens
		}
	}
}

// readString reads a quoted string. A doubled quote inside the string
// stands for one quote character.
func (l *Lexer) readString() Token {
	quote := l.ch
	start := l.pos
	l.readChar()

	var sb strings.Builder
	for {
		switch {
		case l.ch == 0:
			return Token{Type: ILLEGAL, Literal: l.input[start:], Pos: start, End: len(l.input)}
		case l.ch == quote && l.peekChar() == quote:
			sb.WriteByte(quote)
			l.readChar()
			l.readChar()
		case l.ch == quote:
			l.readChar()
			return Token{Type: STRING, Literal: sb.String(), Pos: start, End: l.pos}
		default:
			sb.WriteByte(l.ch)
			l.readChar()
		}
	}
}

func (l *Lexer) readNumber() string {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.pos]
}

// readIdent reads a keyword, field or bare player name. Hyphens and dots
// are kept when they join two name characters, as in "magnus-c".
func (l *Lexer) readIdent() string {
	start := l.pos
	for {
		switch {
		case isIdentChar(l.ch):
			l.readChar()
		case (l.ch == '-' || l.ch == '.') && isIdentChar(l.peekChar()):
			l.readChar()
		default:
			return l.input[start:l.pos]
		}
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || unicode.IsLetter(rune(ch)) || ch >= 0x80
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}
