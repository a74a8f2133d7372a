package parser

import (
	"strconv"
	"strings"
)

// Lexer splits movetext into move numbers, moves and results. Comments,
// variations, NAGs and annotation glyphs are skipped.
type Lexer struct {
	text string
	pos  int
}

// NewLexer creates a lexer over one game's movetext.
func NewLexer(movetext string) *Lexer {
	return &Lexer{text: movetext}
}

func (l *Lexer) currentChar() byte {
	if l.pos >= len(l.text) {
		return 0
	}
	return l.text[l.pos]
}

func (l *Lexer) advance() {
	if l.pos < len(l.text) {
		l.pos++
	}
}

// NextToken returns the next token, or an EOFToken at the end of input.
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespace()
		ch := l.currentChar()
		switch {
		case ch == 0:
			return Token{Type: EOFToken, Pos: l.pos}
		case ch == '{':
			l.skipComment()
		case ch == ';':
			l.skipLine()
		case ch == '(':
			l.skipVariation()
		case ch == ')' || ch == '}':
			l.advance() // stray closer
		case ch == '$':
			l.advance()
			l.skipWhile(isDigit)
		case ch == '!' || ch == '?':
			l.skipWhile(func(c byte) bool { return c == '!' || c == '?' })
		case ch == '*':
			l.advance()
			return Token{Type: TerminatingResult, Text: "*", Pos: l.pos - 1}
		case isDigit(ch):
			return l.gatherNumeric()
		default:
			if tok, ok := l.gatherMove(); ok {
				return tok
			}
		}
	}
}

// Tokens returns every token up to end of input.
func (l *Lexer) Tokens() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == EOFToken {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) skipWhitespace() {
	l.skipWhile(func(c byte) bool {
		return c == ' ' || c == '\t' || c == '\n' || c == '\r'
	})
}

func (l *Lexer) skipWhile(pred func(byte) bool) {
	for l.pos < len(l.text) && pred(l.currentChar()) {
		l.advance()
	}
}

// skipComment consumes a brace comment, allowing nesting.
func (l *Lexer) skipComment() {
	depth := 0
	for l.pos < len(l.text) {
		switch l.currentChar() {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				l.advance()
				return
			}
		}
		l.advance()
	}
}

func (l *Lexer) skipLine() {
	l.skipWhile(func(c byte) bool { return c != '\n' })
}

// skipVariation consumes a parenthesised variation, including nested
// variations and comments inside it.
func (l *Lexer) skipVariation() {
	depth := 0
	for l.pos < len(l.text) {
		switch l.currentChar() {
		case '{':
			l.skipComment()
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				l.advance()
				return
			}
		}
		l.advance()
	}
}

// gatherNumeric reads a move number, a result, or digit-zero castling.
func (l *Lexer) gatherNumeric() Token {
	start := l.pos
	remaining := l.text[l.pos:]

	for _, result := range []string{"1/2-1/2", "1-0", "0-1", "½-½"} {
		if strings.HasPrefix(remaining, result) {
			l.pos += len(result)
			return Token{Type: TerminatingResult, Text: result, Pos: start}
		}
	}
	if strings.HasPrefix(remaining, "0-0") {
		tok, _ := l.gatherMove()
		return tok
	}

	l.skipWhile(isDigit)
	num, _ := strconv.Atoi(l.text[start:l.pos])
	dots := 0
	for l.currentChar() == '.' {
		dots++
		l.advance()
	}
	// Ellipsis as UTF-8 bytes.
	if strings.HasPrefix(l.text[l.pos:], "…") {
		l.pos += len("…")
		dots = 3
	}
	if dots == 0 {
		// A bare number is not movetext; treat it as a move token so the
		// interpreter reports it.
		return Token{Type: MoveToken, Text: l.text[start:l.pos], Pos: start}
	}
	return Token{Type: MoveNumber, MoveNum: num, BlackToMove: dots >= 3, Pos: start}
}

// gatherMove reads a move token up to the next delimiter. It reports false
// for tokens that are only annotation noise such as "e.p.".
func (l *Lexer) gatherMove() (Token, bool) {
	start := l.pos
	for l.pos < len(l.text) {
		c := l.currentChar()
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '{' || c == '(' || c == ')' || c == ';' || c == '$' {
			break
		}
		l.advance()
	}
	text := l.text[start:l.pos]
	if text == "e.p." || text == "ep" {
		return Token{}, false
	}
	return Token{Type: MoveToken, Text: text, Pos: start}, true
}

// HasMoveNumbers reports whether the movetext uses numbered form.
func HasMoveNumbers(tokens []Token) bool {
	for _, tok := range tokens {
		if tok.Type == MoveNumber {
			return true
		}
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
