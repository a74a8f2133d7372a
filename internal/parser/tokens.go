// Package parser reads movetext: it splits a game's move section into
// tokens and decodes individual SAN moves.
package parser

// TokenType represents the type of a movetext token.
type TokenType int

const (
	EOFToken TokenType = iota
	MoveNumber
	MoveToken
	TerminatingResult
)

var tokenTypeNames = [...]string{
	EOFToken:          "EOF",
	MoveNumber:        "MOVE_NUMBER",
	MoveToken:         "MOVE",
	TerminatingResult: "TERMINATING_RESULT",
}

// String returns the string representation of a token type.
func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return "UNKNOWN"
}

// Token is one lexical unit of movetext.
type Token struct {
	Type TokenType

	// Text holds the move or result text.
	Text string

	// MoveNum holds move numbers; BlackToMove is set for "12..." markers.
	MoveNum     int
	BlackToMove bool

	// Byte offset in the movetext.
	Pos int
}
