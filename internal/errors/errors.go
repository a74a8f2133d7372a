// Package errors provides sentinel errors and error types for chessql.
// Query errors (syntax, unknown field) and move errors carry their location;
// operational errors are the only ones a caller should retry.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions.
// Use these with errors.Is() to check for specific error types.
var (
	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrBadNotation indicates a move token that is not algebraic notation.
	ErrBadNotation = errors.New("unrecognised move notation")

	// ErrAmbiguousMove indicates more than one piece matches a move.
	ErrAmbiguousMove = errors.New("ambiguous move")

	// ErrIllegalDestination indicates no piece can reach the destination.
	ErrIllegalDestination = errors.New("illegal destination")

	// ErrQuerySyntax indicates a malformed query.
	ErrQuerySyntax = errors.New("query syntax error")

	// ErrUnknownField indicates a relational field outside the games schema.
	ErrUnknownField = errors.New("unknown field")

	// ErrStoreUnavailable indicates the game store could not be reached.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrQueryTimeout indicates a query exceeded its deadline.
	ErrQueryTimeout = errors.New("query timed out")

	// ErrInvalidConfig indicates invalid configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrGameNotFound indicates a lookup for a game id that is not stored.
	ErrGameNotFound = errors.New("game not found")
)

// SyntaxError is a query grammar violation. Pos and End are byte offsets
// into the query text.
type SyntaxError struct {
	Msg      string
	Pos      int
	End      int
	Fragment string
}

func (e *SyntaxError) Error() string {
	if e.Fragment != "" {
		return fmt.Sprintf("syntax error at position %d near %q: %s", e.Pos, e.Fragment, e.Msg)
	}
	return fmt.Sprintf("syntax error at position %d: %s", e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return ErrQuerySyntax
}

// UnknownFieldError is a relational comparison against a column that is
// not part of the games schema.
type UnknownFieldError struct {
	Field string
	Pos   int
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q at position %d", e.Field, e.Pos)
}

func (e *UnknownFieldError) Unwrap() error {
	return ErrUnknownField
}

// AmbiguousMoveError is returned when several pieces could make a move.
type AmbiguousMoveError struct {
	Move       string
	Candidates []string
}

func (e *AmbiguousMoveError) Error() string {
	return fmt.Sprintf("ambiguous move %q: candidates %s", e.Move, strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousMoveError) Unwrap() error {
	return ErrAmbiguousMove
}

// IllegalDestinationError is returned when no piece can make a move.
type IllegalDestinationError struct {
	Move   string
	Reason string
}

func (e *IllegalDestinationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("illegal destination for %q", e.Move)
	}
	return fmt.Sprintf("illegal destination for %q: %s", e.Move, e.Reason)
}

func (e *IllegalDestinationError) Unwrap() error {
	return ErrIllegalDestination
}

// ReplayWarning records a move token the interpreter skipped.
type ReplayWarning struct {
	Ply        int
	MoveNumber int
	Side       string
	Token      string
	Err        error
}

func (w *ReplayWarning) Error() string {
	return fmt.Sprintf("ply %d (move %d %s) %q skipped: %v", w.Ply, w.MoveNumber, w.Side, w.Token, w.Err)
}

func (w *ReplayWarning) Unwrap() error {
	return w.Err
}

// GameError wraps errors with the game they belong to.
type GameError struct {
	Err    error
	GameID string
	Index  int // 0-based position in the ingested batch
}

func (e *GameError) Error() string {
	var parts []string
	if e.GameID != "" {
		parts = append(parts, fmt.Sprintf("game %s", e.GameID))
	}
	parts = append(parts, fmt.Sprintf("batch index %d", e.Index))
	context := strings.Join(parts, ", ")
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", context, e.Err)
	}
	return context
}

// Unwrap returns the underlying error, enabling errors.Is() and errors.As()
// to work through the GameError wrapper.
func (e *GameError) Unwrap() error {
	return e.Err
}

// OperationalError is a failure of the store or the execution environment
// rather than of the query itself.
type OperationalError struct {
	Op  string
	Err error
}

func (e *OperationalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationalError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is an operational error.
func IsRetryable(err error) bool {
	var op *OperationalError
	return errors.As(err, &op)
}

// IsQueryError reports whether err is a syntax or unknown-field error.
func IsQueryError(err error) bool {
	return errors.Is(err, ErrQuerySyntax) || errors.Is(err, ErrUnknownField)
}

// Is, As and New re-export the standard library so callers can import a
// single errors package.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

func New(text string) error { return errors.New(text) }

// Wrap adds context to an error while preserving the underlying error
// for inspection with errors.Is() and errors.As().
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf adds formatted context to an error while preserving the underlying
// error for inspection with errors.Is() and errors.As().
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}
