// Package eco provides ECO (Encyclopaedia of Chess Openings) classification.
package eco

import (
	"fmt"
	"io"
	"os"

	"github.com/lgbarn/chessql-go/internal/chess"
	"github.com/lgbarn/chessql-go/internal/engine"
	"github.com/lgbarn/chessql-go/internal/hashing"
	"github.com/lgbarn/chessql-go/internal/parser"
	"github.com/lgbarn/chessql-go/internal/pgnsource"
	"github.com/lgbarn/chessql-go/internal/replay"
)

// HalfMoveLimit is how far past the deepest book line a game is searched.
const HalfMoveLimit = 6

// Entry is one book line.
type Entry struct {
	Code    string
	Opening string
	Plies   int
}

// Book maps positions reached by book lines to their classification.
// It is read-only after loading and safe for concurrent use.
type Book struct {
	entries  map[uint64]Entry
	maxPlies int
}

// NewBook creates an empty book.
func NewBook() *Book {
	return &Book{entries: make(map[uint64]Entry), maxPlies: HalfMoveLimit}
}

// LoadFile reads a book from a PGN file.
func LoadFile(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open ECO file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads a book from PGN. Each game needs an ECO tag; its Opening tag
// names the line. Lines with unreadable moves are skipped.
func Load(r io.Reader) (*Book, error) {
	games, _, err := pgnsource.New(pgnsource.Defaults{}).Read(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing ECO file: %w", err)
	}
	b := NewBook()
	for _, g := range games {
		b.add(g)
	}
	return b, nil
}

func (b *Book) add(g *chess.Game) {
	if g.ECO == "" {
		return
	}
	rep := replay.Replay(g.Moves, g.InitialFEN)
	if rep.Partial() || rep.Degraded || len(rep.Events) == 0 {
		return
	}

	key := positionKey(rep.Final)
	// First line to reach a position wins.
	if _, ok := b.entries[key]; ok {
		return
	}
	plies := len(rep.Events)
	b.entries[key] = Entry{Code: g.ECO, Opening: g.Opening, Plies: plies}
	b.maxPlies = max(b.maxPlies, plies+HalfMoveLimit)
}

// Len returns the number of distinct book positions.
func (b *Book) Len() int {
	return len(b.entries)
}

// Classify replays movetext and returns the deepest book position it
// passes through. Transpositions match.
func (b *Book) Classify(movetext, initialFEN string) (Entry, bool) {
	if len(b.entries) == 0 {
		return Entry{}, false
	}
	board, err := engine.NewBoardForGame(initialFEN)
	if err != nil {
		return Entry{}, false
	}

	var (
		best  Entry
		found bool
		plies int
	)
	for _, tok := range parser.NewLexer(movetext).Tokens() {
		if tok.Type != parser.MoveToken {
			continue
		}
		if _, err := engine.Apply(board, tok.Text); err != nil {
			break
		}
		plies++
		if plies > b.maxPlies {
			break
		}
		if e, ok := b.entries[positionKey(board)]; ok {
			best, found = e, true
		}
	}
	return best, found
}

// positionKey ignores the en passant square so that a double pawn push
// transposes with the same position reached by other move orders.
func positionKey(board *chess.Board) uint64 {
	ep := board.EnPassant
	board.EnPassant = chess.NoSquare
	key := hashing.Key(board)
	board.EnPassant = ep
	return key
}
