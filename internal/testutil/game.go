package testutil

import (
	"github.com/lgbarn/chessql-go/internal/chess"
)

// Movetext fixtures used across packages.
const (
	// Captures at 3...exd4, 4.Nxd4, 6.Nxc6 and 6...bxc6.
	ScoutingGame = "1. e4 e5 2. Nf3 Nc6 3. d4 exd4 4. Nxd4 Nf6 5. Nc3 Bb4 6. Nxc6 bxc6"

	// Short mate with no captures.
	ScholarsMate = "1. e4 e5 2. Bc4 Nc6 3. Qh5 Nf6 4. Qxf7#"

	// Same opening as ScoutingGame without numbers.
	BareScoutingGame = "e4 e5 Nf3 Nc6 d4 exd4 Nxd4 Nf6 Nc3 Bb4 Nxc6 bxc6"
)

// GameOption customises a fixture game.
type GameOption func(*chess.Game)

// WithPlayers sets both player names.
func WithPlayers(white, black string) GameOption {
	return func(g *chess.Game) {
		g.White = white
		g.Black = black
	}
}

// WithResult sets the PGN result.
func WithResult(result string) GameOption {
	return func(g *chess.Game) { g.Result = result }
}

// WithReference sets the reference player.
func WithReference(player string) GameOption {
	return func(g *chess.Game) { g.ReferencePlayer = player }
}

// WithScope sets the owning account and platform.
func WithScope(account, platform string) GameOption {
	return func(g *chess.Game) {
		g.AccountID = account
		g.Platform = platform
	}
}

// WithFEN sets a custom initial position.
func WithFEN(fen string) GameOption {
	return func(g *chess.Game) { g.InitialFEN = fen }
}

// WithElo sets both ratings.
func WithElo(white, black int) GameOption {
	return func(g *chess.Game) {
		g.WhiteElo = white
		g.BlackElo = black
	}
}

// WithDate sets the date the game was played.
func WithDate(date string) GameOption {
	return func(g *chess.Game) { g.DatePlayed = date }
}

// NewGame builds a game record with sensible defaults for tests.
func NewGame(id, moves string, opts ...GameOption) *chess.Game {
	g := &chess.Game{
		ID:              id,
		AccountID:       "acct-1",
		Platform:        "lichess",
		Moves:           moves,
		White:           "alice",
		Black:           "bob",
		Result:          "*",
		ReferencePlayer: "alice",
		Variant:         "standard",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}
