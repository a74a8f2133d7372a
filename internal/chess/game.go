package chess

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Game is an ingested game record. It is immutable once stored and is only
// ever replaced as a whole by re-ingestion.
type Game struct {
	ID         string
	AccountID  string
	Platform   string
	PlatformID string

	// Player whose perspective classification was computed under.
	ReferencePlayer string

	// Movetext in numbered or bare SAN form.
	Moves string

	// Optional custom initial position.
	InitialFEN string

	White    string
	Black    string
	WhiteElo int
	BlackElo int
	Result   string

	DatePlayed  string
	Event       string
	Site        string
	Round       string
	ECO         string
	Opening     string
	TimeControl string
	Speed       string
	Variant     string
	Termination string

	CreatedAt time.Time
}

// Outcome of a game from one player's point of view.
const (
	OutcomeWin     = "win"
	OutcomeLoss    = "loss"
	OutcomeDraw    = "draw"
	OutcomeUnknown = "unknown"
)

// Outcomes maps the PGN result to per-side outcomes.
func (g *Game) Outcomes() (white, black string) {
	switch strings.TrimSpace(g.Result) {
	case "1-0":
		return OutcomeWin, OutcomeLoss
	case "0-1":
		return OutcomeLoss, OutcomeWin
	case "1/2-1/2", "½-½":
		return OutcomeDraw, OutcomeDraw
	}
	return OutcomeUnknown, OutcomeUnknown
}

// ReferenceSide returns the colour played by the reference player.
func (g *Game) ReferenceSide() (Colour, bool) {
	ref := NormalizeName(g.ReferencePlayer)
	if ref == "" {
		return White, false
	}
	switch {
	case strings.EqualFold(ref, NormalizeName(g.White)):
		return White, true
	case strings.EqualFold(ref, NormalizeName(g.Black)):
		return Black, true
	}
	return White, false
}

// NormalizeName canonicalises a player name for storage and comparison.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
