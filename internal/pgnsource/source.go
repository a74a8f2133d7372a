// Package pgnsource reads PGN files into game records for ingestion.
package pgnsource

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	refchess "github.com/notnil/chess"

	"github.com/lgbarn/chessql-go/internal/chess"
	"github.com/lgbarn/chessql-go/internal/errors"
)

// namespace seeds deterministic game ids so that re-reading the same file
// replaces games instead of duplicating them.
var namespace = uuid.MustParse("7c1f3a52-9d0e-4c4b-8f57-2b8e6d0a91c4")

// Defaults fills the fields PGN headers do not carry.
type Defaults struct {
	AccountID       string
	Platform        string
	ReferencePlayer string
}

// Option configures a Source.
type Option func(*Source)

// WithStrict makes the source reject games that a full legality check
// cannot replay. By default such games are kept and their unreadable moves
// become replay warnings at ingestion.
func WithStrict(strict bool) Option {
	return func(s *Source) { s.strict = strict }
}

// Source splits a PGN stream into games.
type Source struct {
	defaults Defaults
	strict   bool
}

// New creates a source stamping every game with d.
func New(d Defaults, opts ...Option) *Source {
	s := &Source{defaults: d}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read returns every game in r. Games rejected by strict mode are returned
// as *errors.GameError values in rejected; err is set only when r itself
// fails.
func (s *Source) Read(r io.Reader) (games []*chess.Game, rejected []error, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	var (
		block   strings.Builder
		inMoves bool
		index   int
	)
	flush := func() {
		text := strings.TrimSpace(block.String())
		block.Reset()
		inMoves = false
		if text == "" {
			return
		}
		g, gerr := s.parse(text)
		if gerr != nil {
			rejected = append(rejected, &errors.GameError{Index: index, Err: gerr})
		} else {
			games = append(games, g)
		}
		index++
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// A tag line after movetext starts the next game.
		if strings.HasPrefix(line, "[") && inMoves {
			flush()
		}
		if line != "" && !strings.HasPrefix(line, "[") && !strings.HasPrefix(line, "%") {
			inMoves = true
		}
		block.WriteString(line)
		block.WriteString("\n")
	}
	flush()

	if err := scanner.Err(); err != nil {
		return games, rejected, fmt.Errorf("reading PGN: %w", err)
	}
	return games, rejected, nil
}

func (s *Source) parse(text string) (*chess.Game, error) {
	tags := make(map[string]string)
	var moves []string
	for _, line := range strings.Split(text, "\n") {
		if key, value, ok := tagPair(line); ok {
			tags[key] = value
			continue
		}
		if line != "" && !strings.HasPrefix(line, "%") {
			moves = append(moves, line)
		}
	}

	g := &chess.Game{
		AccountID:       s.defaults.AccountID,
		Platform:        s.defaults.Platform,
		ReferencePlayer: s.defaults.ReferencePlayer,
		Moves:           strings.Join(moves, " "),
		White:           tags["White"],
		Black:           tags["Black"],
		WhiteElo:        elo(tags["WhiteElo"]),
		BlackElo:        elo(tags["BlackElo"]),
		Result:          tags["Result"],
		DatePlayed:      date(tags["UTCDate"], tags["Date"]),
		Event:           known(tags["Event"]),
		Site:            known(tags["Site"]),
		Round:           known(tags["Round"]),
		ECO:             known(tags["ECO"]),
		Opening:         known(tags["Opening"]),
		TimeControl:     known(tags["TimeControl"]),
		Speed:           Speed(tags["TimeControl"]),
		Variant:         variant(tags["Variant"]),
		Termination:     known(tags["Termination"]),
		InitialFEN:      tags["FEN"],
		PlatformID:      platformID(tags),
	}
	if g.Result == "" {
		g.Result = "*"
	}

	key := g.PlatformID
	if key == "" {
		key = text
	}
	g.ID = uuid.NewSHA1(namespace, []byte(g.AccountID+"\x00"+g.Platform+"\x00"+key)).String()

	if s.strict {
		if err := verify(text); err != nil {
			return nil, fmt.Errorf("game %s: %w", g.ID, err)
		}
	}
	return g, nil
}

// verify replays the game with an independent move generator.
func verify(text string) error {
	if _, err := refchess.PGN(strings.NewReader(text)); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrBadNotation, err)
	}
	return nil
}

// tagPair parses a line of the form [Key "Value"].
func tagPair(line string) (key, value string, ok bool) {
	if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
		return "", "", false
	}
	body := strings.TrimSpace(line[1 : len(line)-1])
	sp := strings.IndexByte(body, ' ')
	if sp <= 0 {
		return "", "", false
	}
	key = body[:sp]
	value, err := strconv.Unquote(strings.TrimSpace(body[sp+1:]))
	if err != nil {
		value = strings.Trim(strings.TrimSpace(body[sp+1:]), `"`)
	}
	return key, value, true
}

func known(v string) string {
	if v == "?" || v == "-" {
		return ""
	}
	return v
}

func elo(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// date prefers the UTC date and rewrites PGN's 2024.01.31 form as
// 2024-01-31. Dates with unknown parts are dropped.
func date(values ...string) string {
	for _, v := range values {
		if v == "" || strings.Contains(v, "?") {
			continue
		}
		return strings.ReplaceAll(v, ".", "-")
	}
	return ""
}

func variant(v string) string {
	if v == "" {
		return "standard"
	}
	return strings.ToLower(v)
}

// platformID extracts the site's game id, for example the last path
// element of a lichess.org or chess.com game URL.
func platformID(tags map[string]string) string {
	if id := tags["GameId"]; id != "" {
		return id
	}
	for _, key := range []string{"Link", "Site"} {
		v := tags[key]
		if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
			continue
		}
		v = strings.TrimRight(v, "/")
		if i := strings.LastIndexByte(v, '/'); i >= 0 && i < len(v)-1 {
			return v[i+1:]
		}
	}
	return ""
}

// Speed classifies a TimeControl tag the way lichess does: the estimated
// duration is the base time plus forty increments.
func Speed(timeControl string) string {
	switch timeControl {
	case "", "?":
		return ""
	case "-":
		return "correspondence"
	}
	parts := strings.SplitN(timeControl, "+", 2)
	base, err := strconv.Atoi(parts[0])
	if err != nil {
		return ""
	}
	inc := 0
	if len(parts) == 2 {
		if inc, err = strconv.Atoi(parts[1]); err != nil {
			return ""
		}
	}
	switch estimate := base + 40*inc; {
	case estimate < 30:
		return "ultrabullet"
	case estimate < 180:
		return "bullet"
	case estimate < 480:
		return "blitz"
	case estimate < 1500:
		return "rapid"
	default:
		return "classical"
	}
}
