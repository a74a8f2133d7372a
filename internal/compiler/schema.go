// Package compiler turns a parsed chessql query into parameterised SQLite
// SQL over the games, captures and promotions tables.
package compiler

import "strings"

// Column is one relational field a query may reference.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Doc  string `json:"description"`
}

// Columns is the games schema visible to queries, in projection order.
var Columns = []Column{
	{"id", "TEXT", "game identifier"},
	{"account_id", "TEXT", "owning account"},
	{"platform", "TEXT", "source platform, e.g. lichess or chess.com"},
	{"platform_id", "TEXT", "game id on the source platform"},
	{"reference_player", "TEXT", "player classification was computed for"},
	{"white_player", "TEXT", "white player name"},
	{"black_player", "TEXT", "black player name"},
	{"white_elo", "INTEGER", "white rating"},
	{"black_elo", "INTEGER", "black rating"},
	{"result", "TEXT", "1-0, 0-1, 1/2-1/2 or *"},
	{"white_result", "TEXT", "win, loss, draw or unknown"},
	{"black_result", "TEXT", "win, loss, draw or unknown"},
	{"date_played", "TEXT", "date in YYYY-MM-DD form"},
	{"event", "TEXT", "event tag"},
	{"site", "TEXT", "site tag"},
	{"round", "TEXT", "round tag"},
	{"eco_code", "TEXT", "ECO opening code"},
	{"opening", "TEXT", "opening name"},
	{"time_control", "TEXT", "time control tag"},
	{"speed", "TEXT", "bullet, blitz, rapid, classical or correspondence"},
	{"variant", "TEXT", "chess variant"},
	{"termination", "TEXT", "termination reason"},
	{"ply_count", "INTEGER", "half-moves replayed"},
	{"partial_moves", "INTEGER", "1 when some move tokens were skipped"},
	{"degraded", "INTEGER", "1 when the initial position could not be read"},
	{"created_at", "TEXT", "ingestion time"},
}

var columnIndex = func() map[string]Column {
	m := make(map[string]Column, len(Columns))
	for _, c := range Columns {
		m[c.Name] = c
	}
	return m
}()

// LookupColumn finds a column by name, ignoring case.
func LookupColumn(name string) (Column, bool) {
	c, ok := columnIndex[strings.ToLower(name)]
	return c, ok
}

// nameColumns hold player names and compare case-insensitively.
var nameColumns = map[string]bool{
	"white_player":     true,
	"black_player":     true,
	"reference_player": true,
}
