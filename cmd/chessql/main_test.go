package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lgbarn/chessql-go/internal/output"
)

// resetFlags restores every flag variable; cobra keeps them between runs.
func resetFlags() {
	configPath, dbPath, verbose = "", "", false
	ingestAccount, ingestPlatform, ingestPlayer = "", "", ""
	ingestWorkers, ingestStrict, ingestECOFile, ingestJSON = 0, false, "", false
	queryAccount, queryPlatform, queryPlayer = "", "", ""
	queryLimit, queryPage, queryOffset = 0, 1, -1
	queryCount, queryExplain, queryFormat = false, false, output.FormatTable
	replayFEN, replayPlayer = "", ""
	serveAddr = ""
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func ingestFixture(t *testing.T) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "cli.db")
	out, err := run(t, "ingest", "--db", db,
		"--account", "acct-1", "--platform", "lichess", "--player", "alice",
		filepath.Join("testdata", "games.pgn"))
	if err != nil {
		t.Fatalf("ingest error = %v\n%s", err, out)
	}
	want := "ingested 3 games (partial 1, degraded 0, failed 0, rejected 0, skipped moves 1)"
	if !strings.Contains(out, want) {
		t.Fatalf("ingest output = %q, want %q", out, want)
	}
	return db
}

func TestIngestAndQuery(t *testing.T) {
	db := ingestFixture(t)

	tests := []struct {
		query string
		want  string
	}{
		{"(won)", "2"},
		{"(lost)", "0"},
		{"(pawn promoted to queen x 2)", "1"},
		{"(knight exchanged)", "1"},
		{"partial_moves = 1", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			out, err := run(t, "query", "--db", db, "--account", "acct-1", "--platform", "lichess",
				"--player", "alice", "--count", tt.query)
			if err != nil {
				t.Fatalf("query error = %v", err)
			}
			if strings.TrimSpace(out) != tt.want {
				t.Errorf("count = %q, want %s", strings.TrimSpace(out), tt.want)
			}
		})
	}
}

func TestQuery_Table(t *testing.T) {
	db := ingestFixture(t)

	out, err := run(t, "query", "--db", db, "--limit", "1",
		"SELECT white_player, black_player FROM games WHERE (pawn exchanged)")
	if err != nil {
		t.Fatalf("query error = %v", err)
	}
	for _, want := range []string{"WHITE_PLAYER", "alice", "bob", "rows 1-1 of 1 (page 1 of 1)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestQuery_Explain(t *testing.T) {
	db := ingestFixture(t)

	out, err := run(t, "query", "--db", db, "--player", "alice", "--explain", "(queen sacrificed)")
	if err != nil {
		t.Fatalf("query error = %v", err)
	}
	for _, want := range []string{"SQL:", "Count:", "EXISTS", `"alice"`} {
		if !strings.Contains(out, want) {
			t.Errorf("explain output missing %q:\n%s", want, out)
		}
	}
}

func TestQuery_SyntaxError(t *testing.T) {
	db := ingestFixture(t)

	_, err := run(t, "query", "--db", db, "white_elo > 1500 AND (queen sacrificed")
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	if !strings.Contains(err.Error(), "^") {
		t.Errorf("error does not point at the token: %v", err)
	}
}

func TestQuery_BadFormat(t *testing.T) {
	db := ingestFixture(t)

	if _, err := run(t, "query", "--db", db, "--format", "xml", "(won)"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestSchema(t *testing.T) {
	out, err := run(t, "schema")
	if err != nil {
		t.Fatalf("schema error = %v", err)
	}
	for _, want := range []string{"FIELD", "white_elo", "INTEGER", "date_played"} {
		if !strings.Contains(out, want) {
			t.Errorf("schema output missing %q", want)
		}
	}
}

func TestReplay(t *testing.T) {
	out, err := run(t, "replay", "1. e4 e5 2. Bc4 Nc6 3. Bxf7+ Kxf7 4. Nf3 d6 5. d3 h6")
	if err != nil {
		t.Fatalf("replay error = %v", err)
	}
	for _, want := range []string{
		"ply=5 move=3 side=white",
		"bishop takes pawn (3 for 1) sacrifice",
		"captures 2, exchanges 0, sacrifices 1",
		"final material: white 36, black 38",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("replay output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "replay", "--fen", "4k3/PP6/8/8/8/8/8/4K3 w - - 0 1", "1. a8=Q+ Kd7 2. b8=Q Ke6")
	if err != nil {
		t.Fatalf("replay error = %v", err)
	}
	if strings.Count(out, "promotes to queen") != 2 {
		t.Errorf("want two queen promotions:\n%s", out)
	}
}
