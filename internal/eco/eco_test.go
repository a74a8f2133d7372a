package eco

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lgbarn/chessql-go/internal/testutil"
)

const testECOData = `
[ECO "B90"]
[Opening "Sicilian Defense: Najdorf Variation"]

1. e4 c5 2. Nf3 d6 3. d4 cxd4 4. Nxd4 Nf6 5. Nc3 a6 *

[ECO "C50"]
[Opening "Italian Game"]

1. e4 e5 2. Nf3 Nc6 3. Bc4 Bc5 *

[ECO "C44"]
[Opening "Scotch Game"]

1. e4 e5 2. Nf3 Nc6 3. d4 *

[ECO "C45"]
[Opening "Scotch Game"]

1. e4 e5 2. Nf3 Nc6 3. d4 exd4 4. Nxd4 *

[ECO "A46"]
[Opening "Indian Defense: Knights Variation"]

1. d4 Nf6 2. Nf3 *

[ECO "A00"]
[Opening "Broken Line"]

1. e4 Ke7 2. Qz9 *
`

func newTestBook(t *testing.T) *Book {
	t.Helper()
	b, err := Load(strings.NewReader(testECOData))
	if err != nil {
		t.Fatalf("failed to load ECO data: %v", err)
	}
	return b
}

func TestLoad(t *testing.T) {
	b := newTestBook(t)
	// The broken line is skipped.
	if b.Len() != 5 {
		t.Errorf("Len() = %d, want 5", b.Len())
	}
	if b.maxPlies != 10+HalfMoveLimit {
		t.Errorf("maxPlies = %d, want %d", b.maxPlies, 10+HalfMoveLimit)
	}
}

func TestClassify(t *testing.T) {
	b := newTestBook(t)

	tests := []struct {
		name    string
		moves   string
		code    string
		opening string
	}{
		{"exact najdorf", "1. e4 c5 2. Nf3 d6 3. d4 cxd4 4. Nxd4 Nf6 5. Nc3 a6 *", "B90", "Sicilian Defense: Najdorf Variation"},
		{"extends najdorf", "1. e4 c5 2. Nf3 d6 3. d4 cxd4 4. Nxd4 Nf6 5. Nc3 a6 6. Be2 e5 7. Nb3", "B90", "Sicilian Defense: Najdorf Variation"},
		{"deepest scotch line", testutil.ScoutingGame, "C45", "Scotch Game"},
		{"shallow scotch line", "1. e4 e5 2. Nf3 Nc6 3. d4 d6", "C44", "Scotch Game"},
		{"bare movetext", testutil.BareScoutingGame, "C45", "Scotch Game"},
		{"transposition", "1. Nf3 Nf6 2. d4 e6", "A46", "Indian Defense: Knights Variation"},
		{"italian", "1. e4 e5 2. Nf3 Nc6 3. Bc4 Bc5 4. c3", "C50", "Italian Game"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := b.Classify(tt.moves, "")
			if !ok {
				t.Fatalf("Classify(%q) found no match", tt.moves)
			}
			if e.Code != tt.code || e.Opening != tt.opening {
				t.Errorf("Classify(%q) = %s %q, want %s %q", tt.moves, e.Code, e.Opening, tt.code, tt.opening)
			}
		})
	}
}

func TestClassifyNoMatch(t *testing.T) {
	b := newTestBook(t)

	for _, moves := range []string{"1. a3 *", "", "1. Zz9"} {
		if e, ok := b.Classify(moves, ""); ok {
			t.Errorf("Classify(%q) = %+v, want no match", moves, e)
		}
	}

	// A book line reached after the search horizon does not count.
	late := "1. Nf3 Nf6 2. Ng1 Ng8 3. Nf3 Nf6 4. Ng1 Ng8 5. Nf3 Nf6 6. Ng1 Ng8 7. Nf3 Nf6 8. Ng1 Ng8 9. d4 Nf6 10. Nf3"
	if e, ok := b.Classify(late, ""); ok {
		t.Errorf("Classify(late) = %+v, want no match past the horizon", e)
	}

	if _, ok := NewBook().Classify(testutil.ScoutingGame, ""); ok {
		t.Error("empty book matched")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eco.pgn")
	if err := os.WriteFile(path, []byte(testECOData), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if b.Len() != 5 {
		t.Errorf("Len() = %d, want 5", b.Len())
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.pgn")); err == nil {
		t.Error("LoadFile() on a missing file returned nil error")
	}
}
