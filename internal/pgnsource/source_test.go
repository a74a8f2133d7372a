package pgnsource

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgbarn/chessql-go/internal/errors"
)

var defaults = Defaults{AccountID: "acct-1", Platform: "lichess", ReferencePlayer: "alice"}

func readFixture(t *testing.T, opts ...Option) (*Source, string) {
	t.Helper()
	data, err := os.ReadFile("testdata/games.pgn")
	require.NoError(t, err)
	return New(defaults, opts...), string(data)
}

func TestRead_Fixture(t *testing.T) {
	src, text := readFixture(t)

	games, rejected, err := src.Read(strings.NewReader(text))
	require.NoError(t, err)
	assert.Empty(t, rejected)
	require.Len(t, games, 3)

	g := games[0]
	assert.Equal(t, "acct-1", g.AccountID)
	assert.Equal(t, "lichess", g.Platform)
	assert.Equal(t, "alice", g.ReferencePlayer)
	assert.Equal(t, "alice", g.White)
	assert.Equal(t, "bob", g.Black)
	assert.Equal(t, 1800, g.WhiteElo)
	assert.Equal(t, 1750, g.BlackElo)
	assert.Equal(t, "1-0", g.Result)
	assert.Equal(t, "2024-01-10", g.DatePlayed)
	assert.Equal(t, "AbCd1234", g.PlatformID)
	assert.Equal(t, "C45", g.ECO)
	assert.Equal(t, "Scotch Game", g.Opening)
	assert.Equal(t, "blitz", g.Speed)
	assert.Equal(t, "", g.Round)
	assert.Equal(t, "standard", g.Variant)
	assert.Equal(t, "1. e4 e5 2. Nf3 Nc6 3. d4 exd4 4. Nxd4 Nf6 5. Nc3 Bb4 6. Nxc6 bxc6 1-0", g.Moves)
	assert.NotEmpty(t, g.ID)

	g = games[1]
	assert.Equal(t, "", g.DatePlayed, "partial dates are dropped")
	assert.Equal(t, "", g.Site)
	assert.Equal(t, "", g.PlatformID)
	assert.Equal(t, 0, g.WhiteElo)

	g = games[2]
	assert.Equal(t, "4k3/PP6/8/8/8/8/8/4K3 w - - 0 1", g.InitialFEN)
	assert.Equal(t, "from position", g.Variant)
	assert.Equal(t, "correspondence", g.Speed)
	assert.Equal(t, "*", g.Result)
}

func TestRead_DeterministicIDs(t *testing.T) {
	src, text := readFixture(t)

	first, _, err := src.Read(strings.NewReader(text))
	require.NoError(t, err)
	second, _, err := src.Read(strings.NewReader(text))
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.False(t, seen[first[i].ID], "ids are unique")
		seen[first[i].ID] = true
	}

	other, _, err := New(Defaults{AccountID: "acct-2", Platform: "lichess"}).Read(strings.NewReader(text))
	require.NoError(t, err)
	assert.NotEqual(t, first[0].ID, other[0].ID, "accounts do not share ids")
}

func TestRead_StrictRejectsIllegalGames(t *testing.T) {
	src, text := readFixture(t, WithStrict(true))

	games, rejected, err := src.Read(strings.NewReader(text))
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Len(t, games, 2)

	var ge *errors.GameError
	require.True(t, errors.As(rejected[0], &ge))
	assert.Equal(t, 1, ge.Index)
	assert.ErrorIs(t, rejected[0], errors.ErrBadNotation)
}

// Without strict mode an unplayable game is kept with its movetext intact,
// so the replay can record which tokens it skipped.
func TestRead_KeepsRawMovetext(t *testing.T) {
	text := "[White \"carol\"]\n[Black \"alice\"]\n\n1. e4 e5 2. Ke3 Nc6 0-1\n"
	games, rejected, err := New(defaults).Read(strings.NewReader(text))
	require.NoError(t, err)
	assert.Empty(t, rejected)
	require.Len(t, games, 1)
	assert.Equal(t, "1. e4 e5 2. Ke3 Nc6 0-1", games[0].Moves)

	_, rejected, err = New(defaults, WithStrict(true)).Read(strings.NewReader(text))
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.ErrorIs(t, rejected[0], errors.ErrBadNotation)
}

func TestRead_Empty(t *testing.T) {
	games, rejected, err := New(defaults).Read(strings.NewReader("\n\n"))
	require.NoError(t, err)
	assert.Empty(t, games)
	assert.Empty(t, rejected)
}

func TestRead_MovetextWithoutHeaders(t *testing.T) {
	games, _, err := New(defaults).Read(strings.NewReader("1. e4 e5 2. Nf3 *\n"))
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "1. e4 e5 2. Nf3 *", games[0].Moves)
	assert.Equal(t, "*", games[0].Result)
}

func TestSpeed(t *testing.T) {
	tests := map[string]string{
		"15+0":   "ultrabullet",
		"60+0":   "bullet",
		"120+1":  "bullet",
		"120+2":  "blitz",
		"300+0":  "blitz",
		"600+5":  "rapid",
		"1800+0": "classical",
		"-":      "correspondence",
		"":       "",
		"abc":    "",
	}
	for tc, want := range tests {
		assert.Equal(t, want, Speed(tc), tc)
	}
}
