package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgbarn/chessql-go/internal/classify"
	"github.com/lgbarn/chessql-go/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "chessql.db", cfg.Database.Path)
	assert.Equal(t, 4, cfg.Ingest.Workers)
	assert.Equal(t, classify.DefaultPolicy(), cfg.Classifier)
	assert.Equal(t, 5*time.Second, cfg.Query.Timeout)
	assert.Equal(t, 100, cfg.Query.DefaultLimit)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestParse_OverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
database:
  path: /var/lib/chessql/games.db
classifier:
  sacrifice_window: 6
query:
  timeout: 2s
  max_limit: 500
log:
  level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/chessql/games.db", cfg.Database.Path)
	assert.Equal(t, 6, cfg.Classifier.SacrificeWindow)
	assert.Equal(t, 2, cfg.Classifier.RecaptureWindow, "unset field keeps default")
	assert.Equal(t, 2*time.Second, cfg.Query.Timeout)
	assert.Equal(t, 500, cfg.Query.MaxLimit)
	assert.Equal(t, 100, cfg.Query.DefaultLimit)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "query:\n  timout: 2s\n"},
		{"bad duration", "query:\n  timeout: soon\n"},
		{"zero workers", "ingest:\n  workers: 0\n"},
		{"zero window", "classifier:\n  recapture_window: 0\n"},
		{"max below default", "query:\n  default_limit: 50\n  max_limit: 10\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"empty path", "database:\n  path: ''\n"},
		{"negative timeout", "server:\n  read_timeout: -1s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, errors.ErrInvalidConfig)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chessql.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: 127.0.0.1:9000\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Query.Timeout = 750 * time.Millisecond

	data, err := cfg.Marshal()
	require.NoError(t, err)
	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestBuilder(t *testing.T) {
	cfg, err := NewBuilder(nil).
		WithDatabasePath("games.db").
		WithWorkers(8).
		WithServerAddr(":9090").
		WithQueryTimeout(time.Second).
		WithVerbose(true).
		WithECOFile("eco.pgn").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "games.db", cfg.Database.Path)
	assert.Equal(t, 8, cfg.Ingest.Workers)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, time.Second, cfg.Query.Timeout)
	assert.Equal(t, "eco.pgn", cfg.Ingest.ECOFile)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)

	cfg, err = NewBuilder(nil).WithDatabasePath("").WithWorkers(0).WithVerbose(false).WithECOFile("").Build()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg, "zero overrides are ignored")

	_, err = NewBuilder(nil).WithWorkers(-1).Build()
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}
