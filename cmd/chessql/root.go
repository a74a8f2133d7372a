package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lgbarn/chessql-go/internal/config"
	"github.com/lgbarn/chessql-go/internal/logging"
)

const programVersion = "0.1.0"

var (
	// Global flags.
	configPath string
	dbPath     string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "chessql",
	Short: "Query chess games by captures, exchanges, sacrifices and promotions",
	Long: `chessql stores chess games in SQLite together with every capture and
promotion they contain, classified as exchanges or sacrifices, and answers
queries that mix chess phrases with SQL.

Examples:
  # Load a lichess export
  chessql ingest --account me --platform lichess --player me games.pgn

  # Games where the opponent sacrificed a bishop and I still won
  chessql query --account me --platform lichess --player me \
    "(opponent bishop sacrificed) AND (won)"

  # Serve the JSON API
  chessql serve --addr :8080`,
	Version:       programVersion,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "SQLite database path (overrides the config file)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// loadConfig reads the config file, if any, and applies the global flags.
func loadConfig(apply ...func(*config.Builder)) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}
	b := config.NewBuilder(cfg).WithDatabasePath(dbPath).WithVerbose(verbose)
	for _, fn := range apply {
		fn(b)
	}
	return b.Build()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Log.Level, cfg.Log.Development)
}
