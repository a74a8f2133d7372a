package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/lgbarn/chessql-go/fx/chessqlfx"
	"github.com/lgbarn/chessql-go/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON query API",
	Long: `Start the HTTP API. Routes:

  GET  /health              store reachability
  GET  /metrics             Prometheus metrics
  GET  /api/v1/schema       queryable game fields
  POST /api/v1/query        run a query
  POST /api/v1/games        ingest one game
  GET  /api/v1/games/:id    a stored game with its captures and promotions

Examples:
  chessql serve --addr :8080 --db games.db`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(func(b *config.Builder) {
		b.WithServerAddr(serveAddr)
	})
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	app := fx.New(
		fx.Supply(cfg, log),
		chessqlfx.ServerModule,
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),
	)
	if err := app.Err(); err != nil {
		return err
	}
	app.Run()
	return nil
}
