package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lgbarn/chessql-go/internal/chess"
	"github.com/lgbarn/chessql-go/internal/config"
	"github.com/lgbarn/chessql-go/internal/eco"
	"github.com/lgbarn/chessql-go/internal/ingest"
	"github.com/lgbarn/chessql-go/internal/pgnsource"
	"github.com/lgbarn/chessql-go/internal/stats/logger"
	"github.com/lgbarn/chessql-go/internal/store"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [PGN files...]",
	Short: "Load PGN games into the store",
	Long: `Read games from PGN files (or standard input when no file or "-" is
given), replay and classify them, and store them with their captures and
promotions.

Re-ingesting a game replaces it. Games are identified by the platform game
id taken from the GameId, Link or Site tag, so loading the same export twice
does not create duplicates.

Examples:
  chessql ingest --account me --platform lichess --player me export.pgn
  curl -s https://lichess.org/api/games/user/me | chessql ingest --account me --platform lichess --player me`,
	RunE: runIngest,
}

var (
	ingestAccount  string
	ingestPlatform string
	ingestPlayer   string
	ingestWorkers  int
	ingestStrict   bool
	ingestECOFile  string
	ingestJSON     bool
)

func init() {
	ingestCmd.Flags().StringVar(&ingestAccount, "account", "", "owning account id")
	ingestCmd.Flags().StringVar(&ingestPlatform, "platform", "", "source platform, e.g. lichess or chess.com")
	ingestCmd.Flags().StringVar(&ingestPlayer, "player", "", "reference player the games are classified for")
	ingestCmd.Flags().IntVarP(&ingestWorkers, "workers", "w", 0, "number of parallel replay workers")
	ingestCmd.Flags().BoolVar(&ingestStrict, "strict", false, "reject games an independent move generator cannot replay")
	ingestCmd.Flags().StringVar(&ingestECOFile, "eco", "", "PGN opening book used for games without an ECO tag")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "print the report as JSON")
	_ = ingestCmd.MarkFlagRequired("account")
	_ = ingestCmd.MarkFlagRequired("platform")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(func(b *config.Builder) {
		b.WithWorkers(ingestWorkers).WithECOFile(ingestECOFile)
	})
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	src := pgnsource.New(pgnsource.Defaults{
		AccountID:       ingestAccount,
		Platform:        ingestPlatform,
		ReferencePlayer: ingestPlayer,
	}, pgnsource.WithStrict(ingestStrict))

	if len(args) == 0 {
		args = []string{"-"}
	}
	var (
		games    []*chess.Game
		rejected int
	)
	for _, name := range args {
		g, rej, err := readPGN(cmd.InOrStdin(), src, name)
		if err != nil {
			return err
		}
		for _, r := range rej {
			log.Warn("game rejected", zap.String("file", name), zap.Error(r))
		}
		games = append(games, g...)
		rejected += len(rej)
	}

	s, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	opts := []ingest.Option{
		ingest.WithLogger(log.Named("ingest")),
		ingest.WithStats(logger.New(log)),
		ingest.WithPolicy(cfg.Classifier),
		ingest.WithWorkers(cfg.Ingest.Workers),
		ingest.WithBufferSize(cfg.Ingest.BufferSize),
	}
	if cfg.Ingest.ECOFile != "" {
		book, err := eco.LoadFile(cfg.Ingest.ECOFile)
		if err != nil {
			return err
		}
		opts = append(opts, ingest.WithBook(book))
	}
	svc, err := ingest.New(s, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := svc.Ingest(ctx, games)
	if report != nil {
		if perr := printReport(cmd.OutOrStdout(), report, rejected); perr != nil {
			return perr
		}
	}
	return err
}

func readPGN(stdin io.Reader, src *pgnsource.Source, name string) ([]*chess.Game, []error, error) {
	if name == "-" {
		return src.Read(stdin)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return src.Read(f)
}

func printReport(w io.Writer, report *ingest.Report, rejected int) error {
	if ingestJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			*ingest.Report
			Rejected int `json:"rejected"`
		}{report, rejected})
	}
	_, err := fmt.Fprintf(w, "ingested %d games (partial %d, degraded %d, failed %d, rejected %d, skipped moves %d)\n",
		report.Ingested, report.Partial, report.Degraded, report.Failed, rejected, report.Warnings)
	for _, e := range report.Errors {
		fmt.Fprintf(w, "  %v\n", e)
	}
	return err
}
