package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lgbarn/chessql-go/internal/chess"
	"github.com/lgbarn/chessql-go/internal/classify"
	"github.com/lgbarn/chessql-go/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay [MOVETEXT]",
	Short: "Replay movetext and show how each capture is classified",
	Long: `Replay a game without storing it and print every move event, the
skipped tokens, and each capture with its exchange and sacrifice flags.

Examples:
  chessql replay "1. e4 e5 2. Bc4 Nc6 3. Bxf7+ Kxf7 4. Nf3 d6"
  chessql replay --fen "4k3/PP6/8/8/8/8/8/4K3 w - - 0 1" "1. a8=Q+ Kd7 2. b8=Q"`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

var (
	replayFEN    string
	replayPlayer string
)

func init() {
	replayCmd.Flags().StringVar(&replayFEN, "fen", "", "initial position")
	replayCmd.Flags().StringVar(&replayPlayer, "player", "", "reference player stamped on captures")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rep := replay.Replay(args[0], replayFEN)
	res := classify.Classify(rep.Events, chess.NormalizeName(replayPlayer), cfg.Classifier)

	out := cmd.OutOrStdout()
	if rep.Degraded {
		fmt.Fprintf(out, "initial position unreadable, replayed from the standard start: %v\n", rep.FENError)
	}
	if err := replay.WriteEvents(out, rep.Events); err != nil {
		return err
	}
	for _, w := range rep.Warnings {
		fmt.Fprintf(out, "skipped: %v\n", w)
	}
	fmt.Fprintf(out, "final material: white %d, black %d\n",
		rep.Final.Material(chess.White), rep.Final.Material(chess.Black))
	return writeClassification(out, res)
}

func writeClassification(w io.Writer, res *classify.Result) error {
	fmt.Fprintln(w)
	for _, c := range res.Captures {
		var flags []string
		if c.IsExchange {
			flags = append(flags, "exchange")
		}
		if c.IsSacrifice {
			flags = append(flags, "sacrifice")
		}
		line := fmt.Sprintf("%d. %s %s: %s takes %s (%d for %d) %s",
			c.MoveNumber, c.Side, c.SAN, c.Piece, c.Captured,
			c.PieceValue, c.CapturedValue, strings.Join(flags, ","))
		fmt.Fprintln(w, strings.TrimSpace(line))
	}
	for _, p := range res.Promotions {
		fmt.Fprintf(w, "%d. %s promotes to %s on %s\n", p.MoveNumber, p.Side, p.Piece, p.Square)
	}
	for _, a := range res.Ambiguities {
		fmt.Fprintf(w, "ply %d: %s\n", a.Ply, a.Reason)
	}

	st := classify.Summarize(res.Captures)
	_, err := fmt.Fprintf(w, "captures %d, exchanges %d, sacrifices %d\n", st.TotalCaptures, st.Exchanges, st.Sacrifices)
	return err
}
