package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lgbarn/chessql-go/internal/compiler"
	"github.com/lgbarn/chessql-go/internal/errors"
	"github.com/lgbarn/chessql-go/internal/output"
	"github.com/lgbarn/chessql-go/internal/query"
	"github.com/lgbarn/chessql-go/internal/store"
)

var queryCmd = &cobra.Command{
	Use:   "query [QUERY]",
	Short: "Run a hybrid chess/SQL query",
	Long: `Run a query mixing parenthesised chess phrases with SQL conditions.

Chess phrases describe captures and promotions, optionally for a player and
before or after a move number:

  (queen sacrificed)              (pawn exchanged before move 10)
  (opponent knight captured)      (promoted queen x 2)
  ("magnus" bishop sacrificed)    (won) / (lost) / (drew)

Phrases combine with AND, OR and NOT, and with conditions on the games
table (see "chessql schema"). A full SELECT is accepted too.

Examples:
  chessql query --player me "(queen sacrificed) AND (won)"
  chessql query "white_elo > 2000 AND (pawn promoted to knight)"
  chessql query "SELECT result, COUNT(*) FROM games GROUP BY result"
  chessql query --explain "(opponent rook exchanged after move 20)"`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

var (
	queryAccount  string
	queryPlatform string
	queryPlayer   string
	queryLimit    int
	queryPage     int
	queryOffset   int
	queryCount    bool
	queryExplain  bool
	queryFormat   string
)

func init() {
	queryCmd.Flags().StringVar(&queryAccount, "account", "", "restrict to one account")
	queryCmd.Flags().StringVar(&queryPlatform, "platform", "", "restrict to one platform")
	queryCmd.Flags().StringVar(&queryPlayer, "player", "", "player that omitted and opponent subjects refer to")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 0, "page size (default from config)")
	queryCmd.Flags().IntVarP(&queryPage, "page", "p", 1, "1-based page number")
	queryCmd.Flags().IntVar(&queryOffset, "offset", -1, "row offset; overrides --page")
	queryCmd.Flags().BoolVar(&queryCount, "count", false, "print only the total number of matches")
	queryCmd.Flags().BoolVar(&queryExplain, "explain", false, "print the generated SQL instead of running it")
	queryCmd.Flags().StringVarP(&queryFormat, "format", "f", output.FormatTable, "output format: table, json, csv")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	text := args[0]
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	s, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	exec, err := newExecutor(s, cfg, log)
	if err != nil {
		return err
	}

	scope := compiler.Scope{AccountID: queryAccount, Platform: queryPlatform, Player: queryPlayer}
	out := cmd.OutOrStdout()

	if queryExplain {
		compiled, err := exec.Prepare(text, scope)
		if err != nil {
			return queryError(text, err)
		}
		return explain(out, compiled)
	}

	req := query.Request{
		Text:      text,
		Scope:     scope,
		Limit:     queryLimit,
		Page:      queryPage,
		CountOnly: queryCount,
	}
	if queryOffset >= 0 {
		req.Offset = &queryOffset
	}

	resp, err := exec.Execute(cmd.Context(), req)
	if err != nil {
		return queryError(text, err)
	}
	if queryCount {
		_, err := fmt.Fprintln(out, resp.TotalCount)
		return err
	}

	w, err := output.New(queryFormat, out)
	if err != nil {
		return err
	}
	return w.WriteResponse(resp)
}

func explain(w io.Writer, c *compiler.Compiled) error {
	fmt.Fprintf(w, "SQL:   %s\n", c.SQL)
	fmt.Fprintf(w, "Count: %s\n", c.CountSQL)
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = fmt.Sprintf("%q", fmt.Sprint(a))
	}
	_, err := fmt.Fprintf(w, "Args:  [%s]\n", strings.Join(args, ", "))
	return err
}

// queryError points at the offending token for syntax and field errors.
func queryError(text string, err error) error {
	pos := -1
	var (
		syn     *errors.SyntaxError
		unknown *errors.UnknownFieldError
	)
	switch {
	case errors.As(err, &syn):
		pos = syn.Pos
	case errors.As(err, &unknown):
		pos = unknown.Pos
	}
	if pos < 0 || pos > len(text) {
		return err
	}
	return fmt.Errorf("%w\n  %s\n  %s^", err, text, strings.Repeat(" ", pos))
}
