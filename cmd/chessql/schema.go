package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lgbarn/chessql-go/internal/compiler"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "List the game fields queries can reference",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FIELD\tTYPE\tDESCRIPTION")
		for _, c := range compiler.Columns {
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, c.Type, c.Doc)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
