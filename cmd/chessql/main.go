// Package main provides the chessql CLI for ingesting chess games and
// querying them with the hybrid chess/SQL language.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
