// Command pcstcli runs the PCST solver against a SQLite-backed world of
// nodes and edges, optionally deriving node prizes from a text document.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:     "pcstcli",
	Short:   "Solve prize-collecting Steiner tree/forest problems over a SQLite world",
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print solve progress to stderr")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print the result as JSON instead of one ID per line")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
