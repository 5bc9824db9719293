// Package cmd wires the repo-enricher command line on top of Cobra.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "repo-enricher",
	Short: "Enrich a CSV of GitHub repositories with stars, forks and URL.",
	Long: `repo-enricher takes a CSV file of "repo,owner" rows and looks every
repository up on the GitHub API, one request per row. Found repositories go to
output.csv; every attempt is recorded with a timestamp in log.txt.

Run "repo-enricher enrich" to start a batch.`,
}

// Execute runs the command tree and exits with status 1 when a command fails.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Diagnostics go to stderr only with --verbose; output.csv and log.txt are unaffected.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print diagnostic logging to stderr")
}
