// Package cli implements the quorum command tree.
package cli

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "quorum",
	Short: "quorum — AI council debates and dev-team PoC builds",
	Long: `quorum runs a council of five AI personas that debate an idea, and a
sequential dev team (architect, backend, frontend, devops, reviewer) that
builds a proof of concept into a shared workspace and can publish it to
GitHub.

Settings come from quorum.yaml (or ~/.quorum/config.yaml) with environment
and .env overrides. Per-run artifacts land in the runs directory.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(councilCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(eventsCmd)
}
