package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quorumkit/quorum/internal/config"
	"github.com/quorumkit/quorum/internal/pipeline"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded pipeline runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadDefault()
		if err != nil {
			return err
		}
		store, err := pipeline.NewStore(cfg.RunsDir)
		if err != nil {
			return err
		}

		status, _ := cmd.Flags().GetString("status")
		runs, err := store.List(status)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
			return nil
		}
		for _, rs := range runs {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-12s  %s  %s\n",
				rs.ID, rs.Status, rs.CreatedAt, truncate(rs.Request, 60))
		}
		return nil
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func init() {
	runsCmd.Flags().String("status", "", "Filter by status (in_progress, completed, failed)")
}
