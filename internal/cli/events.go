package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quorumkit/quorum/internal/config"
	"github.com/quorumkit/quorum/internal/events"
)

var eventsCmd = &cobra.Command{
	Use:   "events <run-id>",
	Short: "Show the event history of a run",
	Long:  `Print all recorded events for a run, oldest first. Requires database_url to be configured.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadDefault()
		if err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("database_url is not configured")
		}

		log, err := events.Open(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer log.Close()

		history, err := log.History(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(history) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no events found")
			return nil
		}
		for _, e := range history {
			line := fmt.Sprintf("%s  %-16s", e.CreatedAt, e.Kind)
			if e.Stage != "" {
				line += "  " + e.Stage
			}
			if e.Detail != "" {
				line += "  " + e.Detail
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}
