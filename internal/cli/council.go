package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var councilCmd = &cobra.Command{
	Use:   "council <idea>",
	Short: "Run a council debate from the terminal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		conclusion, err := app.council.Debate(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("council debate failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), conclusion)
		return nil
	},
}
