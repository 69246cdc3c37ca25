package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build <request>",
	Short: "Run the dev team pipeline from the terminal",
	Long: `Run the full build pipeline (architect, backend, frontend, devops,
reviewer) for the given request. The project lands in the workspace
directory; with GitHub credentials configured it is also pushed to a new
private repository.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		result, err := app.devteam.Run(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("dev team execution failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), result)
		return nil
	},
}
