package cli

import (
	"github.com/spf13/cobra"

	"github.com/quorumkit/quorum/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the JSON API exposing the council and dev team:

  POST /council/call_council  {"content": "<idea>"}
  POST /dev_team/build_poc    {"content": "<request>"}
  GET  /health

Each request gets its own log file in the logs directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port = app.cfg.ListenPort
		}

		return web.NewServer(web.Opts{
			Council:   app.council,
			DevTeam:   app.devteam,
			AppName:   app.cfg.AppName,
			Version:   version,
			Port:      port,
			LogsDir:   app.cfg.LogsDir,
			Logger:    app.logger,
			LogWriter: app.logWriter,
		}).Start()
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "Port to listen on (default: listen_port from config)")
}
