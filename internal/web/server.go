// Package web exposes the council and dev team over a JSON HTTP API.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

// Debater runs a council debate and returns its conclusion.
type Debater interface {
	Debate(ctx context.Context, idea string) (string, error)
}

// Builder runs the dev team pipeline and returns its final summary.
type Builder interface {
	Run(ctx context.Context, request string) (string, error)
}

// Server is the JSON API server.
type Server struct {
	council Debater
	devteam Builder

	appName string
	version string
	port    int
	logsDir string

	logger zerolog.Logger
	// logWriter is the service log sink; request-scoped loggers tee to it
	// alongside the per-request file.
	logWriter io.Writer
}

// Opts configures a Server.
type Opts struct {
	Council   Debater
	DevTeam   Builder
	AppName   string
	Version   string
	Port      int
	LogsDir   string
	Logger    zerolog.Logger
	LogWriter io.Writer
}

// NewServer creates a Server.
func NewServer(opts Opts) *Server {
	return &Server{
		council:   opts.Council,
		devteam:   opts.DevTeam,
		appName:   opts.AppName,
		version:   opts.Version,
		port:      opts.Port,
		logsDir:   opts.LogsDir,
		logger:    opts.Logger,
		logWriter: opts.LogWriter,
	}
}

// Handler returns the routed handler with request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /council/call_council", s.handleCallCouncil)
	mux.HandleFunc("POST /dev_team/build_poc", s.handleBuildPoC)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleRoot)
	return s.requestLogger(mux)
}

// Start registers routes and starts listening.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info().Str("addr", addr).Str("app", s.appName).Msg("http server listening")
	return http.ListenAndServe(addr, s.Handler())
}
