package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/quorumkit/quorum/internal/agent"
	"github.com/quorumkit/quorum/internal/config"
	"github.com/quorumkit/quorum/internal/council"
	"github.com/quorumkit/quorum/internal/devteam"
	"github.com/quorumkit/quorum/internal/events"
	"github.com/quorumkit/quorum/internal/pipeline"
	"github.com/quorumkit/quorum/internal/publish"
	"github.com/quorumkit/quorum/internal/tools"
	"github.com/quorumkit/quorum/internal/workspace"
)

// app wires the full service from settings: logger, workspace, toolset,
// agent factories, event log, run store, council and dev team.
type app struct {
	cfg       *config.Settings
	logger    zerolog.Logger
	logWriter io.Writer

	council *council.Council
	devteam *devteam.Pipeline
	store   *pipeline.Store
	events  *events.Log
}

func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, err
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
	}

	logger, sink := newLogger(cfg)

	ws, err := workspace.New(cfg.WorkspaceDir)
	if err != nil {
		return nil, fmt.Errorf("workspace: %w", err)
	}
	store, err := pipeline.NewStore(cfg.RunsDir)
	if err != nil {
		return nil, fmt.Errorf("run store: %w", err)
	}
	evlog, err := events.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("event log: %w", err)
	}
	if err := evlog.Migrate(ctx); err != nil {
		evlog.Close()
		return nil, fmt.Errorf("migrate event log: %w", err)
	}

	toolset := tools.NewToolset(ws.Root())

	councilFactory := &agent.GeminiFactory{
		Model:  cfg.CouncilModel,
		APIKey: cfg.GeminiAPIKey,
		Logger: logger,
	}
	devFactory := &agent.GeminiFactory{
		Model:  cfg.DevTeamModel,
		APIKey: cfg.GeminiAPIKey,
		Tools:  toolset,
		Logger: logger,
	}

	publisher := publish.New(publish.Opts{
		User:     cfg.GitHubUser,
		Token:    cfg.GitHubToken,
		GitEmail: cfg.GitUserEmail,
		GitName:  cfg.GitUserName,
		Logger:   logger,
	})

	return &app{
		cfg:       cfg,
		logger:    logger,
		logWriter: sink,
		council:   council.New(councilFactory, logger, cfg.TemplateDir),
		devteam: devteam.New(devteam.Opts{
			Factory:     devFactory,
			Workspace:   ws,
			Publisher:   publisher,
			Store:       store,
			Events:      evlog,
			Logger:      logger,
			TemplateDir: cfg.TemplateDir,
		}),
		store:  store,
		events: evlog,
	}, nil
}

func (a *app) Close() {
	if err := a.events.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("close event log")
	}
}
