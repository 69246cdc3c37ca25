// Package devteam runs the sequential build pipeline:
// architect -> backend -> frontend -> devops -> reviewer.
package devteam

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quorumkit/quorum/internal/agent"
	"github.com/quorumkit/quorum/internal/events"
	"github.com/quorumkit/quorum/internal/pipeline"
	"github.com/quorumkit/quorum/internal/prompt"
	"github.com/quorumkit/quorum/internal/publish"
	"github.com/quorumkit/quorum/internal/workspace"
)

// Pipeline chains the five build stages over a shared workspace, then
// publishes the resulting project when GitHub credentials are configured.
// One Pipeline serves one run; stages execute strictly in order and an
// unrecovered failure aborts the run with no rollback.
type Pipeline struct {
	factory   agent.Factory
	exec      *agent.Executor
	ws        *workspace.Workspace
	publisher *publish.Publisher
	store     *pipeline.Store
	events    *events.Log
	logger    zerolog.Logger

	templateDir string

	// Injectable for tests.
	newRunID func() string
	now      func() time.Time
}

// Opts configures a Pipeline. Factory, Workspace and Logger are required;
// Store, Events and Publisher may be nil (artifacts, event log and publish
// are then skipped).
type Opts struct {
	Factory     agent.Factory
	Executor    *agent.Executor
	Workspace   *workspace.Workspace
	Publisher   *publish.Publisher
	Store       *pipeline.Store
	Events      *events.Log
	Logger      zerolog.Logger
	TemplateDir string
}

// New creates a Pipeline.
func New(opts Opts) *Pipeline {
	exec := opts.Executor
	if exec == nil {
		exec = agent.NewExecutor(opts.Logger)
	}
	return &Pipeline{
		factory:     opts.Factory,
		exec:        exec,
		ws:          opts.Workspace,
		publisher:   opts.Publisher,
		store:       opts.Store,
		events:      opts.Events,
		logger:      opts.Logger,
		templateDir: opts.TemplateDir,
		newRunID:    uuid.NewString,
		now:         time.Now,
	}
}

// Run executes all stages for the given request and returns the reviewer's
// final summary. Each stage gets a fresh agent; outputs chain forward as
// template variables for later stage prompts.
func (p *Pipeline) Run(ctx context.Context, request string) (string, error) {
	runID := p.newRunID()
	logger := p.logger.With().Str("run_id", runID).Logger()
	logger.Info().Str("request", request).Msg("dev team run started")

	if p.store != nil {
		if _, err := p.store.Create(runID, request); err != nil {
			return "", fmt.Errorf("create run: %w", err)
		}
	}
	p.record(ctx, runID, events.KindRunStarted, "", "")

	vars := prompt.Vars{"request": request}
	var result string

	for _, stage := range Stages {
		output, err := p.runStage(ctx, runID, stage, vars, logger)
		if err != nil {
			p.failRun(ctx, runID, stage.Name, err)
			return "", fmt.Errorf("stage %s: %w", stage.Name, err)
		}
		if stage.OutputVar != "" {
			vars[stage.OutputVar] = output
		}
		result = output
	}

	if err := p.publishProject(ctx, runID, logger); err != nil {
		p.failRun(ctx, runID, "publish", err)
		return "", fmt.Errorf("publish: %w", err)
	}

	if p.store != nil {
		if err := p.store.Update(runID, func(rs *pipeline.RunState) {
			rs.Status = pipeline.StatusCompleted
			rs.CurrentStage = ""
			rs.Result = result
		}); err != nil {
			logger.Warn().Err(err).Msg("record run completion")
		}
	}
	p.record(ctx, runID, events.KindRunCompleted, "", "")
	logger.Info().Msg("dev team run completed")
	return result, nil
}

func (p *Pipeline) runStage(ctx context.Context, runID string, stage Stage, vars prompt.Vars, logger zerolog.Logger) (string, error) {
	logger.Info().Str("stage", stage.Name).Msg("stage started")
	p.record(ctx, runID, events.KindStageStarted, stage.Name, "")

	tmpl, err := prompt.Load(stage.Template, p.templateDir)
	if err != nil {
		return "", fmt.Errorf("load template: %w", err)
	}
	rendered, err := prompt.Render(tmpl, vars)
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	if p.store != nil {
		if err := p.store.Update(runID, func(rs *pipeline.RunState) {
			rs.CurrentStage = stage.Name
		}); err != nil {
			logger.Warn().Err(err).Str("stage", stage.Name).Msg("record stage start")
		}
		if err := p.store.SavePrompt(runID, stage.Name, rendered); err != nil {
			logger.Warn().Err(err).Str("stage", stage.Name).Msg("save prompt")
		}
	}

	inv := p.factory.New(stage.Role, stage.Instructions)
	start := p.now()
	resp, err := p.exec.Execute(ctx, inv, rendered, stage.Name)
	duration := p.now().Sub(start)
	if err != nil {
		p.recordStage(runID, stage.Name, "fail", duration, logger)
		return "", err
	}

	output := resp.Text
	if p.store != nil {
		if err := p.store.SaveOutput(runID, stage.Name, output); err != nil {
			logger.Warn().Err(err).Str("stage", stage.Name).Msg("save output")
		}
	}
	p.recordStage(runID, stage.Name, "success", duration, logger)
	p.record(ctx, runID, events.KindStageCompleted, stage.Name, "")
	logger.Info().Str("stage", stage.Name).Dur("duration", duration).Msg("stage completed")
	return output, nil
}

func (p *Pipeline) publishProject(ctx context.Context, runID string, logger zerolog.Logger) error {
	if p.publisher == nil || !p.publisher.Configured() {
		logger.Info().Msg("github credentials not configured, skipping publish")
		return nil
	}

	projectDir, err := p.ws.Resolve()
	if err != nil {
		return err
	}
	p.record(ctx, runID, events.KindStageStarted, "publish", "")
	if err := p.publisher.Publish(ctx, projectDir); err != nil {
		return err
	}
	p.record(ctx, runID, events.KindStageCompleted, "publish", "")
	logger.Info().Str("project_dir", projectDir).Msg("project published")
	return nil
}

func (p *Pipeline) failRun(ctx context.Context, runID, stage string, cause error) {
	p.logger.Error().Err(cause).Str("run_id", runID).Str("stage", stage).Msg("dev team run failed")
	if p.store != nil {
		if err := p.store.Update(runID, func(rs *pipeline.RunState) {
			rs.Status = pipeline.StatusFailed
			rs.Error = cause.Error()
		}); err != nil {
			p.logger.Warn().Err(err).Str("run_id", runID).Msg("record run failure")
		}
	}
	p.record(ctx, runID, events.KindRunFailed, stage, cause.Error())
}

func (p *Pipeline) recordStage(runID, stage, outcome string, d time.Duration, logger zerolog.Logger) {
	if p.store == nil {
		return
	}
	if err := p.store.Update(runID, func(rs *pipeline.RunState) {
		rs.Stages = append(rs.Stages, pipeline.StageRecord{
			Stage:      stage,
			Outcome:    outcome,
			DurationMs: d.Milliseconds(),
		})
	}); err != nil {
		logger.Warn().Err(err).Str("stage", stage).Msg("record stage outcome")
	}
}

// record writes an event to the run log, logging failures rather than
// propagating them. Event recording never fails a run.
func (p *Pipeline) record(ctx context.Context, runID, kind, stage, detail string) {
	if err := p.events.Record(ctx, runID, kind, stage, detail); err != nil {
		p.logger.Warn().Err(err).Str("run_id", runID).Str("kind", kind).Msg("record run event")
	}
}
