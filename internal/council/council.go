// Package council runs a multi-persona debate over a user's idea. Members
// speak once each in a fixed order, every speaker seeing the transcript so
// far, and a moderator closes the debate with a final verdict.
package council

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/quorumkit/quorum/internal/agent"
	"github.com/quorumkit/quorum/internal/prompt"
)

// Council orchestrates the debate. Member invocations carry no retry
// wrapper; a failed contribution fails the debate.
type Council struct {
	factory     agent.Factory
	logger      zerolog.Logger
	templateDir string
}

// New creates a Council producing a fresh agent per contribution.
func New(factory agent.Factory, logger zerolog.Logger, templateDir string) *Council {
	return &Council{factory: factory, logger: logger, templateDir: templateDir}
}

// Debate runs all members over the idea and returns the moderator's
// conclusion, which ends in a "## Final Verdict" section.
func (c *Council) Debate(ctx context.Context, idea string) (string, error) {
	memberTmpl, err := prompt.Load(prompt.TemplateCouncilMember, c.templateDir)
	if err != nil {
		return "", fmt.Errorf("load member template: %w", err)
	}

	var transcript strings.Builder
	for _, m := range Members {
		rendered, err := prompt.Render(memberTmpl, prompt.Vars{
			"idea":       idea,
			"transcript": transcript.String(),
		})
		if err != nil {
			return "", fmt.Errorf("render member prompt: %w", err)
		}

		c.logger.Info().Str("member", m.Name).Str("role", m.Role).Msg("council member speaking")
		inv := c.factory.New(fmt.Sprintf("%s (%s)", m.Name, m.Role), m.Instructions)
		resp, err := inv.Invoke(ctx, rendered)
		if err != nil {
			return "", fmt.Errorf("%s: %w", m.Name, err)
		}
		fmt.Fprintf(&transcript, "### %s (%s)\n\n%s\n\n", m.Name, m.Role, resp.Text)
	}

	moderatorTmpl, err := prompt.Load(prompt.TemplateCouncilModerator, c.templateDir)
	if err != nil {
		return "", fmt.Errorf("load moderator template: %w", err)
	}
	rendered, err := prompt.Render(moderatorTmpl, prompt.Vars{
		"idea":       idea,
		"transcript": transcript.String(),
	})
	if err != nil {
		return "", fmt.Errorf("render moderator prompt: %w", err)
	}

	c.logger.Info().Msg("council moderator concluding")
	moderator := c.factory.New("Council Moderator", moderatorInstructions)
	resp, err := moderator.Invoke(ctx, rendered)
	if err != nil {
		return "", fmt.Errorf("moderator: %w", err)
	}
	return resp.Text, nil
}
