// Package agent constructs model-backed agents and executes their
// invocations with bounded retry.
package agent

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/quorumkit/quorum/internal/llm"
)

// Factory creates a fresh invoker for an agent with the given role and
// instruction list. A fresh agent is constructed per stage per run so no
// conversation state leaks across requests.
type Factory interface {
	New(role string, instructions []string) llm.Invoker
}

// GeminiFactory builds Gemini-backed agents sharing one toolset.
type GeminiFactory struct {
	Model   string
	APIKey  string
	Tools   llm.Dispatcher
	Logger  zerolog.Logger
	BaseURL string
}

// New implements Factory. The role and instructions become the system
// instruction of the underlying model call.
func (f *GeminiFactory) New(role string, instructions []string) llm.Invoker {
	var b strings.Builder
	b.WriteString("Role: ")
	b.WriteString(role)
	if len(instructions) > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.Join(instructions, "\n"))
	}
	return llm.NewGemini(llm.GeminiOpts{
		Model:   f.Model,
		APIKey:  f.APIKey,
		System:  b.String(),
		Tools:   f.Tools,
		Logger:  f.Logger.With().Str("agent", role).Logger(),
		BaseURL: f.BaseURL,
	})
}
