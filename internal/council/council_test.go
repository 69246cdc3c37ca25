package council

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/quorumkit/quorum/internal/llm"
)

type stubFactory struct {
	failOn  string // role whose invoker errors
	failErr error

	roles   []string
	prompts []string
}

func (f *stubFactory) New(role string, instructions []string) llm.Invoker {
	return llm.InvokerFunc(func(ctx context.Context, prompt string) (*llm.Response, error) {
		f.roles = append(f.roles, role)
		f.prompts = append(f.prompts, prompt)
		if strings.Contains(role, f.failOn) && f.failOn != "" {
			return nil, f.failErr
		}
		return &llm.Response{Text: "view from " + role}, nil
	})
}

func TestDebateRunsMembersInOrderThenModerator(t *testing.T) {
	f := &stubFactory{}
	c := New(f, zerolog.Nop(), "")

	conclusion, err := c.Debate(context.Background(), "a social app for plants")
	if err != nil {
		t.Fatalf("Debate: %v", err)
	}
	if conclusion != "view from Council Moderator" {
		t.Errorf("conclusion = %q, want moderator output", conclusion)
	}

	if len(f.roles) != len(Members)+1 {
		t.Fatalf("invoked %d agents, want %d members + moderator", len(f.roles), len(Members))
	}
	for i, m := range Members {
		if !strings.Contains(f.roles[i], m.Name) {
			t.Errorf("speaker %d = %q, want %q", i, f.roles[i], m.Name)
		}
	}
	if f.roles[len(f.roles)-1] != "Council Moderator" {
		t.Errorf("last speaker = %q, want moderator", f.roles[len(f.roles)-1])
	}
}

func TestDebateTranscriptAccumulates(t *testing.T) {
	f := &stubFactory{}
	c := New(f, zerolog.Nop(), "")

	if _, err := c.Debate(context.Background(), "an idea"); err != nil {
		t.Fatalf("Debate: %v", err)
	}

	// First speaker sees no transcript.
	if strings.Contains(f.prompts[0], "Debate so far:") {
		t.Errorf("first prompt should have no transcript section: %q", f.prompts[0])
	}
	if !strings.Contains(f.prompts[0], "an idea") {
		t.Errorf("first prompt missing the idea: %q", f.prompts[0])
	}

	// Second speaker sees the first contribution.
	if !strings.Contains(f.prompts[1], "Debate so far:") {
		t.Errorf("second prompt missing transcript section: %q", f.prompts[1])
	}
	if !strings.Contains(f.prompts[1], "Victoria Chen") {
		t.Errorf("second prompt missing first speaker: %q", f.prompts[1])
	}

	// Moderator sees every contribution.
	moderatorPrompt := f.prompts[len(f.prompts)-1]
	for _, m := range Members {
		if !strings.Contains(moderatorPrompt, m.Name) {
			t.Errorf("moderator prompt missing %s", m.Name)
		}
	}
	if !strings.Contains(moderatorPrompt, "Full debate transcript:") {
		t.Errorf("moderator prompt = %q", moderatorPrompt)
	}
}

func TestDebateMemberFailurePropagates(t *testing.T) {
	cause := errors.New("quota exceeded")
	f := &stubFactory{failOn: "Marcus Webb", failErr: cause}
	c := New(f, zerolog.Nop(), "")

	_, err := c.Debate(context.Background(), "an idea")
	if err == nil {
		t.Fatal("expected member failure to propagate")
	}
	if !errors.Is(err, cause) {
		t.Errorf("error = %v, want wrapped cause", err)
	}
	if !strings.Contains(err.Error(), "Marcus Webb") {
		t.Errorf("error = %v, want member name", err)
	}
	// Debate stops at the failing member.
	if len(f.roles) != 2 {
		t.Errorf("invoked %d agents, want 2", len(f.roles))
	}
}

func TestDebateModeratorFailurePropagates(t *testing.T) {
	cause := errors.New("boom")
	f := &stubFactory{failOn: "Council Moderator", failErr: cause}
	c := New(f, zerolog.Nop(), "")

	_, err := c.Debate(context.Background(), "an idea")
	if err == nil {
		t.Fatal("expected moderator failure to propagate")
	}
	if !strings.Contains(err.Error(), "moderator") {
		t.Errorf("error = %v, want moderator label", err)
	}
}
