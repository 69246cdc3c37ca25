package devteam

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/quorumkit/quorum/internal/llm"
	"github.com/quorumkit/quorum/internal/pipeline"
	"github.com/quorumkit/quorum/internal/publish"
	"github.com/quorumkit/quorum/internal/workspace"
)

// stubFactory hands out invokers that return canned output per role and
// record every prompt they receive.
type stubFactory struct {
	outputs map[string]string // role -> response text
	failOn  string            // role whose invoker errors
	failErr error

	roles   []string
	prompts []string
}

func (f *stubFactory) New(role string, instructions []string) llm.Invoker {
	return llm.InvokerFunc(func(ctx context.Context, prompt string) (*llm.Response, error) {
		f.roles = append(f.roles, role)
		f.prompts = append(f.prompts, prompt)
		if role == f.failOn {
			return nil, f.failErr
		}
		text, ok := f.outputs[role]
		if !ok {
			text = role + " output"
		}
		return &llm.Response{Text: text}, nil
	})
}

func newTestWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	ws, err := workspace.New(t.TempDir())
	if err != nil {
		t.Fatalf("workspace.New: %v", err)
	}
	return ws
}

func newTestPipeline(t *testing.T, f *stubFactory) (*Pipeline, *pipeline.Store) {
	t.Helper()
	store, err := pipeline.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	p := New(Opts{
		Factory:   f,
		Workspace: newTestWorkspace(t),
		Store:     store,
		Logger:    zerolog.Nop(),
	})
	p.newRunID = func() string { return "test-run" }
	return p, store
}

func TestRunChainsStagesInOrder(t *testing.T) {
	f := &stubFactory{outputs: map[string]string{
		"Solutions Architect": "the architecture",
		"Backend Developer":   "the backend report",
		"Frontend Developer":  "the frontend report",
		"DevOps Engineer":     "the devops report",
		"Team Lead":           "the final summary",
	}}
	p, store := newTestPipeline(t, f)

	result, err := p.Run(context.Background(), "Build a todo app")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result != "the final summary" {
		t.Errorf("result = %q, want reviewer output", result)
	}

	wantRoles := []string{"Solutions Architect", "Backend Developer", "Frontend Developer", "DevOps Engineer", "Team Lead"}
	if len(f.roles) != len(wantRoles) {
		t.Fatalf("invoked %d agents, want %d", len(f.roles), len(wantRoles))
	}
	for i, want := range wantRoles {
		if f.roles[i] != want {
			t.Errorf("agent %d = %q, want %q", i, f.roles[i], want)
		}
	}

	if !strings.Contains(f.prompts[0], "User Request: Build a todo app") {
		t.Errorf("architect prompt = %q, want user request", f.prompts[0])
	}
	if !strings.Contains(f.prompts[1], "Architect's Specification:\n\nthe architecture") {
		t.Errorf("backend prompt = %q, want architect output", f.prompts[1])
	}
	if !strings.Contains(f.prompts[2], "the architecture") || !strings.Contains(f.prompts[2], "Backend Developer's Report:\n\nthe backend report") {
		t.Errorf("frontend prompt = %q, want architect and backend outputs", f.prompts[2])
	}
	for _, want := range []string{"the architecture", "the backend report", "the frontend report"} {
		if !strings.Contains(f.prompts[3], want) {
			t.Errorf("devops prompt missing %q", want)
		}
	}
	if f.prompts[4] != "Review the project in the workspace. Clean it up and provide a final summary." {
		t.Errorf("reviewer prompt = %q", f.prompts[4])
	}

	rs, err := store.Get("test-run")
	if err != nil {
		t.Fatalf("store.Get: %v", err)
	}
	if rs.Status != pipeline.StatusCompleted {
		t.Errorf("run status = %q, want completed", rs.Status)
	}
	if rs.Result != "the final summary" {
		t.Errorf("run result = %q", rs.Result)
	}
	if len(rs.Stages) != 5 {
		t.Errorf("run has %d stage records, want 5", len(rs.Stages))
	}
}

func TestRunSavesStageArtifacts(t *testing.T) {
	f := &stubFactory{outputs: map[string]string{"Solutions Architect": "spec text"}}
	p, store := newTestPipeline(t, f)

	if _, err := p.Run(context.Background(), "req"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	prompt, err := store.GetPrompt("test-run", "backend")
	if err != nil {
		t.Fatalf("GetPrompt: %v", err)
	}
	if !strings.Contains(prompt, "spec text") {
		t.Errorf("saved backend prompt = %q", prompt)
	}
	output, err := store.GetOutput("test-run", "architect")
	if err != nil {
		t.Fatalf("GetOutput: %v", err)
	}
	if output != "spec text" {
		t.Errorf("saved architect output = %q", output)
	}
}

func TestRunAbortsOnStageFailure(t *testing.T) {
	cause := errors.New("model unavailable")
	f := &stubFactory{failOn: "Backend Developer", failErr: cause}
	p, store := newTestPipeline(t, f)

	_, err := p.Run(context.Background(), "req")
	if err == nil {
		t.Fatal("expected error from failed stage")
	}
	if !strings.Contains(err.Error(), "stage backend") {
		t.Errorf("error = %v, want stage backend", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error should wrap the stage failure, got %v", err)
	}
	if len(f.roles) != 2 {
		t.Errorf("invoked %d agents, want 2 (abort after backend)", len(f.roles))
	}

	rs, err := store.Get("test-run")
	if err != nil {
		t.Fatalf("store.Get: %v", err)
	}
	if rs.Status != pipeline.StatusFailed {
		t.Errorf("run status = %q, want failed", rs.Status)
	}
	if rs.Error == "" {
		t.Error("run error should be recorded")
	}
}

func TestRunSkipsPublishWithoutCredentials(t *testing.T) {
	f := &stubFactory{}
	p, _ := newTestPipeline(t, f)
	p.publisher = publish.New(publish.Opts{Logger: zerolog.Nop()})

	if _, err := p.Run(context.Background(), "req"); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunPublishFailureFailsRun(t *testing.T) {
	f := &stubFactory{}
	p, store := newTestPipeline(t, f)
	// Credentials present but the workspace holds no project, so the
	// publish step cannot resolve a directory.
	p.publisher = publish.New(publish.Opts{User: "octo", Token: "tok", Logger: zerolog.Nop()})

	_, err := p.Run(context.Background(), "req")
	if err == nil {
		t.Fatal("expected publish failure to fail the run")
	}
	if !errors.Is(err, workspace.ErrNoProject) {
		t.Errorf("error = %v, want ErrNoProject", err)
	}

	rs, err := store.Get("test-run")
	if err != nil {
		t.Fatalf("store.Get: %v", err)
	}
	if rs.Status != pipeline.StatusFailed {
		t.Errorf("run status = %q, want failed", rs.Status)
	}
}

func TestRunPublishesResolvedProject(t *testing.T) {
	f := &stubFactory{}
	p, _ := newTestPipeline(t, f)

	projectDir := filepath.Join(p.ws.Root(), "todo-app")
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		t.Fatalf("mkdir project: %v", err)
	}
	if err := os.WriteFile(filepath.Join(p.ws.Root(), "project_name.txt"), []byte("todo-app\n"), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	git := &recordingGit{}
	p.publisher = publish.New(publish.Opts{
		User:   "octo",
		Token:  "tok",
		Git:    git,
		APIURL: srv.URL,
		Logger: zerolog.Nop(),
	})

	if _, err := p.Run(context.Background(), "req"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(git.calls) == 0 {
		t.Fatal("expected git commands to run")
	}
	if git.dirs[0] != projectDir {
		t.Errorf("git ran in %q, want %q", git.dirs[0], projectDir)
	}
}

type recordingGit struct {
	calls []string
	dirs  []string
}

func (g *recordingGit) RunGit(dir string, args ...string) (string, error) {
	g.calls = append(g.calls, strings.Join(args, " "))
	g.dirs = append(g.dirs, dir)
	if len(args) >= 2 && args[0] == "remote" && args[1] == "get-url" {
		return "", fmt.Errorf("no such remote")
	}
	return "", nil
}
