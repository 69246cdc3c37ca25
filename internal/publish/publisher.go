// Package publish pushes a finished project directory to a freshly created
// GitHub repository.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultAPIURL = "https://api.github.com"

	// createRepoTimeout bounds the repository-creation call. It is the only
	// network timeout in the publish path; git operations run to completion.
	createRepoTimeout = 30 * time.Second

	defaultGitEmail = "poc-automator@example.com"
	defaultGitName  = "POC Automator"
)

// Sentinel errors surfaced to the pipeline.
var (
	// ErrConfigMissing indicates the GitHub user or token is not configured.
	// It is returned before any network or filesystem side effect.
	ErrConfigMissing = errors.New("github publish requires GITHUB_USER and GITHUB_TOKEN")

	// ErrPublishFailed wraps a hard failure of any publish step.
	ErrPublishFailed = errors.New("publish failed")
)

// GitRunner provides git command execution. Interface for testing.
type GitRunner interface {
	RunGit(dir string, args ...string) (string, error)
}

// ExecRunner runs git via exec.Command.
type ExecRunner struct{}

// RunGit implements GitRunner.
func (r *ExecRunner) RunGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		return strings.TrimSpace(string(out)), fmt.Errorf("git %s: %s: %w", strings.Join(args, " "), strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Publisher creates the remote repository and pushes the project to it.
type Publisher struct {
	user     string
	token    string
	gitEmail string
	gitName  string
	git      GitRunner
	http     *http.Client
	apiURL   string
	logger   zerolog.Logger
}

// Opts configures a Publisher.
type Opts struct {
	User     string
	Token    string
	GitEmail string // falls back to a default identity when empty
	GitName  string
	Git      GitRunner
	Logger   zerolog.Logger
	APIURL   string // override for tests
}

// New creates a Publisher.
func New(opts Opts) *Publisher {
	gitEmail := opts.GitEmail
	if gitEmail == "" {
		gitEmail = defaultGitEmail
	}
	gitName := opts.GitName
	if gitName == "" {
		gitName = defaultGitName
	}
	git := opts.Git
	if git == nil {
		git = &ExecRunner{}
	}
	apiURL := opts.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Publisher{
		user:     opts.User,
		token:    opts.Token,
		gitEmail: gitEmail,
		gitName:  gitName,
		git:      git,
		http:     &http.Client{Timeout: createRepoTimeout},
		apiURL:   apiURL,
		logger:   opts.Logger,
	}
}

// Configured reports whether credentials are present.
func (p *Publisher) Configured() bool {
	return p.user != "" && p.token != ""
}

// Publish creates the remote repository (idempotently), initializes and
// commits the project directory, wires the remote, and pushes main. The
// repository name is the project directory's base name. Any step's hard
// failure aborts the remaining steps.
func (p *Publisher) Publish(ctx context.Context, projectDir string) error {
	if !p.Configured() {
		return ErrConfigMissing
	}

	repoName := filepath.Base(projectDir)
	p.logger.Info().Str("project", repoName).Msg("publishing project to github")

	if err := p.createRepo(ctx, repoName); err != nil {
		return p.fail("create repository", err)
	}
	if err := p.initAndCommit(projectDir); err != nil {
		return p.fail("local git", err)
	}
	if err := p.setRemote(projectDir, repoName); err != nil {
		return p.fail("set remote", err)
	}
	if err := p.push(projectDir); err != nil {
		return p.fail("push", err)
	}

	p.logger.Info().Str("repo", repoName).Msg("github publish completed")
	return nil
}

// fail wraps a step failure, scrubbing the token from the message.
func (p *Publisher) fail(step string, err error) error {
	return fmt.Errorf("%w: %s: %s", ErrPublishFailed, step, p.scrub(err.Error()))
}

// scrub removes the access token (raw and URL-escaped) from s.
func (p *Publisher) scrub(s string) string {
	if p.token == "" {
		return s
	}
	s = strings.ReplaceAll(s, p.token, "[REDACTED]")
	if escaped := url.QueryEscape(p.token); escaped != p.token {
		s = strings.ReplaceAll(s, escaped, "[REDACTED]")
	}
	return s
}

type createRepoRequest struct {
	Name     string `json:"name"`
	Private  bool   `json:"private"`
	AutoInit bool   `json:"auto_init"`
}

// createRepo issues the create-repository call. HTTP 422 means the
// repository already exists and counts as success.
func (p *Publisher) createRepo(ctx context.Context, repoName string) error {
	body, err := json.Marshal(createRepoRequest{Name: repoName, Private: true, AutoInit: false})
	if err != nil {
		return fmt.Errorf("marshal create request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL+"/user/repos", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build create request: %w", err)
	}
	req.Header.Set("Authorization", "token "+p.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "quorum")

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("create repo request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusCreated:
		p.logger.Info().Str("repo", repoName).Msg("created github repository")
		return nil
	case resp.StatusCode == http.StatusUnprocessableEntity:
		// Validation conflict, commonly "name already exists".
		p.logger.Info().Str("repo", repoName).Msg("github repository already exists")
		return nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		p.logger.Info().Str("repo", repoName).Int("status", resp.StatusCode).Msg("github repo create returned")
		return nil
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("github repo create failed: HTTP %d %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
}

// initAndCommit initializes the project repository and creates the initial
// commit on main. The commit is allowed to be empty: an empty project still
// publishes.
func (p *Publisher) initAndCommit(projectDir string) error {
	steps := [][]string{
		{"init"},
		{"config", "user.email", p.gitEmail},
		{"config", "user.name", p.gitName},
		{"add", "."},
		{"commit", "--allow-empty", "-m", "Initial PoC"},
		{"branch", "-M", "main"},
	}
	for _, args := range steps {
		if _, err := p.git.RunGit(projectDir, args...); err != nil {
			return err
		}
	}
	return nil
}

// setRemote points origin at the created repository, updating the URL if the
// remote already exists. The token rides in the URL for push authentication.
func (p *Publisher) setRemote(projectDir, repoName string) error {
	remoteURL := fmt.Sprintf("https://%s:%s@github.com/%s/%s.git",
		p.user, url.QueryEscape(p.token), p.user, repoName)

	if _, err := p.git.RunGit(projectDir, "remote", "get-url", "origin"); err == nil {
		_, err = p.git.RunGit(projectDir, "remote", "set-url", "origin", remoteURL)
		return err
	}
	_, err := p.git.RunGit(projectDir, "remote", "add", "origin", remoteURL)
	return err
}

// push pushes main with upstream tracking.
func (p *Publisher) push(projectDir string) error {
	_, err := p.git.RunGit(projectDir, "push", "-u", "origin", "main")
	return err
}
