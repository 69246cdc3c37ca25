// Package tools provides the toolset bound to pipeline agents: file
// operations rooted at the shared workspace, plus shell execution. The
// toolset is shared read-write across all stages of one run so later stages
// see earlier stages' writes.
package tools

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/quorumkit/quorum/internal/llm"
)

// shellTimeout bounds one shell invocation. Agents run build commands, not
// servers, so a short ceiling is enough.
const shellTimeout = 5 * time.Minute

// Toolset implements llm.Dispatcher over a workspace directory.
type Toolset struct {
	baseDir string
}

// NewToolset creates a toolset rooted at baseDir. All file paths the model
// supplies are resolved relative to this root.
func NewToolset(baseDir string) *Toolset {
	return &Toolset{baseDir: baseDir}
}

// BaseDir returns the workspace root the toolset operates in.
func (t *Toolset) BaseDir() string {
	return t.baseDir
}

// resolve joins a model-supplied relative path onto the base directory,
// rejecting paths that escape it.
func (t *Toolset) resolve(rel string) (string, error) {
	if rel == "" {
		return t.baseDir, nil
	}
	joined := filepath.Join(t.baseDir, rel)
	absJoined, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", rel, err)
	}
	absBase, err := filepath.Abs(t.baseDir)
	if err != nil {
		return "", fmt.Errorf("resolve workspace root: %w", err)
	}
	if absJoined != absBase && !strings.HasPrefix(absJoined, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes the workspace", rel)
	}
	return absJoined, nil
}

// Declarations describes the callable tools for the model request.
func (t *Toolset) Declarations() []llm.FunctionDeclaration {
	pathParam := func(desc string) *llm.Schema {
		return &llm.Schema{Type: "string", Description: desc}
	}
	return []llm.FunctionDeclaration{
		{
			Name:        "save_file",
			Description: "Write a text file inside the workspace, creating parent directories as needed.",
			Parameters: &llm.Schema{
				Type: "object",
				Properties: map[string]*llm.Schema{
					"path":     pathParam("File path relative to the workspace root."),
					"contents": {Type: "string", Description: "Full file contents."},
				},
				Required: []string{"path", "contents"},
			},
		},
		{
			Name:        "read_file",
			Description: "Read a text file from the workspace.",
			Parameters: &llm.Schema{
				Type: "object",
				Properties: map[string]*llm.Schema{
					"path": pathParam("File path relative to the workspace root."),
				},
				Required: []string{"path"},
			},
		},
		{
			Name:        "list_files",
			Description: "List files and directories under a workspace path.",
			Parameters: &llm.Schema{
				Type: "object",
				Properties: map[string]*llm.Schema{
					"path": pathParam("Directory path relative to the workspace root; empty for the root."),
				},
			},
		},
		{
			Name:        "delete_file",
			Description: "Delete a file or empty directory inside the workspace.",
			Parameters: &llm.Schema{
				Type: "object",
				Properties: map[string]*llm.Schema{
					"path": pathParam("Path relative to the workspace root."),
				},
				Required: []string{"path"},
			},
		},
		{
			Name:        "run_shell",
			Description: "Run a shell command inside the workspace and return its combined output.",
			Parameters: &llm.Schema{
				Type: "object",
				Properties: map[string]*llm.Schema{
					"command": {Type: "string", Description: "Command line to execute with sh -c."},
					"workdir": pathParam("Working directory relative to the workspace root; empty for the root."),
				},
				Required: []string{"command"},
			},
		},
	}
}

// Dispatch executes one tool call by name.
func (t *Toolset) Dispatch(ctx context.Context, name string, args map[string]any) (string, error) {
	switch name {
	case "save_file":
		return t.saveFile(stringArg(args, "path"), stringArg(args, "contents"))
	case "read_file":
		return t.readFile(stringArg(args, "path"))
	case "list_files":
		return t.listFiles(stringArg(args, "path"))
	case "delete_file":
		return t.deleteFile(stringArg(args, "path"))
	case "run_shell":
		return t.runShell(ctx, stringArg(args, "command"), stringArg(args, "workdir"))
	default:
		return "", fmt.Errorf("unknown tool %q", name)
	}
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func (t *Toolset) saveFile(rel, contents string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("save_file: path is required")
	}
	path, err := t.resolve(rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("mkdir for %q: %w", rel, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return "", fmt.Errorf("write %q: %w", rel, err)
	}
	return fmt.Sprintf("saved %s (%d bytes)", rel, len(contents)), nil
}

func (t *Toolset) readFile(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("read_file: path is required")
	}
	path, err := t.resolve(rel)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %q: %w", rel, err)
	}
	return string(data), nil
}

func (t *Toolset) listFiles(rel string) (string, error) {
	path, err := t.resolve(rel)
	if err != nil {
		return "", err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return "", fmt.Errorf("list %q: %w", rel, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return "(empty)", nil
	}
	return strings.Join(names, "\n"), nil
}

func (t *Toolset) deleteFile(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("delete_file: path is required")
	}
	path, err := t.resolve(rel)
	if err != nil {
		return "", err
	}
	if err := os.Remove(path); err != nil {
		return "", fmt.Errorf("delete %q: %w", rel, err)
	}
	return fmt.Sprintf("deleted %s", rel), nil
}

func (t *Toolset) runShell(ctx context.Context, command, workdir string) (string, error) {
	if command == "" {
		return "", fmt.Errorf("run_shell: command is required")
	}
	dir, err := t.resolve(workdir)
	if err != nil {
		return "", err
	}

	runCtx, cancel := context.WithTimeout(ctx, shellTimeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "sh", "-c", command)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("sh -c %q: %s: %w", command, strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}
