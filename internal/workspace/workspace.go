// Package workspace manages the shared directory tree that pipeline agents
// write projects into.
//
// The workspace is process-wide shared mutable state: concurrent pipeline
// runs write into the same root and can interfere with each other's files
// and with project resolution. That limitation is inherited deliberately;
// nothing here serializes access.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MarkerFile names the active project directory by convention. The reviewer
// stage writes it at the workspace root.
const MarkerFile = "project_name.txt"

// ErrNoProject indicates the workspace contains no candidate project
// directory.
var ErrNoProject = errors.New("no project directory found in workspace")

// Workspace is a handle on one workspace root.
type Workspace struct {
	root string
}

// New creates a handle rooted at root, creating the directory if needed.
func New(root string) (*Workspace, error) {
	if root == "" {
		return nil, fmt.Errorf("workspace root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace %s: %w", root, err)
	}
	return &Workspace{root: root}, nil
}

// Root returns the workspace root directory.
func (w *Workspace) Root() string {
	return w.root
}

// Resolve locates the project directory for the current run.
//
// Primary rule: if the marker file names an existing subdirectory, that
// directory wins regardless of modification times. Fallback: the most
// recently modified immediate subdirectory. Zero subdirectories resolve to
// ErrNoProject. This is a heuristic; concurrent runs sharing the root can
// resolve to the wrong directory.
func (w *Workspace) Resolve() (string, error) {
	if name := w.markerName(); name != "" {
		candidate := filepath.Join(w.root, name)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
	}

	entries, err := os.ReadDir(w.root)
	if err != nil {
		return "", fmt.Errorf("read workspace %s: %w", w.root, err)
	}

	var newest string
	var newestMod int64
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); newest == "" || mod > newestMod {
			newest = e.Name()
			newestMod = mod
		}
	}
	if newest == "" {
		return "", ErrNoProject
	}
	return filepath.Join(w.root, newest), nil
}

// markerName reads the marker file, returning "" when absent or empty.
func (w *Workspace) markerName() string {
	data, err := os.ReadFile(filepath.Join(w.root, MarkerFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
