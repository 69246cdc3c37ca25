package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Store manages run state and stage artifacts on disk.
// Layout: <baseDir>/<run-id>/run.json plus per-stage prompt and output files.
type Store struct {
	baseDir string

	// now is injectable for tests.
	now func() time.Time
}

// NewStore creates a Store rooted at baseDir, creating the directory if needed.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", baseDir, err)
	}
	return &Store{baseDir: baseDir, now: time.Now}, nil
}

// BaseDir returns the store's root directory.
func (s *Store) BaseDir() string {
	return s.baseDir
}

func (s *Store) runDir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

func (s *Store) statePath(runID string) string {
	return filepath.Join(s.runDir(runID), "run.json")
}

func (s *Store) stageDir(runID, stage string) string {
	return filepath.Join(s.runDir(runID), "stages", stage)
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// Create initialises a new run on disk.
func (s *Store) Create(runID, request string) (*RunState, error) {
	dir := s.runDir(runID)
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("run %s already exists", runID)
	}

	if err := os.MkdirAll(filepath.Join(dir, "stages"), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir stages: %w", err)
	}

	now := s.timestamp()
	rs := &RunState{
		ID:        runID,
		Request:   request,
		Status:    StatusInProgress,
		Stages:    []StageRecord{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := WriteJSON(s.statePath(runID), rs); err != nil {
		return nil, fmt.Errorf("write run.json: %w", err)
	}
	return rs, nil
}

// Get reads the state of a run.
func (s *Store) Get(runID string) (*RunState, error) {
	var rs RunState
	if err := ReadJSON(s.statePath(runID), &rs); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("run %s not found", runID)
		}
		return nil, err
	}
	return &rs, nil
}

// Update performs an atomic read-modify-write of the run state.
func (s *Store) Update(runID string, fn func(*RunState)) error {
	rs, err := s.Get(runID)
	if err != nil {
		return err
	}
	fn(rs)
	rs.UpdatedAt = s.timestamp()
	return WriteJSON(s.statePath(runID), rs)
}

// List returns all runs, optionally filtered by status.
// Pass "" for statusFilter to return all runs.
func (s *Store) List(statusFilter string) ([]RunState, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dir %s: %w", s.baseDir, err)
	}

	var runs []RunState
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		rs, err := s.Get(entry.Name())
		if err != nil {
			continue // skip broken entries
		}
		if statusFilter == "" || rs.Status == statusFilter {
			runs = append(runs, *rs)
		}
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAt != runs[j].CreatedAt {
			return runs[i].CreatedAt < runs[j].CreatedAt
		}
		return runs[i].ID < runs[j].ID
	})
	return runs, nil
}

// Delete removes all data for a run.
func (s *Store) Delete(runID string) error {
	dir := s.runDir(runID)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("run %s not found", runID)
	}
	return os.RemoveAll(dir)
}

// SavePrompt writes the rendered prompt for a stage.
func (s *Store) SavePrompt(runID, stage, prompt string) error {
	return WriteAtomic(filepath.Join(s.stageDir(runID, stage), "prompt.md"), []byte(prompt))
}

// SaveOutput writes the model output for a stage.
func (s *Store) SaveOutput(runID, stage, output string) error {
	return WriteAtomic(filepath.Join(s.stageDir(runID, stage), "output.md"), []byte(output))
}

// GetPrompt reads the rendered prompt for a stage.
func (s *Store) GetPrompt(runID, stage string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.stageDir(runID, stage), "prompt.md"))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GetOutput reads the model output for a stage.
func (s *Store) GetOutput(runID, stage string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.stageDir(runID, stage), "output.md"))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
