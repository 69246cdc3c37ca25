// Package pipeline persists per-run state and stage artifacts on disk.
// Runs are written for observability and manual recovery; they are not
// resumable — a failed run restarts from the first stage.
package pipeline

// Run statuses.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// StageRecord summarizes one completed stage within a run.
type StageRecord struct {
	Stage      string `json:"stage"`
	Outcome    string `json:"outcome"` // "success" or "fail"
	DurationMs int64  `json:"duration_ms"`
}

// RunState is the persisted state of one pipeline run.
type RunState struct {
	ID           string        `json:"id"`
	Request      string        `json:"request"`
	Status       string        `json:"status"`
	CurrentStage string        `json:"current_stage,omitempty"`
	Stages       []StageRecord `json:"stages"`
	Result       string        `json:"result,omitempty"`
	Error        string        `json:"error,omitempty"`
	CreatedAt    string        `json:"created_at"`
	UpdatedAt    string        `json:"updated_at"`
}
