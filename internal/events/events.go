// Package events records run lifecycle events in Postgres. The log is
// optional: a nil *Log is a no-op, so callers never branch on whether a
// database is configured.
package events

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Event kinds.
const (
	KindRunStarted     = "run_started"
	KindStageStarted   = "stage_started"
	KindStageCompleted = "stage_completed"
	KindRunCompleted   = "run_completed"
	KindRunFailed      = "run_failed"
)

// Log wraps the Postgres connection used for run events.
type Log struct {
	conn *sql.DB
}

// Open connects to Postgres at databaseURL. An empty URL returns a nil
// Log, which disables event recording.
func Open(ctx context.Context, databaseURL string) (*Log, error) {
	if databaseURL == "" {
		return nil, nil
	}
	conn, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Log{conn: conn}, nil
}

// Close closes the database connection.
func (l *Log) Close() error {
	if l == nil {
		return nil
	}
	return l.conn.Close()
}

// Conn returns the underlying *sql.DB for advanced queries.
func (l *Log) Conn() *sql.DB {
	return l.conn
}

const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (
    version    INTEGER PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS run_events (
    id          BIGSERIAL PRIMARY KEY,
    run_id      TEXT NOT NULL,
    kind        TEXT NOT NULL,
    stage       TEXT,
    detail      TEXT,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_run_events_run ON run_events(run_id, created_at DESC);
`

// Migrate applies the database schema.
func (l *Log) Migrate(ctx context.Context) error {
	if l == nil {
		return nil
	}
	var count int
	err := l.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_version WHERE version = 1").Scan(&count)
	if err == nil && count > 0 {
		return nil
	}

	tx, err := l.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("apply schema v1: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (1)"); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

// RunEvent represents a row in the run_events table.
type RunEvent struct {
	ID        int64
	RunID     string
	Kind      string
	Stage     string
	Detail    string
	CreatedAt string
}

// Record inserts a run event. Stage and detail may be empty.
func (l *Log) Record(ctx context.Context, runID, kind, stage, detail string) error {
	if l == nil {
		return nil
	}
	_, err := l.conn.ExecContext(ctx,
		`INSERT INTO run_events (run_id, kind, stage, detail) VALUES ($1, $2, $3, $4)`,
		runID, kind, nullable(stage), nullable(detail),
	)
	if err != nil {
		return fmt.Errorf("record run event: %w", err)
	}
	return nil
}

// History returns all events for a run, oldest first.
func (l *Log) History(ctx context.Context, runID string) ([]RunEvent, error) {
	if l == nil {
		return nil, nil
	}
	rows, err := l.conn.QueryContext(ctx,
		`SELECT id, run_id, kind, stage, detail, created_at::text
		 FROM run_events WHERE run_id = $1 ORDER BY id ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query run events: %w", err)
	}
	defer rows.Close()

	var events []RunEvent
	for rows.Next() {
		var e RunEvent
		var stage, detail sql.NullString
		if err := rows.Scan(&e.ID, &e.RunID, &e.Kind, &stage, &detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run event: %w", err)
		}
		e.Stage = stage.String
		e.Detail = detail.String
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run events: %w", err)
	}
	return events, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
