package events

import (
	"context"
	"testing"
)

// A nil Log must be safe to use everywhere the pipeline records events.
func TestNilLogIsNoOp(t *testing.T) {
	var l *Log

	ctx := context.Background()
	if err := l.Migrate(ctx); err != nil {
		t.Errorf("Migrate on nil log: %v", err)
	}
	if err := l.Record(ctx, "run-1", KindRunStarted, "", ""); err != nil {
		t.Errorf("Record on nil log: %v", err)
	}
	history, err := l.History(ctx, "run-1")
	if err != nil {
		t.Errorf("History on nil log: %v", err)
	}
	if history != nil {
		t.Errorf("History = %+v, want nil", history)
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close on nil log: %v", err)
	}
}

func TestOpenEmptyURLDisablesLog(t *testing.T) {
	l, err := Open(context.Background(), "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if l != nil {
		t.Errorf("Open(\"\") = %v, want nil log", l)
	}
}

func TestNullable(t *testing.T) {
	if v := nullable(""); v != nil {
		t.Errorf("nullable(\"\") = %v, want nil", v)
	}
	if v := nullable("x"); v != "x" {
		t.Errorf("nullable(\"x\") = %v, want \"x\"", v)
	}
}
