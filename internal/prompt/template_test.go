package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRender_Vars(t *testing.T) {
	out, err := Render("Architect's Specification:\n\n{{architect_output}}", Vars{
		"architect_output": "use sqlite",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Architect's Specification:\n\nuse sqlite" {
		t.Errorf("got %q", out)
	}
}

func TestRender_MissingVar(t *testing.T) {
	_, err := Render("{{a}} and {{b}}", Vars{"a": "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "b") {
		t.Errorf("error should name the missing variable: %v", err)
	}
}

func TestRender_Conditional(t *testing.T) {
	tmpl := "idea\n{{#if transcript}}Debate so far:\n{{transcript}}{{/if}}"

	out, err := Render(tmpl, Vars{"transcript": "VC: looks risky"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "VC: looks risky") {
		t.Errorf("conditional body missing: %q", out)
	}

	out, err = Render(tmpl, Vars{"transcript": ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "Debate so far") {
		t.Errorf("empty variable must drop the block: %q", out)
	}
}

func TestRender_NestedConditionals(t *testing.T) {
	tmpl := "{{#if a}}A{{#if b}}B{{/if}}{{/if}}"

	out, err := Render(tmpl, Vars{"a": "1", "b": "1"})
	if err != nil || out != "AB" {
		t.Errorf("got %q, %v", out, err)
	}

	out, err = Render(tmpl, Vars{"a": "1", "b": ""})
	if err != nil || out != "A" {
		t.Errorf("got %q, %v", out, err)
	}
}

func TestRender_DanglingClose(t *testing.T) {
	if _, err := Render("text {{/if}}", nil); err == nil {
		t.Error("expected error for dangling close")
	}
}

func TestRender_UnclosedOpen(t *testing.T) {
	if _, err := Render("{{#if a}}text", Vars{"a": "1"}); err == nil {
		t.Error("expected error for unclosed block")
	}
}

func TestLoad_Builtin(t *testing.T) {
	tmpl, err := Load(TemplateBackend, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(tmpl, "{{architect_output}}") {
		t.Errorf("unexpected builtin: %q", tmpl)
	}
}

func TestLoad_Override(t *testing.T) {
	dir := t.TempDir()
	custom := "Custom backend prompt: {{architect_output}}"
	if err := os.WriteFile(filepath.Join(dir, TemplateBackend), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	tmpl, err := Load(TemplateBackend, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tmpl != custom {
		t.Errorf("override not used: %q", tmpl)
	}
}

func TestLoad_OverrideEscapeRejected(t *testing.T) {
	if _, err := Load("../secrets.md", t.TempDir()); err == nil {
		t.Error("expected traversal rejection")
	}
}

func TestLoad_Unknown(t *testing.T) {
	if _, err := Load("nope.md", ""); err == nil {
		t.Error("expected error for unknown template")
	}
}
