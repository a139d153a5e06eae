package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"

	"crush-calc/internal/commentary"
	"crush-calc/internal/session"
)

// withoutProviders keeps a developer's keys (or .env) out of the test so the
// fixed comments are returned.
func withoutProviders(t *testing.T) {
	t.Helper()
	color.NoColor = true
	for _, k := range []string{"GEMINI_API_KEY", "ANTHROPIC_API_KEY", "PORT", "ENV", "LOG_LEVEL", "COMMENTARY_TIMEOUT", "SESSION_TTL", "MAX_SESSIONS", "OTEL_LOGS_ENABLED"} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEvalPrintsResult(t *testing.T) {
	withoutProviders(t)

	out, err := execute(t, "eval", "12+3*2=")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(out, "30") {
		t.Fatalf("expected 30 in output, got %q", out)
	}
}

func TestEvalWithComment(t *testing.T) {
	withoutProviders(t)

	out, err := execute(t, "eval", "--comment", "5", "+", "3", "=")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(out, "8") {
		t.Fatalf("expected 8 in output, got %q", out)
	}
	if !strings.Contains(out, commentary.NoKeyEquation.Message) {
		t.Fatalf("expected no-key comment in output, got %q", out)
	}
}

func TestEvalJSON(t *testing.T) {
	withoutProviders(t)

	out, err := execute(t, "eval", "--json", "7", "*")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var snap session.Snapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", out, err)
	}
	if snap.State.PreviousOperand != "7" || snap.State.Operation != "*" {
		t.Fatalf("unexpected state %+v", snap.State)
	}
}

func TestEvalUnknownKey(t *testing.T) {
	withoutProviders(t)

	if _, err := execute(t, "eval", "2", "sqrt"); err == nil {
		t.Fatal("expected an error for an unknown key")
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if strings.TrimSpace(out) != "dev unknown" {
		t.Fatalf("expected %q, got %q", "dev unknown", out)
	}
}

func TestReplSession(t *testing.T) {
	withoutProviders(t)
	svc := commentary.NewService(nil, nil)
	s := session.New("test", svc, session.Options{})

	in := strings.NewReader("5+3=\nbanana\nflirt\nquit\nAC\n")
	var out bytes.Buffer

	if err := runRepl(context.Background(), s, in, &out); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got := out.String()
	for _, want := range []string{"8", "unknown key", "Thinking of you...", commentary.NoKeyPickup.Message} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output, got %q", want, got)
		}
	}

	// Input after quit is not applied.
	if snap := s.Snapshot(); snap.State.CurrentOperand != "8" {
		t.Fatalf("expected 8 to remain on the display, got %q", snap.State.CurrentOperand)
	}
}
