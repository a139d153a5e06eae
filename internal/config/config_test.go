package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"PORT", "ENV", "LOG_LEVEL", "OTEL_SERVICE_NAME", "OTEL_LOGS_ENABLED",
	"GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL",
	"ANTHROPIC_API_KEY", "ANTHROPIC_MODEL",
	"COMMENTARY_TIMEOUT", "SESSION_TTL", "MAX_SESSIONS",
}

// clearEnv blanks every variable Load reads and runs the test from an empty
// directory so a developer's .env is not picked up.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	c, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if c.Port != DefaultPort {
		t.Fatalf("expected port %q, got %q", DefaultPort, c.Port)
	}
	if c.Addr() != ":8080" {
		t.Fatalf("expected addr :8080, got %q", c.Addr())
	}
	if c.Env != "production" || c.Development() {
		t.Fatalf("expected production env, got %q", c.Env)
	}
	if c.GeminiModel != DefaultGeminiModel {
		t.Fatalf("expected gemini model %q, got %q", DefaultGeminiModel, c.GeminiModel)
	}
	if c.CommentaryTimeout != 10*time.Second {
		t.Fatalf("expected 10s commentary timeout, got %s", c.CommentaryTimeout)
	}
	if c.SessionTTL != 30*time.Minute {
		t.Fatalf("expected 30m session ttl, got %s", c.SessionTTL)
	}
	if c.GeminiAPIKey != "" || c.AnthropicAPIKey != "" {
		t.Fatal("expected no provider keys by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "development")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("COMMENTARY_TIMEOUT", "750ms")
	t.Setenv("SESSION_TTL", "120")
	t.Setenv("MAX_SESSIONS", "5")
	t.Setenv("OTEL_LOGS_ENABLED", "true")

	c, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if c.Port != "9090" || !c.Development() || c.LogLevel != "debug" {
		t.Fatalf("unexpected server config %+v", c)
	}
	if c.GeminiAPIKey != "g-key" {
		t.Fatalf("expected gemini key, got %q", c.GeminiAPIKey)
	}
	if c.CommentaryTimeout != 750*time.Millisecond {
		t.Fatalf("expected 750ms, got %s", c.CommentaryTimeout)
	}
	if c.SessionTTL != 2*time.Minute {
		t.Fatalf("expected bare integer as seconds, got %s", c.SessionTTL)
	}
	if c.MaxSessions != 5 || !c.OTelLogs {
		t.Fatalf("unexpected session config %+v", c)
	}
}

func TestLoadReportsEveryInvalidValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "http")
	t.Setenv("ENV", "qa")
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("COMMENTARY_TIMEOUT", "soon")
	t.Setenv("MAX_SESSIONS", "-1")

	_, err := Load()
	if err == nil {
		t.Fatal("expected an error")
	}

	for _, want := range []string{"PORT", "ENV", "LOG_LEVEL", "COMMENTARY_TIMEOUT", "MAX_SESSIONS"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to mention %s, got %v", want, err)
		}
	}
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("GEMINI_MODEL=from-file\nANTHROPIC_MODEL=from-file\n"), 0o600); err != nil {
		t.Fatalf("writing .env: %v", err)
	}

	// t.Setenv registers cleanup for keys godotenv sets below.
	t.Setenv("ANTHROPIC_MODEL", "from-env")
	os.Unsetenv("GEMINI_MODEL")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got := os.Getenv("GEMINI_MODEL"); got != "from-file" {
		t.Fatalf("expected GEMINI_MODEL from file, got %q", got)
	}
	if got := os.Getenv("ANTHROPIC_MODEL"); got != "from-env" {
		t.Fatalf("expected ANTHROPIC_MODEL from env, got %q", got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
}

func TestCommentarySettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("ANTHROPIC_API_KEY", "a-key")
	t.Setenv("COMMENTARY_TIMEOUT", "3s")

	c, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	s := c.Commentary()
	if s.GeminiAPIKey != "g-key" || s.AnthropicAPIKey != "a-key" {
		t.Fatalf("expected both keys, got %+v", s)
	}
	if s.AnthropicModel != DefaultAnthropicModel || s.Timeout != 3*time.Second {
		t.Fatalf("unexpected settings %+v", s)
	}
}
