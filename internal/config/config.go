// Package config loads and validates the environment at startup. Other
// packages receive typed values and never read os.Getenv themselves.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"crush-calc/internal/commentary"
)

// Config is the fully parsed application configuration.
type Config struct {
	// Server
	Port     string // default "8080"
	Env      string // "development" | "staging" | "production"
	LogLevel string // zap level name, default "info"

	// Observability
	ServiceName string // OTEL_SERVICE_NAME, default "crush-calc"
	OTelLogs    bool   // export zap logs over OTLP as well as stdout

	// Commentary. Gemini is the primary provider; Anthropic is used as the
	// fallback when both keys are set, or alone when only it is. With no key
	// at all the calculator shows the fixed "no key" comments.
	GeminiAPIKey      string
	GeminiModel       string // default "gemini-2.5-flash"
	GeminiBaseURL     string // empty means the public endpoint
	AnthropicAPIKey   string
	AnthropicModel    string // default "claude-3-5-haiku-latest"
	CommentaryTimeout time.Duration

	// Sessions
	SessionTTL  time.Duration // idle eviction; 0 disables
	MaxSessions int           // 0 means unlimited
}

const (
	DefaultPort           = "8080"
	DefaultServiceName    = "crush-calc"
	DefaultGeminiModel    = "gemini-2.5-flash"
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
)

// Load reads .env when present, then the process environment, and returns a
// validated Config. Real environment variables win over .env values.
func Load() (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	var errs []error
	c := &Config{
		Port:              getEnv("PORT", DefaultPort),
		Env:               getEnv("ENV", "production"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		ServiceName:       getEnv("OTEL_SERVICE_NAME", DefaultServiceName),
		OTelLogs:          getEnvAsBool("OTEL_LOGS_ENABLED", false, &errs),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnv("GEMINI_MODEL", DefaultGeminiModel),
		GeminiBaseURL:     os.Getenv("GEMINI_BASE_URL"),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:    getEnv("ANTHROPIC_MODEL", DefaultAnthropicModel),
		CommentaryTimeout: getEnvAsDuration("COMMENTARY_TIMEOUT", 10*time.Second, &errs),
		SessionTTL:        getEnvAsDuration("SESSION_TTL", 30*time.Minute, &errs),
		MaxSessions:       getEnvAsInt("MAX_SESSIONS", 10000, &errs),
	}

	if err := errors.Join(append(errs, c.validate())...); err != nil {
		return nil, err
	}
	return c, nil
}

// Development reports whether ENV selects the development logger.
func (c *Config) Development() bool {
	return c.Env == "development"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Commentary returns the provider settings for commentary.NewProvider.
func (c *Config) Commentary() commentary.Settings {
	return commentary.Settings{
		GeminiAPIKey:    c.GeminiAPIKey,
		GeminiModel:     c.GeminiModel,
		GeminiBaseURL:   c.GeminiBaseURL,
		AnthropicAPIKey: c.AnthropicAPIKey,
		AnthropicModel:  c.AnthropicModel,
		Timeout:         c.CommentaryTimeout,
	}
}

func (c *Config) validate() error {
	var errs []error

	if n, err := strconv.Atoi(c.Port); err != nil || n <= 0 || n > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %q", c.Port))
	}

	switch c.Env {
	case "development", "staging", "production":
	default:
		errs = append(errs, fmt.Errorf("invalid ENV %q: want development, staging or production", c.Env))
	}

	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL: %w", err))
	}

	if c.CommentaryTimeout <= 0 {
		errs = append(errs, fmt.Errorf("COMMENTARY_TIMEOUT must be positive, got %s", c.CommentaryTimeout))
	}
	if c.SessionTTL < 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL must not be negative, got %s", c.SessionTTL))
	}
	if c.MaxSessions < 0 {
		errs = append(errs, fmt.Errorf("MAX_SESSIONS must not be negative, got %d", c.MaxSessions))
	}

	return errors.Join(errs...)
}

// LoadDotEnv loads path into the environment when it exists. Variables that
// are already set are not overridden.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load %s: %w", path, err)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int, errs *[]error) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s %q: %w", key, valueStr, err))
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go duration syntax ("750ms", "5m") or a bare
// integer number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(value) * time.Second
	}
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s %q: %w", key, valueStr, err))
		return defaultValue
	}
	return duration
}

func getEnvAsBool(key string, defaultValue bool, errs *[]error) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s %q: %w", key, valueStr, err))
		return defaultValue
	}
	return value
}
