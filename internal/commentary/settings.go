package commentary

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Settings selects and configures the providers behind a Service.
type Settings struct {
	GeminiAPIKey    string
	GeminiModel     string
	GeminiBaseURL   string
	AnthropicAPIKey string
	AnthropicModel  string
	Timeout         time.Duration
}

// NewProvider builds the provider chain described by s: Gemini first,
// Anthropic second, each only when its key is set. It returns nil when no key
// is configured.
func NewProvider(ctx context.Context, s Settings, logger *zap.Logger) (Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var primary, secondary Provider
	if s.GeminiAPIKey != "" {
		gemini, err := NewGeminiClient(ctx, GeminiConfig{
			APIKey:  s.GeminiAPIKey,
			Model:   s.GeminiModel,
			BaseURL: s.GeminiBaseURL,
			Timeout: s.Timeout,
		})
		if err != nil {
			return nil, err
		}
		primary = gemini
	}
	if s.AnthropicAPIKey != "" {
		secondary = NewAnthropicClient(AnthropicConfig{
			APIKey:  s.AnthropicAPIKey,
			Model:   s.AnthropicModel,
			Timeout: s.Timeout,
		})
	}

	return NewFallbackProvider(primary, secondary, logger), nil
}

// Providers names the configured providers in call order, for startup logs.
func (s Settings) Providers() []string {
	var names []string
	if s.GeminiAPIKey != "" {
		names = append(names, "gemini")
	}
	if s.AnthropicAPIKey != "" {
		names = append(names, "anthropic")
	}
	return names
}
