package commentary

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicConfig configures the Anthropic provider.
type AnthropicConfig struct {
	APIKey  string
	Model   string // e.g. "claude-3-5-haiku-latest"
	BaseURL string // optional override, used by tests
	Timeout time.Duration
}

type anthropicClient struct {
	client anthropic.Client
	model  string
}

// NewAnthropicClient returns a Provider backed by the Anthropic Messages API.
func NewAnthropicClient(cfg AnthropicConfig) Provider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
		// Failures fall back to a fixed comment; retrying only delays it.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &anthropicClient{
		client: anthropic.NewClient(opts...),
		model:  cfg.Model,
	}
}

func (c *anthropicClient) EquationComment(ctx context.Context, equation, result string) (Comment, error) {
	return c.generate(ctx, equationPrompt(equation, result))
}

func (c *anthropicClient) PickupLine(ctx context.Context) (Comment, error) {
	return c.generate(ctx, pickupLinePrompt)
}

func (c *anthropicClient) generate(ctx context.Context, prompt string) (Comment, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 256,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return Comment{}, fmt.Errorf("anthropic: messages: %w", err)
	}

	for _, block := range msg.Content {
		if block.Type != "text" {
			continue
		}
		comment, err := parseComment(block.Text)
		if err != nil {
			return Comment{}, fmt.Errorf("anthropic: %w", err)
		}
		return comment, nil
	}

	return Comment{}, fmt.Errorf("anthropic: no text content in response")
}
