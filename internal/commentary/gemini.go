package commentary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when GeminiConfig.Model is empty.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiConfig configures the Gemini provider. The credential is passed in
// explicitly; nothing here reads the environment.
type GeminiConfig struct {
	APIKey  string
	Model   string // default DefaultGeminiModel
	BaseURL string // optional override, used by tests
	Timeout time.Duration
}

type geminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient returns a Provider backed by the Gemini API.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}

	return &geminiClient{client: client, model: cfg.Model}, nil
}

// commentSchema constrains the model to {"message": string, "emoji": string}.
var commentSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"message": {Type: genai.TypeString},
		"emoji":   {Type: genai.TypeString},
	},
	Required: []string{"message", "emoji"},
}

func (c *geminiClient) EquationComment(ctx context.Context, equation, result string) (Comment, error) {
	return c.generate(ctx, equationPrompt(equation, result))
}

func (c *geminiClient) PickupLine(ctx context.Context) (Comment, error) {
	return c.generate(ctx, pickupLinePrompt)
}

func (c *geminiClient) generate(ctx context.Context, prompt string) (Comment, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    commentSchema,
		Temperature:       genai.Ptr[float32](1.0),
		MaxOutputTokens:   256,
	})
	if err != nil {
		return Comment{}, fmt.Errorf("gemini: generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return Comment{}, errors.New("gemini: no text in response")
	}

	comment, err := parseComment(raw)
	if err != nil {
		return Comment{}, fmt.Errorf("gemini: %w", err)
	}
	return comment, nil
}
