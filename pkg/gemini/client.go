package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/platewise/platewise-backend/pkg/config"
)

// Client is a thin wrapper around the Gemini SDK exposing plain-text
// generation. Callers own prompt construction and response parsing.
type Client struct {
	inner *genai.Client
	model string
}

// New creates a Gemini client from configuration. The API key travels via
// the GOOGLE_API_KEY / GEMINI_API_KEY env vars the SDK reads, or explicitly
// through cfg.
func New(ctx context.Context, cfg config.GeminiConfig) (*Client, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("gemini api key is required")
	}
	inner, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{inner: inner, model: cfg.Model}, nil
}

// Generate sends a single text prompt and returns the raw model text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := c.inner.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}
