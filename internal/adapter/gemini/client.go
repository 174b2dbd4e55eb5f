// internal/adapter/gemini/client.go

package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// ErrNotConfigured is returned by the generator when no API key was supplied
var ErrNotConfigured = errors.New("gemini API key not configured")

// Config holds the Gemini client settings
type Config struct {
	APIKey string
	Model  string
}

// Generator sends prompts to a hosted Gemini model
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a Gemini-backed text generator
func NewGenerator(ctx context.Context, cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return &Generator{model: cfg.Model}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create gemini client: %w", err)
	}

	return &Generator{
		client: client,
		model:  cfg.Model,
	}, nil
}

// Configured reports whether the generator can reach the model
func (g *Generator) Configured() bool {
	return g.client != nil
}

// Generate sends the prompt and returns the response text
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.client == nil {
		return "", ErrNotConfigured
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	return resp.Text(), nil
}
