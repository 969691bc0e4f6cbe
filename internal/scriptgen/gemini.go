package scriptgen

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiGenerator writes scripts with the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini-backed script generator.
// model defaults to gemini-2.0-flash when empty.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("scriptgen: gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("scriptgen: create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Script generates a script from the brief.
func (g *GeminiGenerator) Script(ctx context.Context, brief Brief) (string, error) {
	if strings.TrimSpace(brief.Topic) == "" {
		return "", ErrEmptyTopic
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt(brief)), config)
	if err != nil {
		return "", fmt.Errorf("scriptgen: gemini generate: %w", err)
	}

	script := strings.TrimSpace(resp.Text())
	if script == "" {
		return "", ErrEmptyScript
	}
	return script, nil
}

// Compile-time check that GeminiGenerator implements Generator.
var _ Generator = (*GeminiGenerator)(nil)
