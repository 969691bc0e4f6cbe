package scriptgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OpenAIGenerator writes scripts with the OpenAI Chat Completions API.
type OpenAIGenerator struct {
	apiKey string
	base   string
	model  string
	client *http.Client
}

// OpenAIOption configures an OpenAIGenerator.
type OpenAIOption func(*OpenAIGenerator)

// WithOpenAIBaseURL sets a custom API base URL.
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(g *OpenAIGenerator) {
		g.base = url
	}
}

// WithOpenAIHTTPClient sets a custom HTTP client.
func WithOpenAIHTTPClient(c *http.Client) OpenAIOption {
	return func(g *OpenAIGenerator) {
		g.client = c
	}
}

// NewOpenAIGenerator creates an OpenAI-backed script generator.
// model defaults to gpt-4o-mini when empty.
func NewOpenAIGenerator(apiKey, model string, opts ...OpenAIOption) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("scriptgen: openai api key is required")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	g := &OpenAIGenerator{
		apiKey: apiKey,
		base:   "https://api.openai.com/v1",
		model:  model,
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Script generates a script from the brief.
func (g *OpenAIGenerator) Script(ctx context.Context, brief Brief) (string, error) {
	if strings.TrimSpace(brief.Topic) == "" {
		return "", ErrEmptyTopic
	}

	reqBody := struct {
		Model    string        `json:"model"`
		Messages []chatMessage `json:"messages"`
	}{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: prompt(brief)},
		},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("scriptgen: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.base+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("scriptgen: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("scriptgen: openai request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("scriptgen: openai http %d", resp.StatusCode)
	}

	var payload struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("scriptgen: decode response: %w", err)
	}

	for _, c := range payload.Choices {
		if script := strings.TrimSpace(c.Message.Content); script != "" {
			return script, nil
		}
	}
	return "", ErrEmptyScript
}

// Compile-time check that OpenAIGenerator implements Generator.
var _ Generator = (*OpenAIGenerator)(nil)
