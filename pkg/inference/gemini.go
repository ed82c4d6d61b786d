package inference

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini adapter. Without an API key the adapter is
// still returned, and every call fails with ErrMissingCredential.
func NewGemini(ctx context.Context, apiKey string, model string) (*Gemini, error) {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	g := &Gemini{model: model}
	if apiKey == "" {
		return g, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	g.client = client
	return g, nil
}

func (g *Gemini) Backend() Backend {
	return Backend{Provider: "gemini", Model: g.model}
}

func (g *Gemini) Complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	return g.generate(ctx, prompt, g.config(temperature, maxTokens))
}

// CompleteJSON asks Gemini for an application/json response.
func (g *Gemini) CompleteJSON(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	config := g.config(temperature, maxTokens)
	config.ResponseMIMEType = "application/json"
	return g.generate(ctx, prompt, config)
}

func (g *Gemini) config(temperature float64, maxTokens int) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(float32(temperature)),
		MaxOutputTokens:   int32(maxTokens),
	}
}

func (g *Gemini) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (out string, err error) {
	if g.client == nil {
		return "", fmt.Errorf("gemini: %w", ErrMissingCredential)
	}

	start := time.Now()
	defer func() { observe(g.Backend(), start, err) }()

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini inference error: %w", err)
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", errors.New("empty completion content")
	}
	return text, nil
}
