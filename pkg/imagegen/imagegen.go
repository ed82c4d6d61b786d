// Package imagegen wraps the image providers behind one small interface.
// A provider failure is never an error for the caller: Generate returns nil
// and the failure is logged.
package imagegen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"parsverse/pkg/config"
	"parsverse/pkg/metrics"
)

var errMissingCredential = errors.New("missing image provider credential")

// Generator produces image bytes for a prompt, or nil when no image is available.
type Generator interface {
	Generate(ctx context.Context, prompt, negative, size string) []byte
	Backend() Backend
}

// Backend describes the active image provider and model.
type Backend struct {
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
	Enabled  bool   `json:"enabled"`
}

func (b Backend) String() string {
	if !b.Enabled {
		return "disabled"
	}
	return b.Provider + "/" + b.Model
}

// New builds the image backend selected by cfg, wrapped in Throttled.
func New(ctx context.Context, cfg config.Config) (Generator, error) {
	var g Generator
	switch cfg.Image.Provider {
	case "", config.ImageNone:
		return Disabled{}, nil
	case config.ProviderOpenAI:
		g = NewOpenAI(cfg.OpenAI.APIKey, cfg.Image.Model, cfg.OpenAI.BaseURL)
	case config.ProviderGemini:
		gem, err := NewGemini(ctx, cfg.Gemini.APIKey, cfg.Image.Model)
		if err != nil {
			return nil, err
		}
		g = gem
	default:
		return nil, fmt.Errorf("unsupported image provider %q", cfg.Image.Provider)
	}
	return NewThrottled(g, cfg.Image.Interval, cfg.Image.CacheTTL), nil
}

// Disabled is the backend used when no image provider is configured.
type Disabled struct{}

func (Disabled) Generate(context.Context, string, string, string) []byte { return nil }

func (Disabled) Backend() Backend { return Backend{Provider: config.ImageNone} }

// generateFunc adapts a provider call that can fail into Generator semantics.
func generateFunc(ctx context.Context, b Backend, fn func(context.Context) ([]byte, error)) []byte {
	data, err := fn(ctx)
	switch {
	case err != nil:
		log.Warn("image generation failed", "provider", b.Provider, "model", b.Model, "error", err)
		metrics.ImageRequests.WithLabelValues(b.Provider, "error").Inc()
		return nil
	case len(data) == 0:
		metrics.ImageRequests.WithLabelValues(b.Provider, "empty").Inc()
		return nil
	}
	metrics.ImageRequests.WithLabelValues(b.Provider, "ok").Inc()
	return data
}

// foldNegative appends exclusions to a prompt for providers without a
// negative prompt parameter.
func foldNegative(prompt, negative string) string {
	negative = strings.TrimSpace(negative)
	if negative == "" {
		return prompt
	}
	return strings.TrimSpace(prompt) + "\nAvoid: " + negative + "."
}
