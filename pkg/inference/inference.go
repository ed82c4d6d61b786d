package inference

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"parsverse/pkg/config"
	"parsverse/pkg/metrics"
)

// ErrMissingCredential is returned by Complete when the adapter has no API
// key, before any request is made.
var ErrMissingCredential = errors.New("missing provider credential")

// Completer turns a prompt into text.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// SchemaCompleter is implemented by providers that can be told to answer
// with a JSON object.
type SchemaCompleter interface {
	Completer
	CompleteJSON(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// Backend names the provider and model behind a Completer.
type Backend struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

func (b Backend) String() string {
	return b.Provider + "/" + b.Model
}

// New builds the text completion adapter selected by cfg.
func New(ctx context.Context, cfg config.Config) (Completer, error) {
	active := cfg.Active()
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAI(active.APIKey, active.Model, active.BaseURL, cfg.StructuredOutputs), nil
	case config.ProviderGroq:
		return NewGroq(active.APIKey, active.Model), nil
	case config.ProviderGemini:
		return NewGemini(ctx, active.APIKey, active.Model)
	}
	return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
}

// IsResponseFormatUnsupported reports whether a provider rejected the
// requested JSON response format rather than the prompt itself.
func IsResponseFormatUnsupported(err error) bool {
	if err == nil || errors.Is(err, ErrMissingCredential) {
		return false
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "response_format"):
		return true
	case strings.Contains(msg, "json_schema"):
		return true
	case strings.Contains(msg, "json_validate_failed"):
		return true
	case strings.Contains(msg, "unknown parameter") && strings.Contains(msg, "response"):
		return true
	case strings.Contains(msg, "response_schema"):
		return true
	default:
		return false
	}
}

func observe(b Backend, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.LLMCallTotal.WithLabelValues(b.Provider, b.Model, status).Inc()
	metrics.LLMCallDuration.WithLabelValues(b.Provider, b.Model).Observe(time.Since(start).Seconds())
}
