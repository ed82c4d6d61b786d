package inference

import "parsverse/pkg/config"

// NewGroq creates an adapter for Groq's OpenAI-compatible API. Groq accepts
// JSON object mode but not strict schemas, so structured outputs stay off.
func NewGroq(apiKey string, model string) *OpenAI {
	if model == "" {
		model = "llama-3.1-8b-instant"
	}
	return newCompatible(config.ProviderGroq, apiKey, model, config.GroqBaseURL, false)
}
