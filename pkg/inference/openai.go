package inference

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"

	"parsverse/pkg/schema"
)

const systemPrompt = "You are ParsVerse, a careful storyteller and historian of ancient Iran. Follow the user's rules exactly."

// OpenAI implements SchemaCompleter using OpenAI's official Go SDK. It also
// serves any OpenAI-compatible endpoint through a base URL.
type OpenAI struct {
	client     *openai.Client
	provider   string
	apiKey     string
	model      string
	structured bool
	// keyless endpoints, such as a local OpenAI-compatible server, need no key.
	keyless bool
}

// NewOpenAI creates an adapter for api.openai.com, or for baseURL when set.
// With structured enabled, JSON requests carry the persona JSON schema.
func NewOpenAI(apiKey, model, baseURL string, structured bool) *OpenAI {
	o := newCompatible("openai", apiKey, model, baseURL, structured)
	o.keyless = baseURL != ""
	return o
}

func newCompatible(provider, apiKey, model, baseURL string, structured bool) *OpenAI {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	return &OpenAI{
		client:     &client,
		provider:   provider,
		apiKey:     apiKey,
		model:      model,
		structured: structured,
	}
}

func (o *OpenAI) Backend() Backend {
	return Backend{Provider: o.provider, Model: o.model}
}

// Complete sends the prompt to the chat completion endpoint and returns the output.
func (o *OpenAI) Complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	return o.complete(ctx, o.params(prompt, temperature, maxTokens))
}

// CompleteJSON is Complete with a JSON response format.
func (o *OpenAI) CompleteJSON(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	params := o.params(prompt, temperature, maxTokens)
	if o.structured {
		params.ResponseFormat = schema.PersonaResponseFormat()
	} else {
		params.ResponseFormat = schema.JSONObjectResponseFormat()
	}
	return o.complete(ctx, params)
}

func (o *OpenAI) params(prompt string, temperature float64, maxTokens int) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Role: "system",
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: param.Opt[string]{Value: systemPrompt},
					},
				}},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Role: "user",
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: param.Opt[string]{Value: prompt},
					},
				},
			},
		},
		MaxCompletionTokens: openai.Int(int64(maxTokens)),
		Temperature:         openai.Float(temperature),
		TopP:                openai.Float(1.0),
	}
}

func (o *OpenAI) complete(ctx context.Context, params openai.ChatCompletionNewParams) (out string, err error) {
	if o.apiKey == "" && !o.keyless {
		return "", fmt.Errorf("%s: %w", o.provider, ErrMissingCredential)
	}

	start := time.Now()
	defer func() { observe(o.Backend(), start, err) }()

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%s inference error: %w", o.provider, err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("empty completion content")
	}

	log.Debug("completion", "provider", o.provider, "model", o.model,
		"prompt_tokens", resp.Usage.PromptTokens, "completion_tokens", resp.Usage.CompletionTokens)
	return content, nil
}
