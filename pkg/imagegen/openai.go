package imagegen

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

type OpenAI struct {
	client *openai.Client
	apiKey string
	model  string
}

func NewOpenAI(apiKey, model, baseURL string) *OpenAI {
	if model == "" {
		model = "gpt-image-1"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	return &OpenAI{client: &client, apiKey: apiKey, model: model}
}

func (o *OpenAI) Backend() Backend {
	return Backend{Provider: "openai", Model: o.model, Enabled: true}
}

func (o *OpenAI) Generate(ctx context.Context, prompt, negative, size string) []byte {
	return generateFunc(ctx, o.Backend(), func(ctx context.Context) ([]byte, error) {
		return o.generate(ctx, foldNegative(prompt, negative), size)
	})
}

func (o *OpenAI) generate(ctx context.Context, prompt, size string) ([]byte, error) {
	if o.apiKey == "" {
		return nil, errMissingCredential
	}
	params := openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModel(o.model),
		N:      openai.Int(1),
	}
	if size != "" {
		params.Size = openai.ImageGenerateParamsSize(size)
	}
	// gpt-image models always answer in base64 and reject response_format.
	if !strings.HasPrefix(o.model, "gpt-image") {
		params.ResponseFormat = openai.ImageGenerateParamsResponseFormatB64JSON
	}

	resp, err := o.client.Images.Generate(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai image error: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, errors.New("no image returned")
	}
	return base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
}
