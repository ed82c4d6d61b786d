package imagegen

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"google.golang.org/genai"
)

type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates an Imagen backend. Without an API key every call
// returns no image.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if model == "" {
		model = "imagen-4.0-generate-001"
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
	return Backend{Provider: "gemini", Model: g.model, Enabled: true}
}

// Generate folds the negative terms into the prompt: the Gemini API does not
// accept a separate negative prompt.
func (g *Gemini) Generate(ctx context.Context, prompt, negative, size string) []byte {
	return generateFunc(ctx, g.Backend(), func(ctx context.Context) ([]byte, error) {
		if g.client == nil {
			return nil, errMissingCredential
		}
		resp, err := g.client.Models.GenerateImages(ctx, g.model, foldNegative(prompt, negative), &genai.GenerateImagesConfig{
			NumberOfImages: 1,
			AspectRatio:    AspectRatio(size),
		})
		if err != nil {
			return nil, fmt.Errorf("gemini image error: %w", err)
		}
		if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
			return nil, errors.New("no image returned")
		}
		return resp.GeneratedImages[0].Image.ImageBytes, nil
	})
}

var aspectRatios = []struct {
	label string
	value float64
}{
	{"1:1", 1},
	{"3:4", 3.0 / 4},
	{"4:3", 4.0 / 3},
	{"9:16", 9.0 / 16},
	{"16:9", 16.0 / 9},
}

// AspectRatio maps a "WxH" size to the closest ratio Imagen supports.
func AspectRatio(size string) string {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(size)), "x")
	if !ok {
		return "1:1"
	}
	width, err1 := strconv.Atoi(w)
	height, err2 := strconv.Atoi(h)
	if err1 != nil || err2 != nil || width <= 0 || height <= 0 {
		return "1:1"
	}
	want := float64(width) / float64(height)
	best := aspectRatios[0]
	for _, r := range aspectRatios[1:] {
		if math.Abs(math.Log(r.value/want)) < math.Abs(math.Log(best.value/want)) {
			best = r
		}
	}
	return best.label
}
