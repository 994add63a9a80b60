package extract

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider calls Google Gemini, preferring vision input: Gemini
// reads trade-document scans directly without an OCR pass.
type GeminiProvider struct {
	apiKey string
	model  string
}

// NewGeminiProvider creates a provider.
func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	if model == "" {
		model = "gemini-1.5-pro"
	}
	return &GeminiProvider{apiKey: apiKey, model: model}
}

// ExtractData sends the prompt and optional document image and returns the
// concatenated text response.
func (p *GeminiProvider) ExtractData(ctx context.Context, prompt string, image []byte) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.model)
	model.SetTemperature(0.1)

	parts := []genai.Part{genai.Text(prompt)}
	if len(image) > 0 {
		parts = append(parts, genai.ImageData("jpeg", image))
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	var out string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				out += string(text)
			}
		}
	}
	if out == "" {
		return "", fmt.Errorf("gemini returned no text candidates")
	}
	return out, nil
}
