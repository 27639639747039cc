package summary

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Gemini generates text with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini generator.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &Gemini{client: client, model: model}, nil
}

// Model implements Generator.
func (g *Gemini) Model() string { return g.model }

// Generate implements Generator. Text parts of the first candidate are
// trimmed and joined with newlines.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(float32(0.7)),
		SystemInstruction: genai.NewContentFromText(tutorPersona, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{genai.NewPartFromText(prompt)},
		},
	}, config)
	if err != nil {
		return "", fmt.Errorf("Gemini request failed (model: %s): %w", g.model, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("Gemini response did not include any text")
	}
	var parts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if text := strings.TrimSpace(part.Text); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("Gemini response did not include any text")
	}
	return strings.Join(parts, "\n"), nil
}
