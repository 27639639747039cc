// Package summary generates CBSE study summaries grounded in NCERT chapter
// text.
//
// Text generation sits behind the Generator interface: prompt in, text out.
// OpenAI, Gemini and OpenRouter implementations are provided; NewGenerator
// picks the first one with an API key configured.
package summary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Shimizu-Technology/study-circle-api/internal/config"
)

// ErrNotConfigured is returned when no text-generation provider has a key.
var ErrNotConfigured = errors.New("no text generation provider configured; set OPENAI_API_KEY, GEMINI_API_KEY or OPENROUTER_API_KEY")

// tutorPersona is sent as the system message on every generation.
const tutorPersona = "You are a friendly, exam-focused CBSE tutor who explains concepts clearly and stays aligned with NCERT and standard CBSE exam patterns."

// generateTimeout bounds a single generation call. LLMs can be slow.
const generateTimeout = 120 * time.Second

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Model names the provider model, reported back to clients.
	Model() string
}

// NewGenerator returns the first configured provider: OpenAI, then Gemini,
// then OpenRouter. It returns ErrNotConfigured when none has a key.
func NewGenerator(ctx context.Context, cfg *config.Config) (Generator, error) {
	switch {
	case cfg.OpenAIAPIKey != "":
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	case cfg.GeminiAPIKey != "":
		g, err := NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return g, nil
	case cfg.OpenRouterAPIKey != "":
		return NewOpenRouter(cfg.OpenRouterAPIKey, cfg.OpenRouterModel), nil
	}
	return nil, ErrNotConfigured
}
