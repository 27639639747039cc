package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultOpenRouterURL is the OpenRouter chat completions endpoint.
const DefaultOpenRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// OpenRouter generates text through OpenRouter's OpenAI-compatible API,
// which fronts many providers behind a single key.
type OpenRouter struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewOpenRouter creates an OpenRouter generator.
func NewOpenRouter(apiKey, model string) *OpenRouter {
	return &OpenRouter{
		apiKey:   apiKey,
		model:    model,
		endpoint: DefaultOpenRouterURL,
		// Go Pattern: Always configure timeouts on HTTP clients.
		httpClient: &http.Client{Timeout: generateTimeout},
	}
}

// WithEndpoint points the generator at another chat completions URL.
func (o *OpenRouter) WithEndpoint(endpoint string) *OpenRouter {
	o.endpoint = endpoint
	return o
}

// Model implements Generator.
func (o *OpenRouter) Model() string { return o.model }

// --- OpenRouter API types ---
// These match the OpenAI chat completions format.

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Model string `json:"model"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Generate implements Generator.
func (o *OpenRouter) Generate(ctx context.Context, prompt string) (string, error) {
	jsonBody, err := json.Marshal(chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: tutorPersona},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", "https://github.com/Shimizu-Technology/study-circle-api")
	req.Header.Set("X-Title", "Study Circle API")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("OpenRouter request failed: %w", err)
	}
	defer resp.Body.Close() // Go Pattern: ALWAYS close response bodies!

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenRouter returned %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("OpenRouter error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response from model")
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("OpenRouter response did not include any text")
	}
	return content, nil
}
