package summary

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAI generates text with the OpenAI chat completions API.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI creates an OpenAI generator. Extra request options (base URL,
// HTTP client) are appended after the defaults.
func NewOpenAI(apiKey, model string, opts ...option.RequestOption) *OpenAI {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: generateTimeout}),
		option.WithMaxRetries(2),
	}
	return &OpenAI{
		client: openai.NewClient(append(base, opts...)...),
		model:  model,
	}
}

// Model implements Generator.
func (o *OpenAI) Model() string { return o.model }

// Generate implements Generator.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(tutorPersona),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI response did not include any text")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("OpenAI response did not include any text")
	}
	return content, nil
}
