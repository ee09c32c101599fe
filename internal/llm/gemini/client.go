// Package gemini adapts Google's Gemini models, through langchaingo, to llm.Client.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"resume-tailor/internal/llm"
	"resume-tailor/internal/shared/metrics"
)

// DefaultModel is used when LLM_MODEL is unset or names an OpenAI model.
const DefaultModel = "gemini-2.5-flash"

// Client implements llm.Client on top of a langchaingo model.
type Client struct {
	model llms.Model
}

// New creates a Gemini-backed client.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("LLM_API_KEY is required for Gemini")
	}
	if m := strings.TrimSpace(model); m == "" || !strings.HasPrefix(m, "gemini") {
		model = DefaultModel
	}
	gm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{model: gm}, nil
}

// NewWithModel wraps an existing langchaingo model.
func NewWithModel(model llms.Model) *Client {
	return &Client{model: model}
}

// Complete sends the system and user turns and returns the first choice.
func (c *Client) Complete(ctx context.Context, in llm.Request) (string, error) {
	messages := make([]llms.MessageContent, 0, 2)
	if strings.TrimSpace(in.System) != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, in.System))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, in.User))

	opts := []llms.CallOption{llms.WithTemperature(float64(in.Temperature))}
	if in.JSON {
		opts = append(opts, llms.WithJSONMode())
	}

	started := time.Now()
	resp, err := c.model.GenerateContent(ctx, messages, opts...)
	metrics.ObserveLLMDuration(time.Since(started))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("gemini response missing choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Content)
	if content == "" {
		return "", fmt.Errorf("gemini response empty content")
	}
	return content, nil
}

var _ llm.Client = (*Client)(nil)
