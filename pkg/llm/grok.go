package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	DefaultGrokURL   = "https://api.x.ai/v1/"
	DefaultGrokModel = "grok-3-beta"
)

// GrokClient talks to the xAI chat completions endpoint, which is wire
// compatible with OpenAI's.
type GrokClient struct {
	client *openai.Client
	model  openai.ChatModel
}

func NewGrokClient(apiKey, baseURL, model string) *GrokClient {
	if baseURL == "" {
		baseURL = DefaultGrokURL
	}
	if model == "" {
		model = DefaultGrokModel
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	)
	return &GrokClient{
		client: &client,
		model:  openai.ChatModel(model),
	}
}

func (c *GrokClient) Name() string {
	return ProviderGrok
}

func (c *GrokClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}
	if req.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &UpstreamError{Provider: c.Name(), StatusCode: apiErr.StatusCode, Body: apiErr.Error()}
		}
		return "", fmt.Errorf("grok API error: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no message content in grok response", ErrFormat)
	}

	return resp.Choices[0].Message.Content, nil
}
