package llm

import (
	"context"
	"errors"
	"fmt"
)

const (
	ProviderGrok      = "grok"
	ProviderAnthropic = "anthropic"
)

// ErrFormat is returned when the completion envelope or its content cannot be
// interpreted, even after a repair attempt.
var ErrFormat = errors.New("unexpected completion format")

type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int64
	// JSONMode asks the provider for a JSON object response when it supports one.
	JSONMode bool
}

type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Name() string
}

// UpstreamError reports a non-success status from the completion API.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API returned error: %d %s", e.Provider, e.StatusCode, e.Body)
}

// New builds the completer for provider. An empty apiKey yields a nil
// Completer and no error so callers can start without upstream credentials.
func New(provider, apiKey, baseURL, model string) (Completer, error) {
	if apiKey == "" {
		return nil, nil
	}

	switch provider {
	case "", ProviderGrok:
		return NewGrokClient(apiKey, baseURL, model), nil
	case ProviderAnthropic:
		return NewAnthropicClient(apiKey, baseURL, model), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q (valid: %s, %s)", provider, ProviderGrok, ProviderAnthropic)
	}
}
