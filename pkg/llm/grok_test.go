package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionBody(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1713571200,
		"model":   DefaultGrokModel,
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
			},
		},
	}
}

func TestGrokComplete(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionBody(`{"articles":[]}`))
	}))
	defer srv.Close()

	client := NewGrokClient("test-key", srv.URL+"/", "")
	content, err := client.Complete(context.Background(), CompletionRequest{
		System:      "system",
		Prompt:      "prompt",
		Temperature: 0.3,
		MaxTokens:   2000,
		JSONMode:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"articles":[]}`, content)
	assert.Equal(t, DefaultGrokModel, got["model"])
	assert.Equal(t, 0.3, got["temperature"])
	assert.Equal(t, float64(2000), got["max_tokens"])
	assert.Equal(t, map[string]any{"type": "json_object"}, got["response_format"])

	messages, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])
}

func TestGrokCompleteUpstreamError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"message":"overloaded"}}`))
	}))
	defer srv.Close()

	client := NewGrokClient("test-key", srv.URL+"/", "")
	_, err := client.Complete(context.Background(), CompletionRequest{Prompt: "prompt"})

	var upstreamErr *UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, http.StatusServiceUnavailable, upstreamErr.StatusCode)
	assert.Equal(t, ProviderGrok, upstreamErr.Provider)
	assert.Equal(t, int32(1), calls.Load(), "upstream must not be retried")
}

func TestGrokCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"grok-3-beta","choices":[]}`))
	}))
	defer srv.Close()

	client := NewGrokClient("test-key", srv.URL+"/", "")
	_, err := client.Complete(context.Background(), CompletionRequest{Prompt: "prompt"})

	assert.True(t, errors.Is(err, ErrFormat))
}

func TestNewCompleter(t *testing.T) {
	c, err := New(ProviderGrok, "", "", "")
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = New("", "key", "", "")
	require.NoError(t, err)
	assert.Equal(t, ProviderGrok, c.Name())

	c, err = New(ProviderAnthropic, "key", "", "")
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, c.Name())

	_, err = New("bard", "key", "", "")
	assert.Error(t, err)
}
