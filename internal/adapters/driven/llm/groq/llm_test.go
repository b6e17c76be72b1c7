package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/policyqa/internal/core/domain"
	"github.com/custodia-labs/policyqa/internal/core/ports/driven"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestChat_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "  A grace period of thirty days applies.  "}},
			},
		})
	}))
	defer srv.Close()

	svc, err := New(Config{APIKey: "test-key", BaseURL: srv.URL, RequestsPerSecond: 1000})
	require.NoError(t, err)

	got, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: "system", Content: "You answer questions about policy documents."},
		{Role: "user", Content: "What is the grace period?"},
	}, driven.ChatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "A grace period of thirty days applies.", got)
}

func TestGenerate_DelegatesToChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "hello", req.Messages[0].Content)
		assert.Equal(t, 64, req.MaxTokens)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "hi"}},
			},
		})
	}))
	defer srv.Close()

	svc, err := New(Config{APIKey: "k", BaseURL: srv.URL, RequestsPerSecond: 1000})
	require.NoError(t, err)

	got, err := svc.Generate(context.Background(), "hello", driven.GenerateOptions{MaxTokens: 64})
	require.NoError(t, err)
	assert.Equal(t, "hi", got)
}

func TestChat_BackendDown(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close()

	svc, err := New(Config{APIKey: "k", BaseURL: srv.URL, RequestsPerSecond: 1000})
	require.NoError(t, err)

	_, err = svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "q"}}, driven.ChatOptions{})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestChat_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limit exceeded", "type": "rate_limit"},
		})
	}))
	defer srv.Close()

	svc, err := New(Config{APIKey: "k", BaseURL: srv.URL, RequestsPerSecond: 1000})
	require.NoError(t, err)

	_, err = svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "q"}}, driven.ChatOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestChat_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	svc, err := New(Config{APIKey: "k", BaseURL: srv.URL, RequestsPerSecond: 1000})
	require.NoError(t, err)

	_, err = svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "q"}}, driven.ChatOptions{})
	assert.ErrorIs(t, err, domain.ErrLLMMalformedOutput)
}

func TestChat_ContextCancelled(t *testing.T) {
	svc, err := New(Config{APIKey: "k", RequestsPerSecond: 0.001})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Burn the initial token so the limiter has to wait on a cancelled context.
	svc.limiter.Allow()

	_, err = svc.Chat(ctx, []driven.ChatMessage{{Role: "user", Content: "q"}}, driven.ChatOptions{})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestDefaults(t *testing.T) {
	svc, err := New(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultBaseURL, svc.baseURL)
}
