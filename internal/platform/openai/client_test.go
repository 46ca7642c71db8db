package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/lingo-api/internal/generation"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/platform/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completion(content, finishReason string) map[string]any {
	return map[string]any{
		"id":    "chatcmpl-123",
		"model": "meta-llama/Llama-3.3-70B-Instruct",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finishReason,
		}},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	}
}

func newClient(t *testing.T, handler http.HandlerFunc, mode openai.SchemaMode) *openai.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := openai.NewClient(openai.Config{
		BaseURL:    server.URL,
		APIKey:     "test-key",
		SchemaMode: mode,
	}, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := openai.NewClient(openai.Config{}, nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestClient_ChatCompletion_GuidedJSON(t *testing.T) {
	t.Parallel()

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "model-x", body["model"])
		assert.Equal(t, 0.0, body["temperature"])
		assert.Equal(t, 128.0, body["max_tokens"])
		assert.NotContains(t, body, "response_format")

		guided, ok := body["guided_json"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "object", guided["type"])

		messages := body["messages"].([]any)
		require.Len(t, messages, 2)
		assert.Equal(t, "system", messages[0].(map[string]any)["role"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion(`{"quality_score": 4, "justification": "ok"}`, "stop"))
	}, "")

	text, err := client.ChatCompletion(context.Background(), generation.CompletionRequest{
		Messages: []generation.Message{
			{Role: generation.RoleSystem, Content: "rate"},
			{Role: generation.RoleUser, Content: "cat -> gato"},
		},
		Model:       "model-x",
		Temperature: generation.Temperature(0),
		MaxTokens:   128,
		Schema:      generation.VerificationSchema(),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"quality_score": 4, "justification": "ok"}`, text)
}

func TestClient_ChatCompletion_ResponseFormat(t *testing.T) {
	t.Parallel()

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "guided_json")
		assert.NotContains(t, body, "temperature")

		format := body["response_format"].(map[string]any)
		assert.Equal(t, "json_schema", format["type"])
		schema := format["json_schema"].(map[string]any)
		assert.Equal(t, true, schema["strict"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion(`{"lemmas": []}`, "stop"))
	}, openai.SchemaModeResponseFormat)

	text, err := client.ChatCompletion(context.Background(), generation.CompletionRequest{
		Messages: []generation.Message{{Role: generation.RoleUser, Content: "x"}},
		Model:    "m",
		Schema:   generation.ExtractionSchema(),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"lemmas": []}`, text)
}

func TestClient_ChatCompletion_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"error":"overloaded"}`, http.StatusServiceUnavailable)
			},
			wantErr: openai.ErrUnexpectedStatus,
		},
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"error":"bad key"}`, http.StatusUnauthorized)
			},
			wantErr: openai.ErrUnexpectedStatus,
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
			},
			wantErr: generation.ErrEmptyResponse,
		},
		{
			name: "content filtered",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(completion("", "content_filter"))
			},
			wantErr: generation.ErrContentBlocked,
		},
		{
			name: "empty content",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(completion("", "stop"))
			},
			wantErr: generation.ErrEmptyResponse,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			client := newClient(t, tc.handler, "")
			_, err := client.ChatCompletion(context.Background(), generation.CompletionRequest{
				Messages: []generation.Message{{Role: generation.RoleUser, Content: "x"}},
				Model:    "m",
			})
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
