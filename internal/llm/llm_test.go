package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	t.Run("openai default", func(t *testing.T) {
		p, err := NewProvider(Config{APIKey: "k"})
		require.NoError(t, err)
		assert.Equal(t, "openai/gpt-4o-mini", p.Name())
	})

	t.Run("anthropic", func(t *testing.T) {
		p, err := NewProvider(Config{Provider: "Anthropic", APIKey: "k"})
		require.NoError(t, err)
		assert.Equal(t, "anthropic/"+defaultAnthropicModel, p.Name())
	})

	t.Run("custom model", func(t *testing.T) {
		p, err := NewProvider(Config{Provider: "openai", Model: "gpt-4o", APIKey: "k"})
		require.NoError(t, err)
		assert.Equal(t, "openai/gpt-4o", p.Name())
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := NewProvider(Config{Provider: "cohere"})
		assert.Error(t, err)
	})
}

func TestDefaultModel(t *testing.T) {
	assert.Equal(t, "gpt-4o-mini", DefaultModel("openai"))
	assert.Equal(t, defaultAnthropicModel, DefaultModel("anthropic"))
}

func TestOpenAIClient_Complete(t *testing.T) {
	t.Run("successful completion", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))

			var req chatRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "gpt-4o-mini", req.Model)
			assert.Equal(t, "json_object", req.ResponseFormat.Type)
			assert.Equal(t, 0.7, req.Temperature)
			require.Len(t, req.Messages, 2)
			assert.Equal(t, "system", req.Messages[0].Role)
			assert.Equal(t, "be brief", req.Messages[0].Content)
			assert.Equal(t, "user", req.Messages[1].Role)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"main_emotion\":\"joy\"}"}}]}`))
		}))
		defer server.Close()

		client := NewOpenAIClient(OpenAIConfig{APIKey: "test-api-key", BaseURL: server.URL + "/"})
		got, err := client.Complete(context.Background(), "be brief", "hello")

		require.NoError(t, err)
		assert.Equal(t, `{"main_emotion":"joy"}`, got)
	})

	t.Run("handles API error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"type":"rate_limit","message":"slow down"}}`))
		}))
		defer server.Close()

		client := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: server.URL})
		_, err := client.Complete(context.Background(), "s", "u")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 429")
	})

	t.Run("handles empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		}))
		defer server.Close()

		client := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: server.URL})
		_, err := client.Complete(context.Background(), "s", "u")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty response")
	})

	t.Run("requires api key", func(t *testing.T) {
		_, err := NewOpenAIClient(OpenAIConfig{}).Complete(context.Background(), "s", "u")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not configured")
	})

	t.Run("respects context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: server.URL})
		_, err := client.Complete(ctx, "s", "u")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestAnthropicClient_Complete(t *testing.T) {
	t.Run("successful completion", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"))
			assert.Equal(t, "test-api-key", r.Header.Get("x-api-key"))

			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, defaultAnthropicModel, req["model"])
			assert.Equal(t, 0.7, req["temperature"])

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"id": "msg_123",
				"type": "message",
				"role": "assistant",
				"model": "claude-sonnet-4-20250514",
				"content": [{"type": "text", "text": "{\"sentiment\":\"neutral\"}"}],
				"stop_reason": "end_turn",
				"usage": {"input_tokens": 10, "output_tokens": 5}
			}`))
		}))
		defer server.Close()

		client := NewAnthropicClient(AnthropicConfig{APIKey: "test-api-key", BaseURL: server.URL})
		got, err := client.Complete(context.Background(), "system", "user")

		require.NoError(t, err)
		assert.Equal(t, `{"sentiment":"neutral"}`, got)
	})

	t.Run("handles API error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
		}))
		defer server.Close()

		client := NewAnthropicClient(AnthropicConfig{APIKey: "bad", BaseURL: server.URL})
		_, err := client.Complete(context.Background(), "system", "user")
		assert.Error(t, err)
	})
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected string
		errMsg   string
	}{
		{"clean object", `{"main_emotion":"joy","sentiment":"positive"}`, `{"main_emotion":"joy","sentiment":"positive"}`, ""},
		{"code fence", "```json\n{\"main_emotion\": \"fear\"}\n```", `{"main_emotion": "fear"}`, ""},
		{"preamble and trailer", "Here you go: {\"a\": {\"b\": 1}} hope this helps {x}", `{"a": {"b": 1}}`, ""},
		{"braces in strings", `{"text": "a } brace \" and {"}`, `{"text": "a } brace \" and {"}`, ""},
		{"no object", "To be or not to be", "", "no JSON object found"},
		{"unclosed", `{"main_emotion": "joy"`, "", "malformed JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.response)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
