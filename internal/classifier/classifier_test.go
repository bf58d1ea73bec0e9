package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abdulachik/playmood/internal/corpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("uses default model", func(t *testing.T) {
		c := New(Config{Host: "http://localhost:8500"})
		assert.Equal(t, defaultModel, c.model)
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		c := New(Config{Host: "http://localhost:8500/", Model: "flair-en"})
		assert.Equal(t, "http://localhost:8500", c.host)
		assert.Equal(t, "flair-en", c.model)
	})
}

func TestClient_Classify(t *testing.T) {
	t.Run("successful prediction", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/predict", r.URL.Path)
			assert.Equal(t, "POST", r.Method)

			var req predictRequest
			json.NewDecoder(r.Body).Decode(&req)
			assert.Equal(t, "To be or not to be", req.Text)
			assert.Equal(t, "sentiment", req.Model)

			w.Write([]byte(`{"label":"negative","score":0.9871}`))
		}))
		defer server.Close()

		c := New(Config{Host: server.URL})
		got, err := c.Classify(context.Background(), "To be or not to be")

		require.NoError(t, err)
		assert.Equal(t, corpus.LocalSentiment{Label: corpus.Negative, Score: 0.9871}, got)
	})

	tests := []struct {
		name   string
		status int
		body   string
		errMsg string
	}{
		{"server error", http.StatusInternalServerError, "model crashed", "status 500"},
		{"bad json", http.StatusOK, "{", "unmarshal response"},
		{"unknown label", http.StatusOK, `{"label":"NEUTRAL","score":0.5}`, "unknown sentiment label"},
		{"missing score", http.StatusOK, `{"label":"POSITIVE"}`, "no score"},
		{"score out of range", http.StatusOK, `{"label":"POSITIVE","score":1.5}`, "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := New(Config{Host: server.URL}).Classify(context.Background(), "text")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestClient_Ping(t *testing.T) {
	t.Run("model available", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/health", r.URL.Path)
			w.Write([]byte(`{"models":["sentiment","sentiment-fast"]}`))
		}))
		defer server.Close()

		assert.NoError(t, New(Config{Host: server.URL}).Ping(context.Background()))
	})

	t.Run("no model list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		assert.NoError(t, New(Config{Host: server.URL}).Ping(context.Background()))
	})

	t.Run("model missing", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"models":["other"]}`))
		}))
		defer server.Close()

		err := New(Config{Host: server.URL}).Ping(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not served")
	})

	t.Run("unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		err := New(Config{Host: server.URL}).Ping(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 503")
	})
}
