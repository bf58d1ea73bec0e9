// Package classifier talks to the local sentiment classifier sidecar that
// labels each sentence POSITIVE or NEGATIVE with a confidence score.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/abdulachik/playmood/internal/corpus"
)

const defaultModel = "sentiment"

// Client calls the classifier over HTTP.
type Client struct {
	host       string
	model      string
	httpClient *http.Client
}

// Config holds configuration for the classifier client.
type Config struct {
	Host    string
	Model   string
	Timeout time.Duration
}

// New creates a new Client.
func New(cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		host:  strings.TrimRight(cfg.Host, "/"),
		model: model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type predictRequest struct {
	Model string `json:"model"`
	Text  string `json:"text"`
}

type predictResponse struct {
	Label string   `json:"label"`
	Score *float64 `json:"score"`
}

// Classify labels one sentence. Any response outside the label and score
// contract is an error.
func (c *Client) Classify(ctx context.Context, text string) (corpus.LocalSentiment, error) {
	body, err := json.Marshal(predictRequest{Model: c.model, Text: text})
	if err != nil {
		return corpus.LocalSentiment{}, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/predict", c.host)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return corpus.LocalSentiment{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return corpus.LocalSentiment{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return corpus.LocalSentiment{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return corpus.LocalSentiment{}, fmt.Errorf("classifier error (status %d): %s", resp.StatusCode, string(respBody))
	}

	// Parse response
	var pr predictResponse
	if err := json.Unmarshal(respBody, &pr); err != nil {
		return corpus.LocalSentiment{}, fmt.Errorf("unmarshal response: %w", err)
	}

	// Enforce the label and score contract
	label, err := corpus.ParseLocalLabel(pr.Label)
	if err != nil {
		return corpus.LocalSentiment{}, err
	}
	if pr.Score == nil {
		return corpus.LocalSentiment{}, fmt.Errorf("classifier returned no score")
	}
	if *pr.Score < 0 || *pr.Score > 1 {
		return corpus.LocalSentiment{}, fmt.Errorf("classifier score %v out of range [0,1]", *pr.Score)
	}

	return corpus.LocalSentiment{Label: label, Score: *pr.Score}, nil
}

// Ping checks that the classifier is up and serves the configured model.
func (c *Client) Ping(ctx context.Context) error {
	url := fmt.Sprintf("%s/health", c.host)
	httpReq, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("connect to classifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var health struct {
		Models []string `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("decode health response: %w", err)
	}

	// A sidecar that does not list models serves a single default one.
	if len(health.Models) == 0 {
		return nil
	}
	for _, m := range health.Models {
		if m == c.model {
			slog.Debug("found classifier model", "model", m)
			return nil
		}
	}
	return fmt.Errorf("model %s not served by classifier (have: %s)", c.model, strings.Join(health.Models, ", "))
}
