// Package relay talks to the DeepSeek chat-completions API and turns its
// free-text answers into fixed-shape scenario results.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	relayRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "intuition_relay_requests_total",
		Help: "Total scenario relay calls by outcome",
	}, []string{"outcome"})

	relayDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "intuition_relay_request_duration_seconds",
		Help:    "Latency of scenario relay calls",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
	})
)

// RelayUnavailableError wraps transport failures, non-2xx statuses, and
// timeouts from the language-model provider. The caller maps it to 503.
type RelayUnavailableError struct {
	Status int
	Err    error
}

func (e *RelayUnavailableError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("relay provider returned status %d", e.Status)
	}
	return fmt.Sprintf("relay provider unreachable: %v", e.Err)
}

func (e *RelayUnavailableError) Unwrap() error { return e.Err }

// RelayParseError means the provider answered but not in the agreed shape.
// The caller maps it to 502 so it is never confused with provider downtime.
type RelayParseError struct {
	Reason string
	Raw    string
}

func (e *RelayParseError) Error() string {
	return fmt.Sprintf("relay response unusable: %s", e.Reason)
}

// Client is a thin chat-completions client. One request per call, no
// retries; a scenario question is interactive and the user just asks again.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one system+user prompt pair and returns the raw assistant
// message content.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	relayDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		relayRequests.WithLabelValues("unreachable").Inc()
		return "", &RelayUnavailableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		relayRequests.WithLabelValues("error").Inc()
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", &RelayUnavailableError{Status: resp.StatusCode}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		relayRequests.WithLabelValues("error").Inc()
		return "", &RelayParseError{Reason: fmt.Sprintf("invalid completion envelope: %v", err)}
	}
	if len(parsed.Choices) == 0 {
		relayRequests.WithLabelValues("error").Inc()
		return "", &RelayParseError{Reason: "completion has no choices"}
	}

	relayRequests.WithLabelValues("success").Inc()
	return parsed.Choices[0].Message.Content, nil
}
