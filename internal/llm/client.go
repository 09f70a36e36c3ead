// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

/*
client.go - OpenAI-compatible API Client

This file implements the HTTP client for the two language model endpoints
the service needs:
  - POST /embeddings: text to vector, used for query and synopsis embeddings
  - POST /chat/completions: free-text preference extraction

Client Features:
  - Bearer token authentication
  - Outbound rate limiting (golang.org/x/time/rate) shared by all calls
  - Circuit breaker protection (see breaker.go)
  - Automatic HTTP 429 handling with exponential backoff and Retry-After
  - Bounded error body reads
*/

//nolint:staticcheck // File documentation, not package doc
package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/animerank/internal/config"
	"github.com/tomtom215/animerank/internal/logging"
	"github.com/tomtom215/animerank/internal/metrics"
)

// maxErrorBodySize limits how much of an error response is kept.
const maxErrorBodySize = 64 * 1024

// maxRetries bounds retries of rate-limited (HTTP 429) requests.
const maxRetries = 3

// Operation labels for metrics.
const (
	opEmbedding = "embedding"
	opChat      = "chat"
)

// ErrEmptyResponse is returned when the service answers without data.
var ErrEmptyResponse = errors.New("empty response from language model service")

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("language model service returned status %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether retrying later may succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Client talks to an OpenAI-compatible API. It is safe for concurrent use.
type Client struct {
	baseURL        string
	apiKey         string
	chatModel      string
	embeddingModel string
	temperature    float64
	maxTokens      int

	httpClient     *http.Client
	limiter        *rate.Limiter
	breaker        *gobreaker.CircuitBreaker[[]byte]
	retryBaseDelay time.Duration
}

// NewClient creates a client from the LLM configuration.
func NewClient(cfg *config.LLMConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	rps := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		rps = rate.Inf
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL:        strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:         cfg.APIKey,
		chatModel:      cfg.ChatModel,
		embeddingModel: cfg.EmbeddingModel,
		temperature:    cfg.Temperature,
		maxTokens:      cfg.MaxTokens,
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		limiter:        rate.NewLimiter(rps, burst),
		breaker:        newBreaker("llm-api"),
		retryBaseDelay: time.Second,
	}, nil
}

// EmbeddingModel returns the model used for embeddings.
func (c *Client) EmbeddingModel() string {
	return c.embeddingModel
}

// Embed returns the embedding of text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch returns one embedding per input, in input order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	var resp embeddingResponse
	err := c.call(ctx, opEmbedding, "/embeddings", embeddingRequest{
		Model: c.embeddingModel,
		Input: texts,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", ErrEmptyResponse, len(resp.Data), len(texts))
	}

	out := make([][]float64, len(texts))
	for i, d := range resp.Data {
		idx := d.Index
		if idx < 0 || idx >= len(out) {
			idx = i
		}
		if len(d.Embedding) == 0 {
			return nil, fmt.Errorf("%w: embedding %d is empty", ErrEmptyResponse, idx)
		}
		out[idx] = d.Embedding
	}
	for i, v := range out {
		if v == nil {
			return nil, fmt.Errorf("%w: missing embedding %d", ErrEmptyResponse, i)
		}
	}
	return out, nil
}

// Chat sends a chat completion request with the configured model,
// temperature and token limit and returns the first choice's content.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	var resp chatResponse
	err := c.call(ctx, opChat, "/chat/completions", chatRequest{
		Model:       c.chatModel,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}, &resp)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// call runs one API call through the rate limiter and circuit breaker and
// decodes the JSON response into out.
func (c *Client) call(ctx context.Context, operation, path string, in, out interface{}) error {
	start := time.Now()

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.RecordLLMRequest(operation, time.Since(start), err)
		return fmt.Errorf("rate limiter: %w", err)
	}

	data, err := executeWithBreaker(c.breaker, func() ([]byte, error) {
		return c.post(ctx, path, body)
	})
	metrics.RecordLLMRequest(operation, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("%s request: %w", operation, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

// post sends body to path, retrying HTTP 429 responses with exponential
// backoff, and returns the response body of a 2xx answer.
func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("execute request: %w", err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			data, err := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("read response: %w", err)
			}
			return data, nil
		}

		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(readBodyForError(resp.Body))}
		retryAfter := resp.Header.Get("Retry-After")
		_ = resp.Body.Close()

		if resp.StatusCode != http.StatusTooManyRequests || attempt == maxRetries {
			return nil, apiErr
		}

		retryDelay := c.retryBaseDelay * (1 << attempt)
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
			retryDelay = time.Duration(seconds) * time.Second
		}

		logging.Warn().
			Dur("retry_delay", retryDelay).
			Int("attempt", attempt+1).
			Int("max_retries", maxRetries).
			Msg("Language model API rate limited (HTTP 429), retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
}

// readBodyForError reads at most maxErrorBodySize bytes of r.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
