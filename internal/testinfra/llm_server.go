// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package testinfra

import (
	"hash/fnv"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"
)

// LLMCapture represents a captured request to the mock language model.
type LLMCapture struct {
	Method  string
	Path    string
	Headers http.Header
	Body    []byte
}

// MockLLMServer is an OpenAI-compatible HTTP server for tests. It answers
// /embeddings with deterministic vectors and /chat/completions with a
// fixed reply, and captures every request for verification.
type MockLLMServer struct {
	Server *httptest.Server

	mu       sync.Mutex
	captures []LLMCapture

	// Dim is the length of generated embeddings (default: 8).
	Dim int

	// Embeddings overrides the generated vector for specific inputs.
	Embeddings map[string][]float64

	// ChatReply is the assistant content returned by /chat/completions.
	ChatReply string

	// ResponseStatus forces every response to this status when non-zero.
	ResponseStatus int
}

// NewMockLLMServer starts a mock server that is closed with the test.
func NewMockLLMServer(t *testing.T) *MockLLMServer {
	t.Helper()

	m := &MockLLMServer{
		Dim:        8,
		Embeddings: make(map[string][]float64),
		ChatReply:  `{"liked_titles":[],"disliked_titles":[],"mapped_tags":[],"semantic_moods":[]}`,
	}
	m.Server = httptest.NewServer(http.HandlerFunc(m.serve))
	t.Cleanup(m.Server.Close)
	return m
}

// URL returns the base URL to configure as the API base.
func (m *MockLLMServer) URL() string {
	return m.Server.URL
}

// GetCaptures returns all captured requests.
func (m *MockLLMServer) GetCaptures() []LLMCapture {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LLMCapture, len(m.captures))
	copy(out, m.captures)
	return out
}

// CapturesFor returns the captured requests for one path.
func (m *MockLLMServer) CapturesFor(path string) []LLMCapture {
	var out []LLMCapture
	for _, c := range m.GetCaptures() {
		if c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// Vector returns the embedding the server answers for text.
func (m *MockLLMServer) Vector(text string) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vectorLocked(text)
}

func (m *MockLLMServer) vectorLocked(text string) []float64 {
	if v, ok := m.Embeddings[text]; ok {
		return v
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float64, m.Dim)
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float64(seed>>40)/float64(1<<24) - 0.5
	}
	return vec
}

func (m *MockLLMServer) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	_ = r.Body.Close()

	m.mu.Lock()
	m.captures = append(m.captures, LLMCapture{
		Method:  r.Method,
		Path:    r.URL.Path,
		Headers: r.Header.Clone(),
		Body:    body,
	})
	status := m.ResponseStatus
	m.mu.Unlock()

	if status != 0 && status != http.StatusOK {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":{"message":"mock failure"}}`))
		return
	}

	switch r.URL.Path {
	case "/embeddings":
		m.embeddings(w, body)
	case "/chat/completions":
		m.chat(w)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (m *MockLLMServer) embeddings(w http.ResponseWriter, body []byte) {
	var req struct {
		Input []string `json:"input"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	type datum struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	}
	resp := struct {
		Data []datum `json:"data"`
	}{Data: make([]datum, len(req.Input))}

	m.mu.Lock()
	for i, text := range req.Input {
		resp.Data[i] = datum{Index: i, Embedding: m.vectorLocked(text)}
	}
	m.mu.Unlock()

	writeJSON(w, resp)
}

func (m *MockLLMServer) chat(w http.ResponseWriter) {
	m.mu.Lock()
	reply := m.ChatReply
	m.mu.Unlock()

	type message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type choice struct {
		Message message `json:"message"`
	}
	writeJSON(w, struct {
		Choices []choice `json:"choices"`
	}{Choices: []choice{{Message: message{Role: "assistant", Content: reply}}}})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
