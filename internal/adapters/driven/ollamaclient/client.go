// Package ollamaclient is the HTTP client shared by the Ollama embedding
// and LLM adapters. It maps Ollama's error bodies onto domain errors so the
// guard layer can tell a busy server from a missing model.
package ollamaclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

// DefaultBaseURL is where a local Ollama listens.
const DefaultBaseURL = "http://localhost:11434"

// ErrModelNotPulled indicates the configured model is not available locally.
var ErrModelNotPulled = errors.New("model not pulled")

// Client talks to one Ollama server.
type Client struct {
	http    *http.Client
	baseURL string
}

// New creates a client. An empty baseURL means DefaultBaseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is a non-200 answer from Ollama.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ollama: status %d: %s", e.Status, e.Message)
}

// Unwrap lets callers match overload and missing-model answers with errors.Is.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusTooManyRequests, e.Status == http.StatusServiceUnavailable:
		return domain.ErrRateLimited
	case e.Status == http.StatusNotFound && strings.Contains(e.Message, "not found"):
		return ErrModelNotPulled
	default:
		return nil
	}
}

// Post sends in as JSON to path and decodes the answer into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("ollama: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ollama: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// RequireModel checks that the server answers and has model pulled.
// Tags without a suffix match ":latest".
func (c *Client) RequireModel(ctx context.Context, model string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: create request: %w", err)
	}
	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := c.do(req, &tags); err != nil {
		return err
	}
	for _, m := range tags.Models {
		if m.Name == model || m.Name == model+":latest" {
			return nil
		}
	}
	return fmt.Errorf("ollama: %w: run 'ollama pull %s'", ErrModelNotPulled, model)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ollama: decode %s: %w", req.URL.Path, err)
	}
	return nil
}

// readError prefers Ollama's {"error": "..."} body and falls back to the raw text.
func readError(resp *http.Response) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return &APIError{Status: resp.StatusCode, Message: "unreadable body"}
	}
	var body struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
