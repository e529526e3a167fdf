// Package openaiclient builds the go-openai client shared by the OpenAI
// embedding and LLM adapters and classifies its errors.
package openaiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openaisdk "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

// ErrUnauthorized indicates the API key was rejected.
var ErrUnauthorized = errors.New("openai: API key rejected")

// ErrModelNotFound indicates the configured model does not exist for this key.
var ErrModelNotFound = errors.New("openai: model not found")

// New creates a client. baseURL may point at an OpenAI-compatible server.
func New(apiKey, baseURL string, timeout time.Duration) (*openaisdk.Client, error) {
	if apiKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	cfg := openaisdk.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return openaisdk.NewClientWithConfig(cfg), nil
}

// Classify wraps err so callers can match rate limiting, a rejected key or
// a missing model with errors.Is. op names the failed call.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	status := 0
	var apiErr *openaisdk.APIError
	var reqErr *openaisdk.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case http.StatusTooManyRequests:
		return fmt.Errorf("openai: %s: %w: %w", op, domain.ErrRateLimited, err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s: %w", ErrUnauthorized, op, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s: %w", ErrModelNotFound, op, err)
	default:
		return fmt.Errorf("openai: %s: %w", op, err)
	}
}

// PingModel checks the key and that model is available, without inference.
func PingModel(ctx context.Context, client *openaisdk.Client, model string) error {
	if _, err := client.GetModel(ctx, model); err != nil {
		return Classify("get model "+model, err)
	}
	return nil
}
