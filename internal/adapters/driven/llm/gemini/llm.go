// Package gemini provides an LLM service adapter using the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	geminiembed "github.com/custodia-labs/archivo/internal/adapters/driven/embedding/gemini"
	"github.com/custodia-labs/archivo/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultLLMModel   = "gemini-2.0-flash"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig holds configuration for the Gemini LLM service.
type LLMConfig struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL overrides the API endpoint. Empty uses the public endpoint.
	BaseURL string

	// Model is the LLM model to use (default: gemini-2.0-flash).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService provides text generation using the Gemini API.
type LLMService struct {
	models *genai.Models
	model  string
}

// NewLLMService creates a new Gemini LLM service.
func NewLLMService(ctx context.Context, cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	client, err := geminiembed.NewClient(ctx, cfg.APIKey, cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &LLMService{
		models: client.Models,
		model:  cfg.Model,
	}, nil
}

// Generate produces text completion from a prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	resp, err := s.models.GenerateContent(ctx, s.model, genai.Text(prompt), generateConfig(opts))
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

func generateConfig(opts driven.GenerateOptions) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens) //nolint:gosec // token limits are small
	}
	if opts.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(opts.Temperature))
	}
	if len(opts.StopWords) > 0 {
		config.StopSequences = opts.StopWords
	}
	return config
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the API key by fetching the model metadata.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.models.Get(ctx, s.model, nil); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	// The genai client holds no resources that need releasing
	return nil
}
