// Package ollama presents search results with a local Ollama model.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/archivo/internal/adapters/driven/ollamaclient"
	"github.com/custodia-labs/archivo/internal/core/ports/driven"
	"github.com/custodia-labs/archivo/internal/logger"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Defaults for LLMConfig fields left empty.
const (
	DefaultBaseURL    = ollamaclient.DefaultBaseURL
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 120 * time.Second
	DefaultKeepAlive  = "10m"
)

// ErrEmptyReply indicates the model answered with no visible text.
var ErrEmptyReply = errors.New("ollama: empty reply")

// LLMConfig holds configuration for the Ollama LLM service.
type LLMConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration

	// KeepAlive is how long Ollama keeps the model loaded between chat
	// turns, in Ollama duration syntax.
	KeepAlive string
}

// LLMService generates replies through Ollama's /api/generate endpoint.
type LLMService struct {
	client    *ollamaclient.Client
	model     string
	keepAlive string
}

type generateRequest struct {
	Model     string   `json:"model"`
	Prompt    string   `json:"prompt"`
	Stream    bool     `json:"stream"`
	KeepAlive string   `json:"keep_alive,omitempty"`
	Options   *options `json:"options,omitempty"`
}

type options struct {
	NumPredict  int      `json:"num_predict,omitempty"`
	Temperature float64  `json:"temperature,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

type generateResponse struct {
	Response   string `json:"response"`
	Done       bool   `json:"done"`
	DoneReason string `json:"done_reason"`
}

// thinkBlock matches the reasoning preamble some local models emit.
var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// NewLLMService creates an Ollama LLM service.
func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}
	if cfg.KeepAlive == "" {
		cfg.KeepAlive = DefaultKeepAlive
	}
	return &LLMService{
		client:    ollamaclient.New(cfg.BaseURL, cfg.Timeout),
		model:     cfg.Model,
		keepAlive: cfg.KeepAlive,
	}
}

// Generate returns the model's reply with any reasoning block removed.
// A reply that is empty after trimming is an error, so the guard counts
// it and the caller falls back to the plain listing.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	req := generateRequest{
		Model:     s.model,
		Prompt:    prompt,
		KeepAlive: s.keepAlive,
	}
	if opts.MaxTokens > 0 || opts.Temperature > 0 || len(opts.StopWords) > 0 {
		req.Options = &options{
			NumPredict:  opts.MaxTokens,
			Temperature: opts.Temperature,
			Stop:        opts.StopWords,
		}
	}

	var resp generateResponse
	if err := s.client.Post(ctx, "/api/generate", req, &resp); err != nil {
		if errors.Is(err, ollamaclient.ErrModelNotPulled) {
			return "", fmt.Errorf("%w (run 'ollama pull %s')", err, s.model)
		}
		return "", err
	}
	if resp.DoneReason == "length" {
		logger.Debug("Ollama reply hit the %d token limit", opts.MaxTokens)
	}

	text := strings.TrimSpace(thinkBlock.ReplaceAllString(resp.Response, ""))
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

// ModelName returns the LLM model.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks that the server answers and the model has been pulled.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.client.RequireModel(ctx, s.model)
}

// Close is a no-op.
func (s *LLMService) Close() error {
	return nil
}
