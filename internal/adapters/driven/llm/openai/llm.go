// Package openai generates archive answers with the OpenAI chat completions
// API or a compatible server.
package openai

import (
	"context"
	"errors"
	"strings"
	"time"

	openaisdk "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/archivo/internal/adapters/driven/openaiclient"
	"github.com/custodia-labs/archivo/internal/core/ports/driven"
	"github.com/custodia-labs/archivo/internal/logger"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultLLMModel   = "gpt-4o-mini"
	DefaultLLMTimeout = 120 * time.Second
)

var (
	// ErrNoChoices indicates the API returned a completion without choices.
	ErrNoChoices = errors.New("openai: no choices returned")
	// ErrEmptyReply indicates the model answered with no text.
	ErrEmptyReply = errors.New("openai: empty reply")
	// ErrFiltered indicates the provider withheld the reply.
	ErrFiltered = errors.New("openai: reply withheld by content filter")
)

// LLMConfig holds configuration for the OpenAI LLM service.
type LLMConfig struct {
	APIKey string
	// BaseURL defaults to https://api.openai.com/v1.
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService writes replies through the chat completions endpoint.
type LLMService struct {
	client *openaisdk.Client
	model  string
}

// NewLLMService creates an OpenAI LLM service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}
	client, err := openaiclient.New(cfg.APIKey, cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &LLMService{client: client, model: cfg.Model}, nil
}

// Generate sends prompt as a single user message and returns the trimmed
// reply.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	req := openaisdk.ChatCompletionRequest{
		Model: s.model,
		Messages: []openaisdk.ChatCompletionMessage{
			{Role: openaisdk.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   opts.MaxTokens,
		Temperature: float32(opts.Temperature),
		Stop:        opts.StopWords,
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", openaiclient.Classify("chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	choice := resp.Choices[0]
	switch choice.FinishReason {
	case openaisdk.FinishReasonContentFilter:
		return "", ErrFiltered
	case openaisdk.FinishReasonLength:
		logger.Debug("OpenAI reply hit the %d token limit", opts.MaxTokens)
	}

	text := strings.TrimSpace(choice.Message.Content)
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

// ModelName returns the chat model.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks the key and that the model exists, without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	return openaiclient.PingModel(ctx, s.client, s.model)
}

// Close is a no-op.
func (s *LLMService) Close() error {
	return nil
}
