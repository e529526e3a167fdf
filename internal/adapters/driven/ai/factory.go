// Package ai builds the AI provider adapters from settings and wraps them
// in the guard and cache layers.
package ai

import (
	"context"
	"fmt"
	"time"

	geminiembed "github.com/custodia-labs/archivo/internal/adapters/driven/embedding/gemini"
	ollamaembed "github.com/custodia-labs/archivo/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/archivo/internal/adapters/driven/embedding/openai"
	geminillm "github.com/custodia-labs/archivo/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/archivo/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/archivo/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/core/ports/driven"
	"github.com/custodia-labs/archivo/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Options controls how NewServices assembles the provider chain.
type Options struct {
	// Validate pings each provider and drops the ones that do not answer.
	Validate bool

	// Cache is the optional persistent tier behind the in-memory caches.
	Cache driven.Cache

	// Metrics receives call outcomes. Optional.
	Metrics driven.Metrics
}

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	Warnings         []string // Non-fatal issues that disabled a capability.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// NewServices builds the configured embedding and LLM services, each as
// provider, then guard, then cache. A capability that cannot be created or
// validated is left nil and reported in Warnings; callers degrade without it.
func NewServices(ctx context.Context, settings domain.AppSettings, opts Options) *InitResult {
	result := &InitResult{}

	var (
		embedder driven.EmbeddingService
		llm      driven.LLMService
		err      error
	)
	if opts.Validate {
		embedder, err = CreateAndValidateEmbeddingService(ctx, &settings.Embedding)
	} else {
		embedder, err = CreateEmbeddingService(ctx, &settings.Embedding)
	}
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		logger.Warn("Semantic search disabled: %v", err)
	}
	if embedder != nil {
		guarded := NewGuardedEmbedding(embedder, settings.AI, opts.Metrics)
		result.EmbeddingService = NewCachedEmbedding(guarded, settings.AI, opts.Cache, opts.Metrics)
		logger.Debug("Embedding provider %s (%s)", settings.Embedding.Provider, embedder.ModelName())
	}

	if opts.Validate {
		llm, err = CreateAndValidateLLMService(ctx, &settings.LLM)
	} else {
		llm, err = CreateLLMService(ctx, &settings.LLM)
	}
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		logger.Warn("Generated replies disabled: %v", err)
	}
	if llm != nil {
		guarded := NewGuardedLLM(llm, settings.AI, opts.Metrics)
		result.LLMService = NewCachedLLM(guarded, settings.AI, opts.Cache, opts.Metrics)
		logger.Debug("LLM provider %s (%s)", settings.LLM.Provider, llm.ModelName())
	}

	return result
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(
	ctx context.Context,
	settings *domain.EmbeddingSettings,
) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateEmbeddingService(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'archivo settings' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'archivo settings' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'archivo settings' to fix",
			domain.ErrLLMUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'archivo settings' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	dimensions := domain.EmbeddingDimensions()[settings.Model]

	switch settings.Provider {
	case domain.AIProviderGemini:
		svc, err := geminiembed.NewEmbeddingService(ctx, geminiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	case domain.AIProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		svc, err := geminillm.NewLLMService(ctx, geminillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	case domain.AIProviderOpenAI:
		svc, err := openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
