package ai

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks provider settings in two steps: a static check of
// provider, model, key and endpoint, then a ping of the real provider.
// Guard settings are checked statically only.
type ConfigValidator struct {
	timeout   time.Duration
	embedding func(context.Context, *domain.EmbeddingSettings) (driven.EmbeddingService, error)
	llm       func(context.Context, *domain.LLMSettings) (driven.LLMService, error)
}

// NewConfigValidator creates a validator that builds providers with the
// same factory functions as NewServices.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{
		timeout:   pingTimeout,
		embedding: CreateEmbeddingService,
		llm:       CreateLLMService,
	}
}

// ValidateEmbedding implements driven.AIConfigValidator.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	if config == nil || config.Provider == domain.AIProviderNone {
		return nil
	}
	if err := checkProvider("embedding", config.Provider, config.Model, config.APIKey, config.BaseURL); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	svc, err := v.embedding(ctx, config)
	if err != nil {
		return fmt.Errorf("%w: create %s client: %w", domain.ErrEmbeddingUnavailable, config.Provider, err)
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %s did not answer: %w", domain.ErrEmbeddingUnavailable, config.Provider, err)
	}
	return nil
}

// ValidateLLM implements driven.AIConfigValidator.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	if config == nil || config.Provider == domain.AIProviderNone {
		return nil
	}
	if err := checkProvider("LLM", config.Provider, config.Model, config.APIKey, config.BaseURL); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	svc, err := v.llm(ctx, config)
	if err != nil {
		return fmt.Errorf("%w: create %s client: %w", domain.ErrLLMUnavailable, config.Provider, err)
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %s did not answer: %w", domain.ErrLLMUnavailable, config.Provider, err)
	}
	return nil
}

// ValidateGuard implements driven.AIConfigValidator. Zero values are
// accepted and mean "use the default"; negative ones are rejected.
func (v *ConfigValidator) ValidateGuard(config *domain.AISettings) error {
	if config == nil {
		return nil
	}

	var errs []error
	if config.RatePerSecond < 0 {
		errs = append(errs, fmt.Errorf("ai.rate must not be negative, got %g", config.RatePerSecond))
	}
	if config.Burst < 0 {
		errs = append(errs, fmt.Errorf("ai.burst must not be negative, got %d", config.Burst))
	}
	if config.MaxFailures < 0 {
		errs = append(errs, fmt.Errorf("ai.max_failures must not be negative, got %d", config.MaxFailures))
	}
	if config.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("ai.cache_size must not be negative, got %d", config.CacheSize))
	}
	for name, d := range map[string]time.Duration{
		"ai.breaker_timeout":  config.BreakerTimeout,
		"ai.embed_timeout":    config.EmbedTimeout,
		"ai.generate_timeout": config.GenerateTimeout,
		"ai.cache_ttl":        config.CacheTTL,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %s", name, d))
		}
	}
	if config.EmbedTimeout > 0 && config.BreakerTimeout > 0 && config.BreakerTimeout < config.EmbedTimeout {
		errs = append(errs, fmt.Errorf("ai.breaker_timeout (%s) is shorter than ai.embed_timeout (%s)",
			config.BreakerTimeout, config.EmbedTimeout))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}

// checkProvider rejects settings that can never work, before any network
// call. An empty model is allowed and means the provider default.
func checkProvider(capability string, provider domain.AIProvider, model, apiKey, baseURL string) error {
	switch {
	case !provider.IsValid():
		return fmt.Errorf("%w: unknown %s provider %q", domain.ErrInvalidInput, capability, provider)
	case model != "" && strings.TrimSpace(model) == "":
		return fmt.Errorf("%w: %s model for %s is blank", domain.ErrInvalidInput, capability, provider)
	case provider.RequiresAPIKey() && strings.TrimSpace(apiKey) == "":
		return fmt.Errorf("%w: %s requires an API key", domain.ErrInvalidInput, provider.Description())
	}
	if baseURL == "" {
		return nil
	}
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s base URL %q must be an http(s) URL", domain.ErrInvalidInput, capability, baseURL)
	}
	return nil
}
