package driven

import "github.com/custodia-labs/archivo/internal/core/domain"

// AIConfigValidator checks AI settings before they are used.
type AIConfigValidator interface {
	// ValidateEmbedding checks the settings and pings the provider.
	// Returns nil if the configuration is valid or the provider is disabled.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateLLM checks the settings and pings the provider.
	// Returns nil if the configuration is valid or the provider is disabled.
	ValidateLLM(config *domain.LLMSettings) error

	// ValidateGuard checks the breaker, rate limit, timeout and cache settings.
	ValidateGuard(config *domain.AISettings) error
}
