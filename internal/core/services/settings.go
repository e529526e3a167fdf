package services

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/core/ports/driven"
	"github.com/custodia-labs/archivo/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyTopK             = "ranking.top_k"
	keyOversample       = "ranking.oversample"
	keyRRFK             = "ranking.rrf_k"
	keyExactWeight      = "ranking.exact_weight"
	keyMetadataWeight   = "ranking.metadata_weight"
	keyTFIDFWeight      = "ranking.tfidf_weight"
	keySemanticWeight   = "ranking.semantic_weight"
	keyTFIDFMinScore    = "ranking.tfidf_min_score"
	keySemanticMinScore = "ranking.semantic_min_score"

	keyEntityFuzzy     = "entities.fuzzy_threshold"
	keyTitleFuzzy      = "comparator.fuzzy_threshold"
	keyTopicThreshold  = "comparator.topic_threshold"
	keyFuzzyComparator = "comparator.fuzzy"

	keySessionTTL = "session.ttl"
	keySessionMax = "session.max_sessions"

	keyEmbedProvider = "embedding.provider"
	keyEmbedModel    = "embedding.model"
	keyEmbedBaseURL  = "embedding.base_url"
	keyEmbedAPIKey   = "embedding.api_key"
	keyLLMProvider   = "llm.provider"
	keyLLMModel      = "llm.model"
	keyLLMBaseURL    = "llm.base_url"
	keyLLMAPIKey     = "llm.api_key"

	keyAIRate            = "ai.rate"
	keyAIBurst           = "ai.burst"
	keyAIMaxFailures     = "ai.max_failures"
	keyAIBreakerTimeout  = "ai.breaker_timeout"
	keyAIEmbedTimeout    = "ai.embed_timeout"
	keyAIGenerateTimeout = "ai.generate_timeout"
	keyAICacheTTL        = "ai.cache_ttl"
	keyAICacheSize       = "ai.cache_size"
	keyCachePersistent   = "cache.persistent"

	keyImportWorkers   = "import.workers"
	keyImportBatchSize = "import.batch_size"

	keyServerAddr  = "server.addr"
	keyTablesPath  = "tables.path"
	keyTablesWatch = "tables.watch"
)

// Environment variables consulted for API keys not present in the config file.
const (
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Ranking: domain.RankingSettings{
			TopK:             s.getInt(keyTopK, d.Ranking.TopK),
			Oversample:       s.getInt(keyOversample, d.Ranking.Oversample),
			RRFK:             s.getInt(keyRRFK, d.Ranking.RRFK),
			ExactWeight:      s.getFloat(keyExactWeight, d.Ranking.ExactWeight),
			MetadataWeight:   s.getFloat(keyMetadataWeight, d.Ranking.MetadataWeight),
			TFIDFWeight:      s.getFloat(keyTFIDFWeight, d.Ranking.TFIDFWeight),
			SemanticWeight:   s.getFloat(keySemanticWeight, d.Ranking.SemanticWeight),
			TFIDFMinScore:    s.getFloat(keyTFIDFMinScore, d.Ranking.TFIDFMinScore),
			SemanticMinScore: s.getFloat(keySemanticMinScore, d.Ranking.SemanticMinScore),
		},
		Conversation: domain.ConversationSettings{
			EntityFuzzyThreshold: s.getInt(keyEntityFuzzy, d.Conversation.EntityFuzzyThreshold),
			TitleFuzzyThreshold:  s.getInt(keyTitleFuzzy, d.Conversation.TitleFuzzyThreshold),
			TopicThreshold:       s.getFloat(keyTopicThreshold, d.Conversation.TopicThreshold),
			FuzzyComparator:      s.getBool(keyFuzzyComparator, d.Conversation.FuzzyComparator),
		},
		Session: domain.SessionSettings{
			TTL:         s.getDuration(keySessionTTL, d.Session.TTL),
			MaxSessions: s.getInt(keySessionMax, d.Session.MaxSessions),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, d.Embedding.Provider),
			Model:    s.configStore.GetString(keyEmbedModel),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, d.LLM.Provider),
			Model:    s.configStore.GetString(keyLLMModel),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		AI: domain.AISettings{
			RatePerSecond:   s.getFloat(keyAIRate, d.AI.RatePerSecond),
			Burst:           s.getInt(keyAIBurst, d.AI.Burst),
			MaxFailures:     s.getInt(keyAIMaxFailures, d.AI.MaxFailures),
			BreakerTimeout:  s.getDuration(keyAIBreakerTimeout, d.AI.BreakerTimeout),
			EmbedTimeout:    s.getDuration(keyAIEmbedTimeout, d.AI.EmbedTimeout),
			GenerateTimeout: s.getDuration(keyAIGenerateTimeout, d.AI.GenerateTimeout),
			CacheTTL:        s.getDuration(keyAICacheTTL, d.AI.CacheTTL),
			CacheSize:       s.getInt(keyAICacheSize, d.AI.CacheSize),
			PersistentCache: s.getBool(keyCachePersistent, d.AI.PersistentCache),
		},
		Import: domain.ImportSettings{
			Workers:   s.getInt(keyImportWorkers, d.Import.Workers),
			BatchSize: s.getInt(keyImportBatchSize, d.Import.BatchSize),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(keyServerAddr, d.Server.Addr),
		},
		Tables: domain.TablesSettings{
			Path:  s.configStore.GetString(keyTablesPath),
			Watch: s.getBool(keyTablesWatch, d.Tables.Watch),
		},
	}

	s.applyModelDefaults(&settings.Embedding.Model, settings.Embedding.Provider, domain.DefaultEmbeddingModels())
	s.applyModelDefaults(&settings.LLM.Model, settings.LLM.Provider, domain.DefaultLLMModels())
	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = s.envAPIKey(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = s.envAPIKey(settings.LLM.Provider)
	}

	return settings, nil
}

// Save persists application settings. API keys are only written when set,
// so keys taken from the environment never end up in the config file
// unless they were saved explicitly.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyTopK, settings.Ranking.TopK},
		{keyOversample, settings.Ranking.Oversample},
		{keyRRFK, settings.Ranking.RRFK},
		{keyExactWeight, settings.Ranking.ExactWeight},
		{keyMetadataWeight, settings.Ranking.MetadataWeight},
		{keyTFIDFWeight, settings.Ranking.TFIDFWeight},
		{keySemanticWeight, settings.Ranking.SemanticWeight},
		{keyTFIDFMinScore, settings.Ranking.TFIDFMinScore},
		{keySemanticMinScore, settings.Ranking.SemanticMinScore},
		{keyEntityFuzzy, settings.Conversation.EntityFuzzyThreshold},
		{keyTitleFuzzy, settings.Conversation.TitleFuzzyThreshold},
		{keyTopicThreshold, settings.Conversation.TopicThreshold},
		{keyFuzzyComparator, settings.Conversation.FuzzyComparator},
		{keySessionTTL, settings.Session.TTL.String()},
		{keySessionMax, settings.Session.MaxSessions},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyAIRate, settings.AI.RatePerSecond},
		{keyAIBurst, settings.AI.Burst},
		{keyAIMaxFailures, settings.AI.MaxFailures},
		{keyAIBreakerTimeout, settings.AI.BreakerTimeout.String()},
		{keyAIEmbedTimeout, settings.AI.EmbedTimeout.String()},
		{keyAIGenerateTimeout, settings.AI.GenerateTimeout.String()},
		{keyAICacheTTL, settings.AI.CacheTTL.String()},
		{keyAICacheSize, settings.AI.CacheSize},
		{keyCachePersistent, settings.AI.PersistentCache},
		{keyImportWorkers, settings.Import.Workers},
		{keyImportBatchSize, settings.Import.BatchSize},
		{keyServerAddr, settings.Server.Addr},
		{keyTablesPath, settings.Tables.Path},
		{keyTablesWatch, settings.Tables.Watch},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Embedding.APIKey != "" && settings.Embedding.APIKey != s.envAPIKey(settings.Embedding.Provider) {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if settings.LLM.APIKey != "" && settings.LLM.APIKey != s.envAPIKey(settings.LLM.Provider) {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if apiKey == "" {
		apiKey = s.envAPIKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = model
	s.applyModelDefaults(&settings.Embedding.Model, provider, domain.DefaultEmbeddingModels())
	settings.Embedding.BaseURL = baseURLFor(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if apiKey == "" {
		apiKey = s.envAPIKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = model
	s.applyModelDefaults(&settings.LLM.Model, provider, domain.DefaultLLMModels())
	settings.LLM.BaseURL = baseURLFor(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that the current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var errs []error
	r := settings.Ranking
	if r.TopK <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", keyTopK, r.TopK))
	}
	for key, w := range map[string]float64{
		keyExactWeight:    r.ExactWeight,
		keyMetadataWeight: r.MetadataWeight,
		keyTFIDFWeight:    r.TFIDFWeight,
		keySemanticWeight: r.SemanticWeight,
	} {
		if w < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %g", key, w))
		}
	}
	c := settings.Conversation
	if c.EntityFuzzyThreshold < 0 || c.EntityFuzzyThreshold > 100 {
		errs = append(errs, fmt.Errorf("%s must be between 0 and 100", keyEntityFuzzy))
	}
	if c.TitleFuzzyThreshold < 0 || c.TitleFuzzyThreshold > 100 {
		errs = append(errs, fmt.Errorf("%s must be between 0 and 100", keyTitleFuzzy))
	}
	if settings.Embedding.Provider != domain.AIProviderNone && !settings.Embedding.IsConfigured() {
		errs = append(errs, fmt.Errorf("embedding provider %s is not fully configured", settings.Embedding.Provider))
	}
	if settings.LLM.Provider != domain.AIProviderNone && !settings.LLM.IsConfigured() {
		errs = append(errs, fmt.Errorf("LLM provider %s is not fully configured", settings.LLM.Provider))
	}
	if s.aiValidator != nil {
		if err := s.aiValidator.ValidateGuard(&settings.AI); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetDuration(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) applyModelDefaults(model *string, provider domain.AIProvider, defaults map[domain.AIProvider]string) {
	if *model != "" {
		return
	}
	if m, ok := defaults[provider]; ok {
		*model = m
	}
}

func (s *SettingsService) envAPIKey(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderGemini:
		return s.getenv(EnvGeminiAPIKey)
	case domain.AIProviderOpenAI:
		return s.getenv(EnvOpenAIAPIKey)
	default:
		return ""
	}
}

// baseURLFor keeps a custom base URL for local providers and clears it for
// cloud ones.
func baseURLFor(provider domain.AIProvider, current string) string {
	if !provider.IsLocal() {
		return ""
	}
	if current == "" {
		return "http://localhost:11434"
	}
	return current
}
