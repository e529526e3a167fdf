package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderNone disables the capability.
	AIProviderNone AIProvider = ""

	// AIProviderGemini is Google's Gemini API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOpenAI, AIProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGemini || p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderNone:
		return "Disabled"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for Gemini and OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for Gemini and OpenAI).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// RankingSettings configures the ranking engine.
type RankingSettings struct {
	// TopK is the number of documents returned to the user.
	TopK int

	// Oversample multiplies TopK for each fused sub-strategy.
	Oversample int

	// RRFK is the Reciprocal Rank Fusion constant.
	RRFK int

	// Fusion weights.
	ExactWeight    float64
	MetadataWeight float64
	TFIDFWeight    float64
	SemanticWeight float64

	// TFIDFMinScore is the cosine cut-off for TF-IDF hits.
	TFIDFMinScore float64

	// SemanticMinScore is the cosine cut-off for embedding hits.
	SemanticMinScore float64
}

// ConversationSettings configures extraction and comparison thresholds.
type ConversationSettings struct {
	// EntityFuzzyThreshold is the minimum similarity (0-100) for a fuzzy
	// doc-type or topic match.
	EntityFuzzyThreshold int

	// TitleFuzzyThreshold is the minimum similarity (0-100) for two titles
	// to be treated as the same document.
	TitleFuzzyThreshold int

	// TopicThreshold is the topic similarity below which a follow-up is
	// reported as a topic shift.
	TopicThreshold float64

	// FuzzyComparator switches topic similarity from word Jaccard to
	// averaged title similarity.
	FuzzyComparator bool
}

// SessionSettings bounds the in-memory session store.
type SessionSettings struct {
	// TTL is how long an idle session is kept.
	TTL time.Duration

	// MaxSessions is the maximum number of live sessions.
	MaxSessions int
}

// AISettings configures protection around AI providers.
type AISettings struct {
	// RatePerSecond limits outgoing calls per provider.
	RatePerSecond float64

	// Burst is the rate limiter burst size.
	Burst int

	// MaxFailures is the number of consecutive failures that opens the breaker.
	MaxFailures int

	// BreakerTimeout is how long the breaker stays open.
	BreakerTimeout time.Duration

	// EmbedTimeout bounds a single embedding call.
	EmbedTimeout time.Duration

	// GenerateTimeout bounds a single generation call.
	GenerateTimeout time.Duration

	// CacheTTL is how long embeddings and generations are cached.
	CacheTTL time.Duration

	// CacheSize is the in-memory cache capacity.
	CacheSize int

	// PersistentCache keeps cached embeddings on disk between runs.
	PersistentCache bool
}

// ImportSettings configures corpus import.
type ImportSettings struct {
	// Workers is the size of the embedding worker pool.
	Workers int

	// BatchSize is the number of texts sent per embedding call.
	BatchSize int
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string
}

// TablesSettings locates the swappable data tables.
type TablesSettings struct {
	// Path is the TOML tables file. Empty uses built-in tables only.
	Path string

	// Watch reloads the tables when the file changes.
	Watch bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	Ranking      RankingSettings
	Conversation ConversationSettings
	Session      SessionSettings
	Embedding    EmbeddingSettings
	LLM          LLMSettings
	AI           AISettings
	Import       ImportSettings
	Server       ServerSettings
	Tables       TablesSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// AI features (Embedding, LLM) are left unconfigured by default.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Ranking: RankingSettings{
			TopK:             6,
			Oversample:       2,
			RRFK:             60,
			ExactWeight:      1.5,
			MetadataWeight:   1.2,
			TFIDFWeight:      1.0,
			SemanticWeight:   1.3,
			TFIDFMinScore:    0.01,
			SemanticMinScore: 0.3,
		},
		Conversation: ConversationSettings{
			EntityFuzzyThreshold: 80,
			TitleFuzzyThreshold:  85,
			TopicThreshold:       0.5,
		},
		Session: SessionSettings{
			TTL:         30 * time.Minute,
			MaxSessions: 1000,
		},
		AI: AISettings{
			RatePerSecond:   10,
			Burst:           5,
			MaxFailures:     5,
			BreakerTimeout:  60 * time.Second,
			EmbedTimeout:    10 * time.Second,
			GenerateTimeout: 30 * time.Second,
			CacheTTL:        time.Hour,
			CacheSize:       2048,
		},
		Import: ImportSettings{
			Workers:   4,
			BatchSize: 32,
		},
		Server: ServerSettings{
			Addr: "127.0.0.1:5000",
		},
	}
}

// AllAIProviders returns providers that support both embeddings and generation.
func AllAIProviders() []AIProvider {
	return []AIProvider{
		AIProviderGemini,
		AIProviderOpenAI,
		AIProviderOllama,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini: "text-embedding-004",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderOllama: "nomic-embed-text",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini: "gemini-2.0-flash",
		AIProviderOpenAI: "gpt-4o-mini",
		AIProviderOllama: "llama3.2",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Gemini models
		"text-embedding-004":   768,
		"gemini-embedding-001": 3072,
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
