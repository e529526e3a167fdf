package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// This is an optional service - when nil, semantic ranking is disabled.
//
// Embed is used for search queries and EmbedBatch for corpus documents.
// Providers that distinguish retrieval tasks (Gemini) embed them differently.
//
// Implementations include:
//   - Gemini (text-embedding-004)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for a search query.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple documents.
	// The result has one vector per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 768, 1536).
	// Zero means the size is only known after the first call.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	// This is used at startup to verify connectivity before enabling semantic ranking.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
