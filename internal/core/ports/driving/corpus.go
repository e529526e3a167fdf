package driving

import (
	"context"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/ranking"
)

// Corpus is everything the ranking engine serves from.
// It is read-only once loaded.
type Corpus struct {
	Documents  []domain.Document
	Index      *ranking.TFIDFIndex // nil when no index has been built
	Embeddings domain.Embeddings   // empty when no vectors are stored
}

// CorpusService imports archive records and derives the search index and embeddings.
type CorpusService interface {
	// Import reads a JSON array of Dublin Core records from path and stores
	// the normalised documents.
	Import(ctx context.Context, path string) (*domain.ImportResult, error)

	// BuildIndex fits the TF-IDF index over the stored documents and persists it.
	BuildIndex(ctx context.Context) (*domain.IndexResult, error)

	// Embed computes vectors for documents that lack one and persists them.
	// Returns domain.ErrEmbeddingUnavailable if no embedding service is configured.
	Embed(ctx context.Context) (*domain.EmbedResult, error)

	// Load returns the stored corpus, index and embeddings.
	Load(ctx context.Context) (*Corpus, error)

	// Stats summarises the stored corpus.
	Stats(ctx context.Context) (domain.CorpusStats, error)
}
