package driven

import (
	"context"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/ranking"
)

// CorpusStore persists the archival corpus and everything derived from it.
// Documents are written by import and read once at startup; serving code
// treats what it loads as read-only.
type CorpusStore interface {
	// SaveDocuments upserts documents by href.
	SaveDocuments(ctx context.Context, docs []domain.Document) error

	// Documents returns every stored document in import order.
	Documents(ctx context.Context) ([]domain.Document, error)

	// SaveEmbeddings upserts vectors by href and records the model that produced them.
	SaveEmbeddings(ctx context.Context, model string, embeddings domain.Embeddings) error

	// Embeddings returns every stored vector.
	Embeddings(ctx context.Context) (domain.Embeddings, error)

	// SaveIndex replaces the stored TF-IDF index.
	SaveIndex(ctx context.Context, snapshot ranking.TFIDFSnapshot) error

	// LoadIndex returns the stored TF-IDF index.
	// Returns domain.ErrIndexNotFound if no index has been saved.
	LoadIndex(ctx context.Context) (*ranking.TFIDFSnapshot, error)

	// Stats summarises the stored corpus.
	Stats(ctx context.Context) (domain.CorpusStats, error)

	// Close releases resources.
	Close() error
}
