package driving

import (
	"context"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

// SearchService ranks archival documents for a query.
type SearchService interface {
	// Analyze normalises the query, extracts its entities and expands it with synonyms.
	Analyze(query string) domain.Query

	// Search ranks the corpus for the query and returns at most limit documents.
	// A non-positive limit uses the configured default.
	// An empty query returns no documents and no error.
	Search(ctx context.Context, query string, limit int) ([]domain.ScoredDocument, error)

	// IsOutOfScope reports whether the query asks for administrative
	// information the archive does not hold.
	IsOutOfScope(query string) bool

	// Status reports what the ranking engine has loaded.
	Status() domain.SearchStatus

	// ReloadTables swaps the normalisation and synonym tables.
	ReloadTables(tables domain.Tables) error
}
