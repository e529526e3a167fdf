package ranking

import (
	"context"
	"sort"
	"strings"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

// Strategy names reported in ScoredDocument.Strategies.
const (
	NameExactTitle = "exact_title"
	NameTFIDF      = "tfidf"
	NameSemantic   = "semantic"
	NameMetadata   = "metadata"
	NameHybrid     = "hybrid"
)

// Strategy ranks documents for a query.
type Strategy interface {
	// Name identifies the strategy in results and logs.
	Name() string

	// Search returns at most topK documents sorted by descending score.
	// An empty query or topK <= 0 yields no results.
	Search(ctx context.Context, query string, docs []domain.Document, topK int) []domain.ScoredDocument
}

// EmbedFunc turns text into a vector. It returns nil when embedding is
// unavailable.
type EmbedFunc func(ctx context.Context, text string) []float32

// Normalizer canonicalises text before matching.
type Normalizer interface {
	Normalize(text string) string
}

// Expander produces alternate phrasings of a query, original first.
type Expander interface {
	Expand(query string) []string
}

func normalize(n Normalizer, text string) string {
	if n == nil {
		return strings.Join(strings.Fields(strings.ToLower(text)), " ")
	}
	return n.Normalize(text)
}

func blank(query string) bool {
	return strings.TrimSpace(query) == ""
}

func scored(doc domain.Document, score float64, match domain.MatchType, strategy string) domain.ScoredDocument {
	return domain.ScoredDocument{
		Document:   doc,
		Score:      score,
		MatchType:  match,
		Strategies: []string{strategy},
	}
}

// rank sorts results by descending score, keeping input order for ties,
// and cuts them to topK.
func rank(results []domain.ScoredDocument, topK int) []domain.ScoredDocument {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}
