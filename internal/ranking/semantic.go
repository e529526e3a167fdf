package ranking

import (
	"context"
	"math"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

// DefaultSemanticMinScore is the cosine a document must exceed to be returned.
const DefaultSemanticMinScore = 0.3

// Semantic ranks documents by cosine similarity between the query embedding
// and precomputed document embeddings.
type Semantic struct {
	embed      EmbedFunc
	embeddings domain.Embeddings
	minScore   float64
}

// NewSemantic creates a semantic strategy. With a nil embed func or no
// embeddings every search returns empty.
func NewSemantic(embed EmbedFunc, embeddings domain.Embeddings, minScore float64) *Semantic {
	return &Semantic{embed: embed, embeddings: embeddings, minScore: minScore}
}

// Name implements Strategy.
func (s *Semantic) Name() string { return NameSemantic }

// Available reports whether the strategy can produce results at all.
func (s *Semantic) Available() bool {
	return s.embed != nil && len(s.embeddings) > 0
}

// Search implements Strategy.
func (s *Semantic) Search(ctx context.Context, query string, docs []domain.Document, topK int) []domain.ScoredDocument {
	if topK <= 0 || blank(query) || !s.Available() {
		return nil
	}
	q := s.embed(ctx, query)
	if len(q) == 0 {
		return nil
	}
	qNorm := norm(q)
	if qNorm == 0 {
		return nil
	}

	var results []domain.ScoredDocument
	for _, doc := range docs {
		v, ok := s.embeddings[doc.Href]
		if !ok || len(v) != len(q) {
			continue
		}
		score := Cosine(q, v, qNorm)
		if score > s.minScore {
			results = append(results, scored(doc, score, domain.MatchSemantic, NameSemantic))
		}
	}
	return rank(results, topK)
}

// Cosine returns the cosine similarity of equal-length vectors a and b.
// aNorm may be passed precomputed; zero means compute it. A zero vector
// scores 0.
func Cosine(a, b []float32, aNorm float64) float64 {
	if aNorm == 0 {
		aNorm = norm(a)
	}
	bNorm := norm(b)
	if aNorm == 0 || bNorm == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (aNorm * bNorm)
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
