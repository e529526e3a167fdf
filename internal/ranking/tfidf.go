package ranking

import (
	"context"
	"strings"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/logger"
	"github.com/custodia-labs/archivo/internal/textproc"
)

// DefaultTFIDFMinScore is the cosine a document must exceed to be returned.
const DefaultTFIDFMinScore = 0.01

// TFIDF ranks documents by cosine similarity in a fitted TF-IDF space. Without
// an index it falls back to keyword overlap over title and subjects.
type TFIDF struct {
	index    *TFIDFIndex
	minScore float64
}

// NewTFIDF creates a TF-IDF strategy. index may be nil.
func NewTFIDF(index *TFIDFIndex, minScore float64) *TFIDF {
	return &TFIDF{index: index, minScore: minScore}
}

// Name implements Strategy.
func (s *TFIDF) Name() string { return NameTFIDF }

// Search implements Strategy.
func (s *TFIDF) Search(_ context.Context, query string, docs []domain.Document, topK int) []domain.ScoredDocument {
	if topK <= 0 || blank(query) {
		return nil
	}
	if s.index == nil {
		return keywordFallback(query, docs, topK)
	}
	results, ok := s.cosine(query, docs)
	if !ok {
		return keywordFallback(query, docs, topK)
	}
	return rank(results, topK)
}

func (s *TFIDF) cosine(query string, docs []domain.Document) (results []domain.ScoredDocument, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("tfidf scoring failed, using keyword fallback: %v", r)
			results, ok = nil, false
		}
	}()

	q := s.index.Transform(query)
	if q.Len() == 0 {
		return nil, true
	}
	for _, doc := range docs {
		row, found := s.index.Row(doc.Href)
		if !found {
			continue
		}
		if score := q.Dot(row); score > s.minScore {
			results = append(results, scored(doc, score, domain.MatchTFIDF, NameTFIDF))
		}
	}
	return results, true
}

// keywordFallback scores |query words ∩ doc words| / |query words| where doc
// words come from the title and subjects.
func keywordFallback(query string, docs []domain.Document, topK int) []domain.ScoredDocument {
	q := textproc.WordSet(query, 3)
	if len(q) == 0 {
		return nil
	}
	var results []domain.ScoredDocument
	for _, doc := range docs {
		text := doc.Title + " " + strings.Join(doc.Subjects, " ")
		if score := overlap(q, textproc.WordSet(text, 3)); score > 0 {
			results = append(results, scored(doc, score, domain.MatchKeywordFallback, NameTFIDF))
		}
	}
	return rank(results, topK)
}
