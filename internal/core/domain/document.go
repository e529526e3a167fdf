package domain

// Document is an archival record.
// Documents are loaded once and never mutated afterwards; strategies
// receive them by value and return copies inside ScoredDocument.
type Document struct {
	// Title is the human-readable title (dc:title).
	Title string `json:"title"`

	// Href uniquely identifies the document within the corpus.
	Href string `json:"href"`

	// Subjects are the dc:subject entries.
	Subjects []string `json:"subjects,omitempty"`

	// Creators are the dc:creator entries.
	Creators []string `json:"creators,omitempty"`

	// Coverages are the dc:coverage entries (places, periods).
	Coverages []string `json:"coverages,omitempty"`

	// Dates are the dc:date entries as they appear in the record.
	Dates []string `json:"dates,omitempty"`
}

// MatchType records how a strategy matched a document.
type MatchType string

// Match types produced by the ranking strategies.
const (
	MatchExact           MatchType = "exact"
	MatchContains        MatchType = "contains"
	MatchReverseContains MatchType = "reverse_contains"
	MatchWordOverlap     MatchType = "word_overlap"
	MatchTFIDF           MatchType = "tfidf"
	MatchSemantic        MatchType = "semantic"
	MatchMetadata        MatchType = "metadata"
	MatchHybrid          MatchType = "hybrid"
	MatchKeywordFallback MatchType = "keyword_fallback"
)

// String returns the string representation.
func (m MatchType) String() string {
	return string(m)
}

// ScoredDocument is a document ranked by a search strategy.
// It is created per search call and never persisted.
type ScoredDocument struct {
	Document

	// Score is the relevance score (>= 0). Scales differ between strategies.
	Score float64 `json:"relevance_score"`

	// MatchType records how the document matched.
	MatchType MatchType `json:"match_type"`

	// Strategies lists the contributing strategy names, without duplicates,
	// in the order they first contributed.
	Strategies []string `json:"strategies"`
}

// AddStrategy records a contributing strategy name once.
func (s *ScoredDocument) AddStrategy(name string) {
	for _, existing := range s.Strategies {
		if existing == name {
			return
		}
	}
	s.Strategies = append(s.Strategies, name)
}

// Hrefs returns the hrefs of the given documents in order.
func Hrefs(docs []ScoredDocument) []string {
	out := make([]string, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].Href)
	}
	return out
}

// Embeddings maps a document href to its precomputed embedding vector.
// The table is read-only once loaded.
type Embeddings map[string][]float32

// CorpusStats summarises what the corpus store holds.
type CorpusStats struct {
	// Documents is the number of stored documents.
	Documents int `json:"documents"`

	// Embeddings is the number of documents with a stored vector.
	Embeddings int `json:"embeddings"`

	// IndexTerms is the vocabulary size of the stored TF-IDF index (0 if absent).
	IndexTerms int `json:"index_terms"`

	// EmbeddingModel is the model that produced the stored vectors.
	EmbeddingModel string `json:"embedding_model,omitempty"`
}
