package ranking

import "github.com/custodia-labs/archivo/internal/core/domain"

// Deps are the inputs to the default strategy composition.
type Deps struct {
	Normalizer Normalizer
	Expander   Expander

	// Index enables TF-IDF when non-nil.
	Index *TFIDFIndex

	// Embed and Embeddings enable semantic search when both are present.
	Embed      EmbedFunc
	Embeddings domain.Embeddings

	Settings domain.RankingSettings
}

// NewDefaultHybrid composes exact-title and metadata search, plus TF-IDF
// and semantic search when their inputs are available.
func NewDefaultHybrid(d Deps) *Hybrid {
	s := d.Settings
	h := NewHybrid(WithRRFK(s.RRFK), WithOversample(s.Oversample))

	h.AddStrategy(NewExactTitle(d.Normalizer), s.ExactWeight)
	h.AddStrategy(NewMetadata(d.Expander), s.MetadataWeight)

	if d.Index != nil {
		h.AddStrategy(NewTFIDF(d.Index, s.TFIDFMinScore), s.TFIDFWeight)
	}
	if d.Embed != nil && len(d.Embeddings) > 0 {
		h.AddStrategy(NewSemantic(d.Embed, d.Embeddings, s.SemanticMinScore), s.SemanticWeight)
	}
	return h
}
