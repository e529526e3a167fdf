package ranking

import (
	"context"
	"strings"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/textproc"
)

// Dublin Core field weights.
const (
	titleWeight    = 3.0
	subjectWeight  = 2.0
	creatorWeight  = 1.5
	coverageWeight = 1.0
)

// Metadata scores weighted word overlap between synonym variants of the query
// and the title, subject, creator and coverage fields.
type Metadata struct {
	expander Expander
}

// NewMetadata creates a metadata strategy. A nil expander searches the query
// as typed.
func NewMetadata(expander Expander) *Metadata {
	return &Metadata{expander: expander}
}

// Name implements Strategy.
func (s *Metadata) Name() string { return NameMetadata }

type weightedField struct {
	words  map[string]struct{}
	weight float64
}

// Search implements Strategy.
func (s *Metadata) Search(_ context.Context, query string, docs []domain.Document, topK int) []domain.ScoredDocument {
	if topK <= 0 || blank(query) {
		return nil
	}
	variants := []string{query}
	if s.expander != nil {
		variants = s.expander.Expand(query)
	}
	qSets := make([]map[string]struct{}, 0, len(variants))
	for _, v := range variants {
		if set := textproc.WordSet(v, 3); len(set) > 0 {
			qSets = append(qSets, set)
		}
	}
	if len(qSets) == 0 {
		return nil
	}

	var results []domain.ScoredDocument
	for _, doc := range docs {
		fields := [...]weightedField{
			{textproc.WordSet(doc.Title, 3), titleWeight},
			{textproc.WordSet(strings.Join(doc.Subjects, " "), 3), subjectWeight},
			{textproc.WordSet(strings.Join(doc.Creators, " "), 3), creatorWeight},
			{textproc.WordSet(strings.Join(doc.Coverages, " "), 3), coverageWeight},
		}
		var score float64
		for _, q := range qSets {
			for _, f := range fields {
				score += overlap(q, f.words) * f.weight
			}
		}
		if score > 0 {
			results = append(results, scored(doc, score, domain.MatchMetadata, NameMetadata))
		}
	}
	return rank(results, topK)
}
