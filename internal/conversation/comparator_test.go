package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

func scoredDocs(hrefs ...string) []domain.ScoredDocument {
	out := make([]domain.ScoredDocument, len(hrefs))
	for i, h := range hrefs {
		out[i] = domain.ScoredDocument{Document: domain.Document{Title: "doc " + h, Href: h}}
	}
	return out
}

func TestComparator_Compare(t *testing.T) {
	c := NewComparator()
	docs := scoredDocs("/1", "/2", "/3", "/4")

	fresh, seen := c.Compare(docs, map[string]struct{}{"/2": {}, "/4": {}, "/9": {}})

	assert.Equal(t, []string{"/1", "/3"}, domain.Hrefs(fresh))
	assert.Equal(t, []string{"/2", "/4"}, domain.Hrefs(seen))

	fresh, seen = c.Compare(docs, nil)
	assert.Len(t, fresh, 4)
	assert.Empty(t, seen)
}

func TestComparator_TopicSimilarity(t *testing.T) {
	aylwin := []domain.Document{{Title: "Carta de Aylwin"}}
	allende := []domain.Document{{Title: "Carta de Allende"}}

	exact := NewComparator()
	assert.InDelta(t, 1.0/3, exact.TopicSimilarity(aylwin, allende), 1e-9)
	assert.InDelta(t, 1.0, exact.TopicSimilarity(aylwin, aylwin), 1e-9)
	assert.Zero(t, exact.TopicSimilarity(nil, allende))
	assert.Zero(t, exact.TopicSimilarity(aylwin, nil))
	assert.Zero(t, exact.TopicSimilarity([]domain.Document{{Title: "de la"}}, allende))

	fuzzy := NewComparator(WithFuzzyTopics())
	assert.InDelta(t, 1.0, fuzzy.TopicSimilarity(aylwin, aylwin), 1e-9)
	assert.Zero(t, fuzzy.TopicSimilarity(nil, aylwin))
	sim := fuzzy.TopicSimilarity(aylwin, allende)
	assert.Greater(t, sim, 0.5)
	assert.Less(t, sim, 1.0)
}

func TestComparator_IsTopicShift(t *testing.T) {
	c := NewComparator()
	aylwin := []domain.Document{{Title: "Carta de Aylwin"}}
	allende := []domain.Document{{Title: "Carta de Allende"}}

	assert.True(t, c.IsTopicShift(aylwin, allende))
	assert.False(t, c.IsTopicShift(aylwin, aylwin))
	assert.False(t, NewComparator(WithTopicThreshold(0.3)).IsTopicShift(aylwin, allende))
}

func TestComparator_FuzzyDuplicates(t *testing.T) {
	c := NewComparator()
	docs := []domain.ScoredDocument{
		{Document: domain.Document{Title: "Carta de Aylwin a ministro", Href: "/x"}},
		{Document: domain.Document{Title: "Fotografías del plebiscito", Href: "/p"}},
		{Document: domain.Document{Title: "Acta del consejo", Href: "/same"}},
	}
	previous := []domain.Document{
		{Title: "Carta de Aylwin al ministro", Href: "/y"},
		{Title: "Acta del consejo", Href: "/same"},
	}

	dups := c.FuzzyDuplicates(docs, previous)

	assert.Equal(t, []string{"/x"}, domain.Hrefs(dups))
	assert.Empty(t, NewComparator(WithFuzzyThreshold(100)).FuzzyDuplicates(docs, previous))
}
