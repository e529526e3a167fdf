package conversation

import (
	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/textproc"
)

// Comparator defaults.
const (
	DefaultTopicThreshold = 0.5
	DefaultFuzzyThreshold = 85
)

// Comparator relates a new result list to earlier ones.
type Comparator struct {
	sim            textproc.Similarity
	fuzzyTopics    bool
	topicThreshold float64
	fuzzyThreshold int
}

// ComparatorOption configures a Comparator.
type ComparatorOption func(*Comparator)

// WithFuzzyTopics makes TopicSimilarity average pairwise title similarity
// instead of taking the Jaccard index of title words.
func WithFuzzyTopics() ComparatorOption {
	return func(c *Comparator) { c.fuzzyTopics = true }
}

// WithSimilarity sets the title similarity used by fuzzy comparisons.
func WithSimilarity(sim textproc.Similarity) ComparatorOption {
	return func(c *Comparator) {
		if sim != nil {
			c.sim = sim
		}
	}
}

// WithTopicThreshold sets the similarity below which IsTopicShift is true.
func WithTopicThreshold(t float64) ComparatorOption {
	return func(c *Comparator) { c.topicThreshold = t }
}

// WithFuzzyThreshold sets the title similarity (0-100) at which
// FuzzyDuplicates treats two titles as the same document.
func WithFuzzyThreshold(t int) ComparatorOption {
	return func(c *Comparator) { c.fuzzyThreshold = t }
}

// NewComparator creates a comparator. By default topic similarity uses
// exact word overlap and titles are compared with textproc.EditRatio.
func NewComparator(opts ...ComparatorOption) *Comparator {
	c := &Comparator{
		sim:            textproc.EditRatio,
		topicThreshold: DefaultTopicThreshold,
		fuzzyThreshold: DefaultFuzzyThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compare splits docs into those whose href has not been seen and those
// that were already shown. Both keep the input order.
func (c *Comparator) Compare(docs []domain.ScoredDocument, previous map[string]struct{}) (fresh, seen []domain.ScoredDocument) {
	for _, d := range docs {
		if _, ok := previous[d.Href]; ok {
			seen = append(seen, d)
		} else {
			fresh = append(fresh, d)
		}
	}
	return fresh, seen
}

// TopicSimilarity scores how much two result sets share a subject, from 0
// to 1. Either side being empty scores 0.
func (c *Comparator) TopicSimilarity(a, b []domain.Document) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if c.fuzzyTopics {
		return c.meanTitleSimilarity(a, b)
	}
	wa, wb := titleWords(a), titleWords(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	common := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			common++
		}
	}
	return float64(common) / float64(len(wa)+len(wb)-common)
}

// IsTopicShift reports whether b is about something else than a.
func (c *Comparator) IsTopicShift(a, b []domain.Document) bool {
	return c.TopicSimilarity(a, b) < c.topicThreshold
}

// FuzzyDuplicates returns the docs whose title is near-identical to a
// previously shown title even though the href differs.
func (c *Comparator) FuzzyDuplicates(docs []domain.ScoredDocument, previous []domain.Document) []domain.ScoredDocument {
	var dups []domain.ScoredDocument
	for _, d := range docs {
		title := textproc.Fold(d.Title)
		for _, p := range previous {
			if p.Href == d.Href {
				continue
			}
			if c.sim(title, textproc.Fold(p.Title)) >= c.fuzzyThreshold {
				dups = append(dups, d)
				break
			}
		}
	}
	return dups
}

func (c *Comparator) meanTitleSimilarity(a, b []domain.Document) float64 {
	var sum float64
	for _, da := range a {
		ta := textproc.Fold(da.Title)
		for _, db := range b {
			sum += float64(c.sim(ta, textproc.Fold(db.Title))) / 100
		}
	}
	return sum / float64(len(a)*len(b))
}

func titleWords(docs []domain.Document) map[string]struct{} {
	set := make(map[string]struct{})
	for _, d := range docs {
		for _, w := range textproc.LetterWords(d.Title, 3) {
			set[w] = struct{}{}
		}
	}
	return set
}
