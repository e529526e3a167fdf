package ranking

import (
	"context"
	"strings"
	"unicode"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

// ExactTitle scores documents by how closely their normalised title matches
// the normalised query.
type ExactTitle struct {
	normalizer Normalizer
}

// NewExactTitle creates an exact-title strategy. A nil normalizer only
// lowercases and collapses whitespace.
func NewExactTitle(normalizer Normalizer) *ExactTitle {
	return &ExactTitle{normalizer: normalizer}
}

// Name implements Strategy.
func (s *ExactTitle) Name() string { return NameExactTitle }

// Search implements Strategy.
func (s *ExactTitle) Search(_ context.Context, query string, docs []domain.Document, topK int) []domain.ScoredDocument {
	if topK <= 0 || blank(query) {
		return nil
	}
	q := bareWords(normalize(s.normalizer, query))
	if q == "" {
		return nil
	}
	qWords := wordSet(strings.Fields(q))

	var results []domain.ScoredDocument
	for _, doc := range docs {
		t := bareWords(normalize(s.normalizer, doc.Title))
		if t == "" {
			continue
		}
		score, match := titleScore(q, t, qWords)
		if score > 0 {
			results = append(results, scored(doc, score, match, NameExactTitle))
		}
	}
	return rank(results, topK)
}

func titleScore(q, t string, qWords map[string]struct{}) (float64, domain.MatchType) {
	switch {
	case q == t:
		return 1.0, domain.MatchExact
	case strings.Contains(t, q):
		return 0.9, domain.MatchContains
	case strings.Contains(q, t):
		return 0.85, domain.MatchReverseContains
	}
	o := overlap(qWords, wordSet(strings.Fields(t)))
	if o == 0 {
		return 0, ""
	}
	return 0.7 * o, domain.MatchWordOverlap
}

// bareWords drops the punctuation around each word of normalised text, so
// "aylwin?" compares equal to "aylwin".
func bareWords(text string) string {
	fields := strings.Fields(text)
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimFunc(f, notWordRune); f != "" {
			out = append(out, f)
		}
	}
	return strings.Join(out, " ")
}

func notWordRune(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// overlap returns |q ∩ d| / |q|, or 0 when q is empty.
func overlap(q, d map[string]struct{}) float64 {
	if len(q) == 0 {
		return 0
	}
	common := 0
	for w := range q {
		if _, ok := d[w]; ok {
			common++
		}
	}
	return float64(common) / float64(len(q))
}
