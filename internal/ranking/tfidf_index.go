package ranking

import (
	"cmp"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_-]+`)

// Field caps applied when building a document's index text.
const (
	maxIndexedSubjects  = 15
	maxIndexedCreators  = 10
	maxIndexedCoverages = 5
	maxIndexedDates     = 3
	titleRepeats        = 3
)

// TFIDFOptions configures FitTFIDF.
type TFIDFOptions struct {
	// MinN and MaxN bound the word n-gram sizes.
	MinN int `json:"min_n"`
	MaxN int `json:"max_n"`

	// MaxFeatures keeps only the most frequent terms across the corpus.
	// Zero keeps everything.
	MaxFeatures int `json:"max_features"`

	// MaxDF drops terms present in more than this fraction of documents.
	// It only applies when MaxDF*N >= 1.
	MaxDF float64 `json:"max_df"`
}

// DefaultTFIDFOptions returns 1-3 grams, 15000 features and max_df 0.9.
func DefaultTFIDFOptions() TFIDFOptions {
	return TFIDFOptions{MinN: 1, MaxN: 3, MaxFeatures: 15000, MaxDF: 0.9}
}

func (o TFIDFOptions) withDefaults() TFIDFOptions {
	if o.MinN <= 0 {
		o.MinN = 1
	}
	if o.MaxN < o.MinN {
		o.MaxN = o.MinN
	}
	return o
}

// SparseVector is a vector stored as parallel, index-sorted slices.
type SparseVector struct {
	Indices []int     `json:"indices"`
	Values  []float64 `json:"values"`
}

// Dot returns the dot product of two index-sorted vectors.
func (v SparseVector) Dot(o SparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Len returns the number of non-zero entries.
func (v SparseVector) Len() int { return len(v.Indices) }

// TFIDFIndex is a fitted TF-IDF model plus one L2-normalised row per
// document, keyed by href. It is read-only after construction.
type TFIDFIndex struct {
	opts       TFIDFOptions
	normalizer Normalizer
	docs       int
	terms      []string
	vocab      map[string]int
	idf        []float64
	rows       map[string]SparseVector
}

// FitTFIDF builds an index over docs. Each document contributes its title
// three times, the last href path segment, and capped subject, creator,
// coverage and date lists, all passed through normalizer.
func FitTFIDF(docs []domain.Document, normalizer Normalizer, opts TFIDFOptions) (*TFIDFIndex, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("fit tfidf: %w", domain.ErrCorpusEmpty)
	}
	opts = opts.withDefaults()

	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	freq := make(map[string]int)
	for i, doc := range docs {
		c := ngramCounts(tokenize(IndexText(doc, normalizer)), opts)
		counts[i] = c
		for term, n := range c {
			df[term]++
			freq[term] += n
		}
	}

	n := len(docs)
	if opts.MaxDF > 0 && opts.MaxDF < 1 && opts.MaxDF*float64(n) >= 1 {
		limit := opts.MaxDF * float64(n)
		for term, d := range df {
			if float64(d) > limit {
				delete(df, term)
			}
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	if opts.MaxFeatures > 0 && len(terms) > opts.MaxFeatures {
		slices.SortFunc(terms, func(a, b string) int {
			if c := cmp.Compare(freq[b], freq[a]); c != 0 {
				return c
			}
			return strings.Compare(a, b)
		})
		terms = terms[:opts.MaxFeatures]
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("fit tfidf: empty vocabulary: %w", domain.ErrInvalidInput)
	}
	slices.Sort(terms)

	idf := make([]float64, len(terms))
	for i, term := range terms {
		idf[i] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	x := newTFIDFIndex(opts, normalizer, n, terms, idf)
	for i, doc := range docs {
		x.rows[doc.Href] = x.weigh(counts[i])
	}
	return x, nil
}

func newTFIDFIndex(opts TFIDFOptions, normalizer Normalizer, docs int, terms []string, idf []float64) *TFIDFIndex {
	vocab := make(map[string]int, len(terms))
	for i, t := range terms {
		vocab[t] = i
	}
	return &TFIDFIndex{
		opts:       opts,
		normalizer: normalizer,
		docs:       docs,
		terms:      terms,
		vocab:      vocab,
		idf:        idf,
		rows:       make(map[string]SparseVector, docs),
	}
}

// Transform maps text into the index's vector space.
func (x *TFIDFIndex) Transform(text string) SparseVector {
	return x.weigh(ngramCounts(tokenize(normalize(x.normalizer, text)), x.opts))
}

// Row returns the stored vector for href.
func (x *TFIDFIndex) Row(href string) (SparseVector, bool) {
	v, ok := x.rows[href]
	return v, ok
}

// Terms returns the vocabulary size.
func (x *TFIDFIndex) Terms() int { return len(x.terms) }

// Documents returns the number of documents the index was fitted on.
func (x *TFIDFIndex) Documents() int { return x.docs }

// Options returns the options the index was fitted with.
func (x *TFIDFIndex) Options() TFIDFOptions { return x.opts }

func (x *TFIDFIndex) weigh(counts map[string]int) SparseVector {
	var v SparseVector
	for term := range counts {
		if i, ok := x.vocab[term]; ok {
			v.Indices = append(v.Indices, i)
		}
	}
	slices.Sort(v.Indices)
	v.Values = make([]float64, len(v.Indices))
	var norm float64
	for k, i := range v.Indices {
		w := float64(counts[x.terms[i]]) * x.idf[i]
		v.Values[k] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for k := range v.Values {
			v.Values[k] /= norm
		}
	}
	return v
}

// TFIDFSnapshot is the exported form of an index, used for persistence.
type TFIDFSnapshot struct {
	Options   TFIDFOptions            `json:"options"`
	Documents int                     `json:"documents"`
	Terms     []string                `json:"terms"`
	IDF       []float64               `json:"idf"`
	Rows      map[string]SparseVector `json:"rows"`
}

// Snapshot exports the index. The returned value shares no memory with x.
func (x *TFIDFIndex) Snapshot() TFIDFSnapshot {
	rows := make(map[string]SparseVector, len(x.rows))
	for href, v := range x.rows {
		rows[href] = SparseVector{
			Indices: slices.Clone(v.Indices),
			Values:  slices.Clone(v.Values),
		}
	}
	return TFIDFSnapshot{
		Options:   x.opts,
		Documents: x.docs,
		Terms:     slices.Clone(x.terms),
		IDF:       slices.Clone(x.idf),
		Rows:      rows,
	}
}

// RestoreTFIDF rebuilds an index from a snapshot. The normalizer must match
// the one used at fit time for query vectors to line up.
func RestoreTFIDF(s TFIDFSnapshot, normalizer Normalizer) (*TFIDFIndex, error) {
	if len(s.Terms) == 0 {
		return nil, fmt.Errorf("restore tfidf: %w", domain.ErrIndexNotFound)
	}
	if len(s.Terms) != len(s.IDF) {
		return nil, fmt.Errorf("restore tfidf: %d terms but %d idf values: %w",
			len(s.Terms), len(s.IDF), domain.ErrInvalidInput)
	}
	x := newTFIDFIndex(s.Options.withDefaults(), normalizer, s.Documents, slices.Clone(s.Terms), slices.Clone(s.IDF))
	for href, v := range s.Rows {
		if len(v.Indices) != len(v.Values) {
			return nil, fmt.Errorf("restore tfidf: row %q is malformed: %w", href, domain.ErrInvalidInput)
		}
		for _, i := range v.Indices {
			if i < 0 || i >= len(x.terms) {
				return nil, fmt.Errorf("restore tfidf: row %q references term %d: %w", href, i, domain.ErrInvalidInput)
			}
		}
		x.rows[href] = SparseVector{Indices: slices.Clone(v.Indices), Values: slices.Clone(v.Values)}
	}
	return x, nil
}

// IndexText builds the normalised text indexed for doc.
func IndexText(doc domain.Document, normalizer Normalizer) string {
	parts := make([]string, 0, 8)
	for range titleRepeats {
		parts = append(parts, doc.Title)
	}
	if seg := hrefWords(doc.Href); seg != "" {
		parts = append(parts, seg)
	}
	parts = append(parts, head(doc.Subjects, maxIndexedSubjects)...)
	parts = append(parts, head(doc.Creators, maxIndexedCreators)...)
	parts = append(parts, head(doc.Coverages, maxIndexedCoverages)...)
	parts = append(parts, head(doc.Dates, maxIndexedDates)...)
	return normalize(normalizer, strings.Join(parts, " "))
}

// hrefWords returns the last path segment of href with - and _ as spaces.
func hrefWords(href string) string {
	if href == "" {
		return ""
	}
	seg := href[strings.LastIndex(href, "/")+1:]
	return strings.NewReplacer("-", " ", "_", " ").Replace(seg)
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, t := range raw {
		if t = strings.Trim(t, "-"); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func ngramCounts(tokens []string, opts TFIDFOptions) map[string]int {
	counts := make(map[string]int)
	for n := opts.MinN; n <= opts.MaxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			counts[strings.Join(tokens[i:i+n], " ")]++
		}
	}
	return counts
}
