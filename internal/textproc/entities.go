package textproc

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

// Extractor pulls structured entities out of free text.
type Extractor interface {
	Extract(text string) domain.Entities
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(text string) domain.Entities

// Extract implements Extractor.
func (f ExtractorFunc) Extract(text string) domain.Entities { return f(text) }

// NewDefaultExtractor combines exact doc-type matching with date-range
// resolution and typo-tolerant matching of doc types and common topics.
func NewDefaultExtractor(t domain.Tables, sim Similarity, threshold int) Extractor {
	return Merge(
		NewDateRangeExtractor(NewExactExtractor(t.DocTypes), t.Periods),
		NewFuzzyExtractor(t.DocTypes, t.CommonTopics, sim, threshold),
	)
}

var (
	yearPattern  = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	rangePattern = regexp.MustCompile(`entre\s+(\d{4})\s+y\s+(\d{4})`)

	topicPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:sobre|acerca de|de)\s+([a-záéíóúñü\s]+?)(?:\.|,|$)`),
		regexp.MustCompile(`(?:principalmente|especialmente)\s+([a-záéíóúñü\s]+?)(?:\.|,|$)`),
	}

	decadePatterns = []*regexp.Regexp{
		regexp.MustCompile(`decada\s+(?:de\s+)?(?:los\s+)?(\d{2})\b`),
		regexp.MustCompile(`anos\s+(\d{2})\b`),
	}
)

const minTopicLen = 3

type docType struct {
	category string
	keywords []string // folded
}

func compileDocTypes(table []domain.DocTypeEntry) []docType {
	out := make([]docType, 0, len(table))
	for _, e := range table {
		dt := docType{category: e.Category}
		for _, kw := range e.Keywords {
			if kw = Fold(strings.TrimSpace(kw)); kw != "" {
				dt.keywords = append(dt.keywords, kw)
			}
		}
		out = append(out, dt)
	}
	return out
}

// ExactExtractor finds doc types by literal keyword containment.
type ExactExtractor struct {
	docTypes []docType
}

// NewExactExtractor creates an extractor over a doc-type table.
func NewExactExtractor(docTypes []domain.DocTypeEntry) *ExactExtractor {
	return &ExactExtractor{docTypes: compileDocTypes(docTypes)}
}

// Extract implements Extractor.
func (x *ExactExtractor) Extract(text string) domain.Entities {
	lower := strings.ToLower(text)
	folded := StripDiacritics(lower)

	var ents domain.Entities
	ents.Years = extractYears(lower)
	for _, dt := range x.docTypes {
		for _, kw := range dt.keywords {
			if strings.Contains(folded, kw) {
				ents.DocTypes = appendUnique(ents.DocTypes, dt.category)
				break
			}
		}
	}
	ents.Topics = extractTopics(lower)
	ents.HasNewInfo = hasInfo(ents)
	return ents
}

// FuzzyExtractor tolerates typos by comparing each word against doc-type
// keywords and a list of common topics.
type FuzzyExtractor struct {
	docTypes  []docType
	topics    []string
	sim       Similarity
	threshold int
}

// NewFuzzyExtractor creates a typo-tolerant extractor. A nil sim uses
// EditRatio; a match needs sim >= threshold.
func NewFuzzyExtractor(docTypes []domain.DocTypeEntry, topics []string, sim Similarity, threshold int) *FuzzyExtractor {
	if sim == nil {
		sim = EditRatio
	}
	folded := make([]string, 0, len(topics))
	for _, t := range topics {
		if t = Fold(strings.TrimSpace(t)); t != "" {
			folded = append(folded, t)
		}
	}
	return &FuzzyExtractor{
		docTypes:  compileDocTypes(docTypes),
		topics:    folded,
		sim:       sim,
		threshold: threshold,
	}
}

// Extract implements Extractor.
func (x *FuzzyExtractor) Extract(text string) domain.Entities {
	lower := strings.ToLower(text)
	words := LetterWords(lower, 3)

	var ents domain.Entities
	ents.Years = extractYears(lower)

	for _, dt := range x.docTypes {
		if m, ok := x.firstMatch(words, dt.keywords); ok {
			ents.DocTypes = appendUnique(ents.DocTypes, dt.category)
			ents.FuzzyMatches = recordMatch(ents.FuzzyMatches, dt.category, m)
		}
	}

	ents.Topics = extractTopics(lower)
	for _, w := range words {
		for _, topic := range x.topics {
			score := x.sim(w, topic)
			if score < x.threshold {
				continue
			}
			ents.Topics = appendUnique(ents.Topics, topic)
			if w != topic {
				ents.FuzzyMatches = recordMatch(ents.FuzzyMatches, topic,
					domain.FuzzyMatch{Detected: w, Matched: topic, Score: score})
			}
			break
		}
	}

	ents.HasNewInfo = hasInfo(ents)
	return ents
}

// firstMatch walks keywords in order and returns the first one that some
// word matches.
func (x *FuzzyExtractor) firstMatch(words, keywords []string) (domain.FuzzyMatch, bool) {
	for _, kw := range keywords {
		for _, w := range words {
			if score := x.sim(w, kw); score >= x.threshold {
				return domain.FuzzyMatch{Detected: w, Matched: kw, Score: score}, true
			}
		}
	}
	return domain.FuzzyMatch{}, false
}

// DateRangeExtractor resolves period names, decades and explicit
// "entre X y Y" ranges on top of another extractor.
type DateRangeExtractor struct {
	base    Extractor
	periods []domain.PeriodEntry
}

// NewDateRangeExtractor wraps base (which may be nil) with date resolution.
// Periods are matched in table order; the first hit wins.
func NewDateRangeExtractor(base Extractor, periods []domain.PeriodEntry) *DateRangeExtractor {
	folded := make([]domain.PeriodEntry, 0, len(periods))
	for _, p := range periods {
		if p.Phrase = Fold(strings.TrimSpace(p.Phrase)); p.Phrase != "" && p.End >= p.Start {
			folded = append(folded, p)
		}
	}
	return &DateRangeExtractor{base: base, periods: folded}
}

// Extract implements Extractor.
func (x *DateRangeExtractor) Extract(text string) domain.Entities {
	var ents domain.Entities
	if x.base != nil {
		ents = x.base.Extract(text)
	}
	folded := Fold(text)
	if ents.Years == nil {
		ents.Years = extractYears(folded)
	}

	var (
		rng    *domain.DateRange
		period string
	)
	for _, p := range x.periods {
		if strings.Contains(folded, p.Phrase) {
			rng = &domain.DateRange{Start: p.Start, End: p.End}
			period = p.Phrase
			break
		}
	}
	for _, re := range decadePatterns {
		if m := re.FindStringSubmatch(folded); m != nil {
			start := 1900 + atoi(m[1])
			rng = &domain.DateRange{Start: start, End: start + 9}
			period = ""
			break
		}
	}

	explicit := false
	if m := rangePattern.FindStringSubmatch(folded); m != nil {
		start, end := atoi(m[1]), atoi(m[2])
		if end < start {
			start, end = end, start
		}
		rng = &domain.DateRange{Start: start, End: end}
		explicit = true
	}

	if rng != nil {
		ents.DateRange = rng
		ents.PeriodName = period
		if explicit {
			ents.PeriodName = ""
			ents.Years = yearsIn(*rng)
		} else if len(ents.Years) == 0 {
			ents.Years = yearsIn(*rng)
		}
	}

	ents.HasNewInfo = hasInfo(ents) || ents.DateRange != nil
	return ents
}

// Merge combines several extractors. Sets are unioned, the first date range
// wins and HasNewInfo is true if any extractor found something.
func Merge(extractors ...Extractor) Extractor {
	return mergedExtractor(extractors)
}

type mergedExtractor []Extractor

func (m mergedExtractor) Extract(text string) domain.Entities {
	var out domain.Entities
	for _, x := range m {
		if x == nil {
			continue
		}
		e := x.Extract(text)
		for _, y := range e.Years {
			out.Years = appendUnique(out.Years, y)
		}
		for _, d := range e.DocTypes {
			out.DocTypes = appendUnique(out.DocTypes, d)
		}
		for _, t := range e.Topics {
			out.Topics = appendUnique(out.Topics, t)
		}
		for k, matches := range e.FuzzyMatches {
			for _, fm := range matches {
				out.FuzzyMatches = recordMatch(out.FuzzyMatches, k, fm)
			}
		}
		if out.DateRange == nil && e.DateRange != nil {
			r := *e.DateRange
			out.DateRange = &r
			out.PeriodName = e.PeriodName
		}
		out.HasNewInfo = out.HasNewInfo || e.HasNewInfo
	}
	slices.Sort(out.Years)
	return out
}

func extractYears(text string) []int {
	var years []int
	for _, m := range yearPattern.FindAllStringSubmatch(text, -1) {
		years = appendUnique(years, atoi(m[1]))
	}
	slices.Sort(years)
	return years
}

func extractTopics(lower string) []string {
	var topics []string
	for _, re := range topicPatterns {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			topic := strings.Join(strings.Fields(m[1]), " ")
			if utf8.RuneCountInString(topic) >= minTopicLen {
				topics = appendUnique(topics, topic)
			}
		}
	}
	return topics
}

func yearsIn(r domain.DateRange) []int {
	years := make([]int, 0, r.End-r.Start+1)
	for y := r.Start; y <= r.End; y++ {
		years = append(years, y)
	}
	return years
}

func hasInfo(e domain.Entities) bool {
	return len(e.Years) > 0 || len(e.DocTypes) > 0 || len(e.Topics) > 0
}

func recordMatch(m map[string][]domain.FuzzyMatch, key string, fm domain.FuzzyMatch) map[string][]domain.FuzzyMatch {
	if m == nil {
		m = make(map[string][]domain.FuzzyMatch)
	}
	m[key] = append(m[key], fm)
	return m
}

func appendUnique[T comparable](s []T, v T) []T {
	if slices.Contains(s, v) {
		return s
	}
	return append(s, v)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
