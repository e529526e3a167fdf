package domain

import (
	"slices"
	"strconv"
	"strings"
)

// DateRange is an inclusive range of years.
type DateRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether year lies inside the range.
func (r DateRange) Contains(year int) bool {
	return year >= r.Start && year <= r.End
}

// FuzzyMatch records a typo-tolerant match made by an entity extractor.
type FuzzyMatch struct {
	// Detected is the word found in the text.
	Detected string `json:"detected"`

	// Matched is the keyword or topic it was matched to.
	Matched string `json:"matched"`

	// Score is the similarity ratio (0-100).
	Score int `json:"score"`
}

// Entities holds what an extractor pulled out of a piece of text.
// Set-like fields hold no duplicates; Years is ascending, the others keep
// the order in which they were found.
type Entities struct {
	Years        []int                   `json:"years,omitempty"`
	DateRange    *DateRange              `json:"date_range,omitempty"`
	PeriodName   string                  `json:"period_name,omitempty"`
	DocTypes     []string                `json:"doc_types,omitempty"`
	Topics       []string                `json:"topics,omitempty"`
	FuzzyMatches map[string][]FuzzyMatch `json:"fuzzy_matches,omitempty"`
	HasNewInfo   bool                    `json:"has_new_info"`
}

// EarliestYear returns the smallest extracted year.
func (e Entities) EarliestYear() (int, bool) {
	if len(e.Years) == 0 {
		return 0, false
	}
	return slices.Min(e.Years), true
}

// RefinedQuery joins topics, the earliest year and doc types into a search
// string. It returns fallback when nothing was extracted.
func (e Entities) RefinedQuery(fallback string) string {
	var parts []string
	if len(e.Topics) > 0 {
		parts = append(parts, strings.Join(e.Topics, " "))
	}
	if year, ok := e.EarliestYear(); ok {
		parts = append(parts, strconv.Itoa(year))
	}
	if len(e.DocTypes) > 0 {
		parts = append(parts, strings.Join(e.DocTypes, " "))
	}
	if len(parts) == 0 {
		return fallback
	}
	return strings.Join(parts, " ")
}

// Query is a raw user query with everything derived from it.
type Query struct {
	// Raw is the text as typed.
	Raw string `json:"raw"`

	// Normalized is the canonical form produced by the normalizer.
	Normalized string `json:"normalized"`

	// Entities are the extracted years, ranges, doc types and topics.
	Entities Entities `json:"entities"`

	// Expansions are synonym variants. The first element is always Raw.
	Expansions []string `json:"expansions"`
}
