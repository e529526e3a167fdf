package textproc

import (
	"strings"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

// SynonymExpander generates alternate phrasings of a query.
type SynonymExpander struct {
	table []domain.SynonymEntry
}

// NewSynonymExpander creates an expander over an ordered synonym table.
func NewSynonymExpander(table []domain.SynonymEntry) *SynonymExpander {
	entries := make([]domain.SynonymEntry, 0, len(table))
	for _, e := range table {
		term := strings.ToLower(strings.TrimSpace(e.Term))
		if term == "" {
			continue
		}
		entries = append(entries, domain.SynonymEntry{Term: term, Synonyms: e.Synonyms})
	}
	return &SynonymExpander{table: entries}
}

// Expand returns query followed by one variant per (term, synonym) pair for
// every table term found in the lowercased query. Duplicates are dropped.
// The first element is always query, unchanged.
func (e *SynonymExpander) Expand(query string) []string {
	expansions := []string{query}
	if e == nil {
		return expansions
	}
	seen := map[string]struct{}{query: {}}
	lower := strings.ToLower(query)

	for _, entry := range e.table {
		if !strings.Contains(lower, entry.Term) {
			continue
		}
		for _, syn := range entry.Synonyms {
			variant := strings.ReplaceAll(lower, entry.Term, strings.ToLower(syn))
			if _, ok := seen[variant]; ok {
				continue
			}
			seen[variant] = struct{}{}
			expansions = append(expansions, variant)
		}
	}
	return expansions
}

// Len returns the number of table entries.
func (e *SynonymExpander) Len() int {
	if e == nil {
		return 0
	}
	return len(e.table)
}
