// Package textproc turns raw user text into the canonical forms the ranking
// engine works with.
//
// It provides:
//
//   - Normalizer: lowercasing, diacritic stripping, plural stemming and
//     abbreviation expansion
//   - SynonymExpander: alternate phrasings of a query
//   - Extractor implementations: years, date ranges, document types and topics,
//     with exact, fuzzy and period-aware variants
//   - Similarity: the pluggable fuzzy string comparison used by the fuzzy
//     variants
//
// Every behaviour is driven by data tables (see DefaultTables) so that a
// deployment can replace them without touching this package.
package textproc
