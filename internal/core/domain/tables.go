package domain

// The types below describe the swappable data tables that drive the
// normalizer, extractors, synonym expander and classifiers. They are plain
// data; the packages that use them compile patterns on load.

// AbbreviationEntry expands every key to Expansion during normalisation.
type AbbreviationEntry struct {
	Keys      []string `toml:"keys"`
	Expansion string   `toml:"expansion"`
}

// SynonymEntry lists alternate phrasings for a domain term.
type SynonymEntry struct {
	Term     string   `toml:"term"`
	Synonyms []string `toml:"synonyms"`
}

// PeriodEntry maps a historical period phrase to a year range.
type PeriodEntry struct {
	Phrase string `toml:"phrase"`
	Start  int    `toml:"start"`
	End    int    `toml:"end"`
}

// DocTypeEntry maps a document category to the keywords that signal it.
type DocTypeEntry struct {
	Category string   `toml:"category"`
	Keywords []string `toml:"keywords"`
}

// PatternGroup is an ordered list of regular expressions tagged with a name.
type PatternGroup struct {
	Name     string   `toml:"name"`
	Patterns []string `toml:"patterns"`
}

// IntentTables holds the classifier and follow-up detector patterns.
type IntentTables struct {
	// Conversation groups in precedence order; names are ConversationType values.
	Conversation []PatternGroup `toml:"conversation"`

	// CasualWords are short acknowledgements classified as smalltalk.
	CasualWords []string `toml:"casual_words"`

	// Unsatisfied and Satisfied drive follow-up intent detection.
	Unsatisfied []string `toml:"unsatisfied"`
	Satisfied   []string `toml:"satisfied"`

	// SearchSignals mark a follow-up as an explicit new search.
	SearchSignals []string `toml:"search_signals"`

	// Greetings are stripped from the start of follow-up messages.
	Greetings []string `toml:"greetings"`
}

// Tables is the complete set of swappable data.
// Empty sections fall back to the built-in defaults.
type Tables struct {
	Abbreviations []AbbreviationEntry `toml:"abbreviations"`
	Synonyms      []SynonymEntry      `toml:"synonyms"`
	Periods       []PeriodEntry       `toml:"periods"`
	DocTypes      []DocTypeEntry      `toml:"doc_types"`
	CommonTopics  []string            `toml:"common_topics"`
	OutOfScope    []string            `toml:"out_of_scope"`
	Intent        IntentTables        `toml:"intent"`
}
