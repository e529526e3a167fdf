package domain

import "time"

// ImportResult summarises one corpus import.
type ImportResult struct {
	// Records is the number of records read from the file.
	Records int `json:"records"`

	// Imported is the number of documents stored.
	Imported int `json:"imported"`

	// Duplicates is the number of records dropped because their href was already seen.
	Duplicates int `json:"duplicates"`

	// Invalid is the number of records that could not be normalised.
	Invalid int `json:"invalid"`

	Duration time.Duration `json:"duration"`
}

// IndexResult summarises one TF-IDF fit.
type IndexResult struct {
	Documents int           `json:"documents"`
	Terms     int           `json:"terms"`
	Duration  time.Duration `json:"duration"`
}

// EmbedResult summarises one embedding run.
type EmbedResult struct {
	// Model is the embedding model used.
	Model string `json:"model"`

	// Embedded is the number of documents that received a vector.
	Embedded int `json:"embedded"`

	// Skipped is the number of documents that already had a vector.
	Skipped int `json:"skipped"`

	// Failed is the number of documents whose batch failed.
	Failed int `json:"failed"`

	Duration time.Duration `json:"duration"`
}

// SearchStatus reports what the ranking engine is serving from.
type SearchStatus struct {
	Documents  int      `json:"documents_loaded"`
	Embeddings int      `json:"embeddings_loaded"`
	Index      bool     `json:"index_loaded"`
	Semantic   bool     `json:"semantic_available"`
	Strategies []string `json:"strategies"`
}
