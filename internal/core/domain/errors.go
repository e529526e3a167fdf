package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfigNotFound indicates a requested configuration entry or
	// prompt template does not exist.
	ErrConfigNotFound = errors.New("config not found")

	// ErrEmptyMessage indicates a chat message with no text.
	ErrEmptyMessage = errors.New("empty message")

	// ErrEmptyQuery indicates a search query with no text.
	ErrEmptyQuery = errors.New("empty query")

	// ErrSessionNotFound indicates an unknown or expired session id.
	ErrSessionNotFound = errors.New("session not found")

	// Corpus Errors.

	// ErrCorpusEmpty indicates no documents have been imported.
	ErrCorpusEmpty = errors.New("corpus is empty")

	// ErrIndexNotFound indicates no TF-IDF index has been built.
	// Ranking still works; the TF-IDF strategy is left out.
	ErrIndexNotFound = errors.New("search index not found")

	// ErrInvalidRecord indicates an archive record could not be normalised.
	ErrInvalidRecord = errors.New("invalid archive record")

	// ErrInvalidTables indicates a data-table file could not be parsed or compiled.
	ErrInvalidTables = errors.New("invalid tables")

	// AI Capability Errors.

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Replies fall back to a templated listing.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Semantic ranking is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrCircuitOpen indicates an AI provider failed repeatedly and calls are
	// being short-circuited until it recovers.
	ErrCircuitOpen = errors.New("circuit open")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
