package mcp

import (
	"github.com/custodia-labs/archivo/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search ranks documents and analyses queries.
	Search driving.SearchService

	// Chat runs conversational turns. Optional: without it the chat tool
	// reports ErrChatUnavailable.
	Chat driving.ChatService

	// Corpus reports corpus statistics. Optional.
	Corpus driving.CorpusService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
