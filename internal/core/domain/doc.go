// Package domain defines the core business entities for archivo.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An archival record described with Dublin Core fields
//   - ScoredDocument: A document ranked by one or more search strategies
//   - Query and Entities: A user query and what was extracted from it
//   - Session: Short-term memory of one conversation
//   - ChatReply: The outcome of one conversational turn
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
