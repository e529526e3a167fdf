// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - CorpusStore: Documents, embeddings and the fitted TF-IDF index
//   - SessionStore: Short-term conversation memory
//   - ResponseCatalog: Canned replies for conversational turns
//   - ConfigStore: Application configuration
//   - TablesStore: Swappable normalisation and intent tables
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, semantic ranking is disabled.
//   - LLMService: Text generation. Without it, replies use a templated listing.
//   - PromptStore: Prompt templates. Without it, the built-in answer prompt is used.
//   - Cache: Persistent second tier for AI responses.
//
// # Import Rules
//
//   - Can Import: domain and the core ranking package
//   - Cannot Import: Any adapter or service package
package driven
