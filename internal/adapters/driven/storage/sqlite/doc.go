// Package sqlite provides the SQLite-backed corpus store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. A single database holds:
//
//   - documents: the imported archive records, in import order
//   - embeddings: one vector per document plus the model that produced them
//   - index_terms and index_rows: the fitted TF-IDF index
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.archivo/data/corpus.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
