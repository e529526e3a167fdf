package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/archivo/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/core/ports/driven"
	"github.com/custodia-labs/archivo/internal/ranking"
)

// DatabaseFile is the corpus database file name inside the data directory.
const DatabaseFile = "corpus.db"

// Keys of the meta table.
const (
	metaEmbeddingModel = "embedding_model"
	metaIndexOptions   = "index_options"
	metaIndexDocuments = "index_documents"
)

// Ensure Store implements the interface.
var _ driven.CorpusStore = (*Store)(nil)

// Store is a SQLite-backed driven.CorpusStore.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.archivo/data/corpus.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".archivo", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_corpus.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Documents ====================

// SaveDocuments upserts documents by href. A new href is appended after
// the existing documents; an existing one keeps its position, so positions
// may have gaps.
func (s *Store) SaveDocuments(ctx context.Context, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	var next int
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(position), -1) + 1 FROM documents").
		Scan(&next); err != nil {
		return fmt.Errorf("reading next position: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (href, position, title, subjects, creators, coverages, dates)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(href) DO UPDATE SET
			title = excluded.title,
			subjects = excluded.subjects,
			creators = excluded.creators,
			coverages = excluded.coverages,
			dates = excluded.dates,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, doc := range docs {
		fields, err := marshalFields(doc)
		if err != nil {
			return fmt.Errorf("marshalling %s: %w", doc.Href, err)
		}
		if _, err := stmt.ExecContext(ctx, doc.Href, next, doc.Title,
			fields[0], fields[1], fields[2], fields[3]); err != nil {
			return fmt.Errorf("saving document %s: %w", doc.Href, err)
		}
		next++
	}

	return tx.Commit()
}

// Documents returns every stored document in import order.
func (s *Store) Documents(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT href, title, subjects, creators, coverages, dates
		FROM documents ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// ==================== Embeddings ====================

// SaveEmbeddings upserts vectors by href and records the model.
// Empty vectors are skipped.
func (s *Store) SaveEmbeddings(ctx context.Context, model string, embeddings domain.Embeddings) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO embeddings (href, vector) VALUES (?, ?)
		ON CONFLICT(href) DO UPDATE SET vector = excluded.vector
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for href, vec := range embeddings {
		if len(vec) == 0 {
			continue
		}
		if _, err := stmt.ExecContext(ctx, href, float32SliceToBytes(vec)); err != nil {
			return fmt.Errorf("saving embedding %s: %w", href, err)
		}
	}
	if err := setMeta(ctx, tx, metaEmbeddingModel, model); err != nil {
		return err
	}

	return tx.Commit()
}

// Embeddings returns every stored vector.
func (s *Store) Embeddings(ctx context.Context) (domain.Embeddings, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT href, vector FROM embeddings")
	if err != nil {
		return nil, fmt.Errorf("querying embeddings: %w", err)
	}
	defer rows.Close()

	out := make(domain.Embeddings)
	for rows.Next() {
		var href string
		var blob []byte
		if err := rows.Scan(&href, &blob); err != nil {
			return nil, fmt.Errorf("scanning embedding: %w", err)
		}
		if vec := bytesToFloat32Slice(blob); len(vec) > 0 {
			out[href] = vec
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating embeddings: %w", err)
	}
	return out, nil
}

// ==================== TF-IDF Index ====================

// SaveIndex replaces the stored index in one transaction.
func (s *Store) SaveIndex(ctx context.Context, snapshot ranking.TFIDFSnapshot) error {
	if len(snapshot.Terms) != len(snapshot.IDF) {
		return fmt.Errorf("index has %d terms but %d idf weights", len(snapshot.Terms), len(snapshot.IDF))
	}
	opts, err := json.Marshal(snapshot.Options)
	if err != nil {
		return fmt.Errorf("marshalling index options: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	for _, table := range []string{"index_terms", "index_rows"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	terms, err := tx.PrepareContext(ctx, "INSERT INTO index_terms (position, term, idf) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer terms.Close()
	for i, term := range snapshot.Terms {
		if _, err := terms.ExecContext(ctx, i, term, snapshot.IDF[i]); err != nil {
			return fmt.Errorf("saving term %q: %w", term, err)
		}
	}

	rowStmt, err := tx.PrepareContext(ctx, "INSERT INTO index_rows (href, indices, vals) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer rowStmt.Close()
	for href, vec := range snapshot.Rows {
		if len(vec.Indices) != len(vec.Values) {
			return fmt.Errorf("row %s has %d indices but %d values", href, len(vec.Indices), len(vec.Values))
		}
		if _, err := rowStmt.ExecContext(ctx, href,
			intSliceToBytes(vec.Indices), float64SliceToBytes(vec.Values)); err != nil {
			return fmt.Errorf("saving row %s: %w", href, err)
		}
	}

	if err := setMeta(ctx, tx, metaIndexOptions, string(opts)); err != nil {
		return err
	}
	if err := setMeta(ctx, tx, metaIndexDocuments, strconv.Itoa(snapshot.Documents)); err != nil {
		return err
	}

	return tx.Commit()
}

// LoadIndex returns the stored index, or domain.ErrIndexNotFound.
func (s *Store) LoadIndex(ctx context.Context) (*ranking.TFIDFSnapshot, error) {
	optsJSON, ok, err := s.meta(ctx, metaIndexOptions)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrIndexNotFound
	}

	snap := &ranking.TFIDFSnapshot{Rows: make(map[string]ranking.SparseVector)}
	if err := json.Unmarshal([]byte(optsJSON), &snap.Options); err != nil {
		return nil, fmt.Errorf("unmarshalling index options: %w", err)
	}
	docs, _, err := s.meta(ctx, metaIndexDocuments)
	if err != nil {
		return nil, err
	}
	if snap.Documents, err = strconv.Atoi(docs); err != nil {
		return nil, fmt.Errorf("parsing index document count: %w", err)
	}

	termRows, err := s.db.QueryContext(ctx, "SELECT term, idf FROM index_terms ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("querying index terms: %w", err)
	}
	defer termRows.Close()
	for termRows.Next() {
		var term string
		var idf float64
		if err := termRows.Scan(&term, &idf); err != nil {
			return nil, fmt.Errorf("scanning index term: %w", err)
		}
		snap.Terms = append(snap.Terms, term)
		snap.IDF = append(snap.IDF, idf)
	}
	if err := termRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating index terms: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT href, indices, vals FROM index_rows")
	if err != nil {
		return nil, fmt.Errorf("querying index rows: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var href string
		var indices, vals []byte
		if err := rows.Scan(&href, &indices, &vals); err != nil {
			return nil, fmt.Errorf("scanning index row: %w", err)
		}
		snap.Rows[href] = ranking.SparseVector{
			Indices: bytesToIntSlice(indices),
			Values:  bytesToFloat64Slice(vals),
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating index rows: %w", err)
	}

	return snap, nil
}

// Stats summarises the stored corpus.
func (s *Store) Stats(ctx context.Context) (domain.CorpusStats, error) {
	var stats domain.CorpusStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM documents),
			(SELECT COUNT(*) FROM embeddings),
			(SELECT COUNT(*) FROM index_terms)
	`).Scan(&stats.Documents, &stats.Embeddings, &stats.IndexTerms)
	if err != nil {
		return stats, fmt.Errorf("counting corpus: %w", err)
	}
	model, _, err := s.meta(ctx, metaEmbeddingModel)
	if err != nil {
		return stats, err
	}
	stats.EmbeddingModel = model
	return stats, nil
}

// ==================== Helper Functions ====================

func (s *Store) meta(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading meta %s: %w", key, err)
	}
	return value, true, nil
}

func setMeta(ctx context.Context, tx *sql.Tx, key, value string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("writing meta %s: %w", key, err)
	}
	return nil
}

// marshalFields encodes the multi-valued Dublin Core fields as JSON arrays.
func marshalFields(doc domain.Document) ([4]string, error) {
	var out [4]string
	for i, values := range [][]string{doc.Subjects, doc.Creators, doc.Coverages, doc.Dates} {
		if values == nil {
			values = []string{}
		}
		b, err := json.Marshal(values)
		if err != nil {
			return out, err
		}
		out[i] = string(b)
	}
	return out, nil
}

// scanDocument scans one documents row.
func scanDocument(rows *sql.Rows) (domain.Document, error) {
	var doc domain.Document
	var subjects, creators, coverages, dates string
	if err := rows.Scan(&doc.Href, &doc.Title, &subjects, &creators, &coverages, &dates); err != nil {
		return doc, fmt.Errorf("scanning document: %w", err)
	}
	targets := []*[]string{&doc.Subjects, &doc.Creators, &doc.Coverages, &doc.Dates}
	for i, raw := range []string{subjects, creators, coverages, dates} {
		if err := json.Unmarshal([]byte(raw), targets[i]); err != nil {
			return doc, fmt.Errorf("unmarshalling document %s: %w", doc.Href, err)
		}
		if len(*targets[i]) == 0 {
			*targets[i] = nil
		}
	}
	return doc, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// float64SliceToBytes converts a []float64 to a byte slice for storage.
func float64SliceToBytes(floats []float64) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*8)
	for i, f := range floats {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

// bytesToFloat64Slice converts a byte slice back to []float64.
func bytesToFloat64Slice(data []byte) []float64 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float64, len(data)/8)
	for i := range floats {
		floats[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
	}
	return floats
}

// intSliceToBytes stores column indices as uint32.
func intSliceToBytes(ints []int) []byte {
	if len(ints) == 0 {
		return nil
	}
	buf := make([]byte, len(ints)*4)
	for i, v := range ints {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(v)) //nolint:gosec // vocabulary indices are small
	}
	return buf
}

// bytesToIntSlice converts a byte slice back to []int.
func bytesToIntSlice(data []byte) []int {
	if len(data) == 0 {
		return nil
	}
	ints := make([]int, len(data)/4)
	for i := range ints {
		ints[i] = int(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return ints
}
