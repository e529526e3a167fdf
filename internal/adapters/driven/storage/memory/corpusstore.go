package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/core/ports/driven"
	"github.com/custodia-labs/archivo/internal/ranking"
)

// Ensure CorpusStore implements the interface.
var _ driven.CorpusStore = (*CorpusStore)(nil)

// CorpusStore is an in-memory implementation of driven.CorpusStore.
type CorpusStore struct {
	mu         sync.RWMutex
	order      []string
	documents  map[string]domain.Document
	embeddings domain.Embeddings
	model      string
	index      *ranking.TFIDFSnapshot
}

// NewCorpusStore creates an empty in-memory corpus store.
func NewCorpusStore() *CorpusStore {
	return &CorpusStore{
		documents:  make(map[string]domain.Document),
		embeddings: make(domain.Embeddings),
	}
}

// SaveDocuments upserts documents by href. New hrefs are appended in order.
func (s *CorpusStore) SaveDocuments(_ context.Context, docs []domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range docs {
		if _, exists := s.documents[doc.Href]; !exists {
			s.order = append(s.order, doc.Href)
		}
		s.documents[doc.Href] = cloneDocument(doc)
	}
	return nil
}

// Documents returns every document in insertion order.
func (s *CorpusStore) Documents(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0, len(s.order))
	for _, href := range s.order {
		docs = append(docs, cloneDocument(s.documents[href]))
	}
	return docs, nil
}

// SaveEmbeddings upserts vectors and records the model.
func (s *CorpusStore) SaveEmbeddings(_ context.Context, model string, embeddings domain.Embeddings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for href, vec := range embeddings {
		s.embeddings[href] = slices.Clone(vec)
	}
	s.model = model
	return nil
}

// Embeddings returns a copy of every stored vector.
func (s *CorpusStore) Embeddings(_ context.Context) (domain.Embeddings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(domain.Embeddings, len(s.embeddings))
	for href, vec := range s.embeddings {
		out[href] = slices.Clone(vec)
	}
	return out, nil
}

// SaveIndex replaces the stored index.
func (s *CorpusStore) SaveIndex(_ context.Context, snapshot ranking.TFIDFSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = &snapshot
	return nil
}

// LoadIndex returns the stored index or domain.ErrIndexNotFound.
func (s *CorpusStore) LoadIndex(_ context.Context) (*ranking.TFIDFSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index == nil {
		return nil, domain.ErrIndexNotFound
	}
	snapshot := *s.index
	return &snapshot, nil
}

// Stats summarises the store.
func (s *CorpusStore) Stats(_ context.Context) (domain.CorpusStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := domain.CorpusStats{
		Documents:      len(s.documents),
		Embeddings:     len(s.embeddings),
		EmbeddingModel: s.model,
	}
	if s.index != nil {
		stats.IndexTerms = len(s.index.Terms)
	}
	return stats, nil
}

// Close is a no-op.
func (s *CorpusStore) Close() error {
	return nil
}

func cloneDocument(d domain.Document) domain.Document {
	d.Subjects = slices.Clone(d.Subjects)
	d.Creators = slices.Clone(d.Creators)
	d.Coverages = slices.Clone(d.Coverages)
	d.Dates = slices.Clone(d.Dates)
	return d
}
