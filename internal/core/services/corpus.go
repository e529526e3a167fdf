package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/core/ports/driven"
	"github.com/custodia-labs/archivo/internal/core/ports/driving"
	"github.com/custodia-labs/archivo/internal/logger"
	"github.com/custodia-labs/archivo/internal/normalisers/dublincore"
	"github.com/custodia-labs/archivo/internal/ranking"
	"github.com/custodia-labs/archivo/internal/textproc"
)

// Ensure CorpusService implements the interface.
var _ driving.CorpusService = (*CorpusService)(nil)

// CorpusService imports archive records and derives the TF-IDF index and
// document embeddings from them.
type CorpusService struct {
	store      driven.CorpusStore
	embedder   driven.EmbeddingService
	normaliser *dublincore.Normaliser
	normalizer ranking.Normalizer
	indexOpts  ranking.TFIDFOptions
	settings   domain.ImportSettings
}

// NewCorpusService creates a corpus service.
// The embedder is optional (can be nil); without it Embed fails and
// Load returns no embeddings.
func NewCorpusService(
	store driven.CorpusStore,
	embedder driven.EmbeddingService,
	tables domain.Tables,
	settings domain.ImportSettings,
) *CorpusService {
	tables = textproc.WithDefaults(tables)
	return &CorpusService{
		store:      store,
		embedder:   embedder,
		normaliser: dublincore.New(),
		normalizer: textproc.NewNormalizer(tables.Abbreviations),
		indexOpts:  ranking.DefaultTFIDFOptions(),
		settings:   settings,
	}
}

// SetIndexOptions overrides the TF-IDF fit options.
func (s *CorpusService) SetIndexOptions(opts ranking.TFIDFOptions) {
	s.indexOpts = opts
}

// Import reads a JSON array of Dublin Core records and stores the documents.
// Records that fail to normalise are counted and skipped; the first record
// with a given href wins.
func (s *CorpusService) Import(ctx context.Context, path string) (*domain.ImportResult, error) {
	logger.Section("Corpus Import")
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open records: %w", err)
	}
	defer f.Close()

	records, err := dublincore.ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	result := &domain.ImportResult{Records: len(records)}
	docs := make([]domain.Document, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		doc, err := s.normaliser.Normalise(rec)
		if err != nil {
			result.Invalid++
			logger.Debug("Skipping record %d: %v", i, err)
			continue
		}
		if _, dup := seen[doc.Href]; dup {
			result.Duplicates++
			logger.Debug("Skipping duplicate href %s", doc.Href)
			continue
		}
		seen[doc.Href] = struct{}{}
		docs = append(docs, doc)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.store.SaveDocuments(ctx, docs); err != nil {
		return nil, fmt.Errorf("save documents: %w", err)
	}

	result.Imported = len(docs)
	result.Duration = time.Since(start)
	logger.Info("Imported %d documents (%d duplicates, %d invalid) in %s",
		result.Imported, result.Duplicates, result.Invalid, result.Duration.Round(time.Millisecond))
	return result, nil
}

// BuildIndex fits TF-IDF over the stored documents and persists the index.
func (s *CorpusService) BuildIndex(ctx context.Context) (*domain.IndexResult, error) {
	logger.Section("Index Build")
	start := time.Now()

	docs, err := s.store.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrCorpusEmpty
	}

	index, err := ranking.FitTFIDF(docs, s.normalizer, s.indexOpts)
	if err != nil {
		return nil, fmt.Errorf("fit index: %w", err)
	}
	if err := s.store.SaveIndex(ctx, index.Snapshot()); err != nil {
		return nil, fmt.Errorf("save index: %w", err)
	}

	result := &domain.IndexResult{
		Documents: len(docs),
		Terms:     index.Terms(),
		Duration:  time.Since(start),
	}
	logger.Info("Indexed %d documents, %d terms in %s",
		result.Documents, result.Terms, result.Duration.Round(time.Millisecond))
	return result, nil
}

// EmbedText is the text embedded for a document.
func EmbedText(doc domain.Document) string {
	return doc.Title + " " + doc.Href
}

// Embed computes vectors for documents that lack one. Batches run on a
// worker pool; a failed batch is logged and counted, never fatal. Vectors
// produced by a different model than the configured one are recomputed.
func (s *CorpusService) Embed(ctx context.Context) (*domain.EmbedResult, error) {
	logger.Section("Document Embedding")
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	start := time.Now()
	model := s.embedder.ModelName()

	docs, err := s.store.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrCorpusEmpty
	}

	existing, err := s.store.Embeddings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load embeddings: %w", err)
	}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("corpus stats: %w", err)
	}
	if stats.EmbeddingModel != "" && stats.EmbeddingModel != model {
		logger.Info("Embedding model changed from %s to %s, recomputing all vectors", stats.EmbeddingModel, model)
		existing = nil
	}

	result := &domain.EmbedResult{Model: model}
	pending := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		if _, ok := existing[doc.Href]; ok {
			result.Skipped++
			continue
		}
		pending = append(pending, doc)
	}
	if len(pending) == 0 {
		result.Duration = time.Since(start)
		logger.Info("All %d documents already embedded", result.Skipped)
		return result, nil
	}

	vectors, failed, err := s.embedPending(ctx, pending)
	if err != nil {
		return nil, err
	}
	if len(vectors) > 0 {
		if err := s.store.SaveEmbeddings(ctx, model, vectors); err != nil {
			return nil, fmt.Errorf("save embeddings: %w", err)
		}
	}

	result.Embedded = len(vectors)
	result.Failed = failed
	result.Duration = time.Since(start)
	logger.Info("Embedded %d documents with %s (%d skipped, %d failed) in %s",
		result.Embedded, model, result.Skipped, result.Failed, result.Duration.Round(time.Millisecond))
	return result, nil
}

func (s *CorpusService) embedPending(ctx context.Context, docs []domain.Document) (domain.Embeddings, int, error) {
	workers := max(s.settings.Workers, 1)
	batchSize := max(s.settings.BatchSize, 1)

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, 0, fmt.Errorf("create embedding pool: %w", err)
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		vectors = make(domain.Embeddings, len(docs))
		failed  int
	)
	for lo := 0; lo < len(docs); lo += batchSize {
		batch := docs[lo:min(lo+batchSize, len(docs))]
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			got, err := s.embedBatch(ctx, batch)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed += len(batch)
				logger.Warn("embed batch of %d documents: %v", len(batch), err)
				return
			}
			for href, vec := range got {
				vectors[href] = vec
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			failed += len(batch)
			mu.Unlock()
			logger.Warn("submit embed batch: %v", submitErr)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, 0, err
	}
	return vectors, failed, nil
}

func (s *CorpusService) embedBatch(ctx context.Context, batch []domain.Document) (domain.Embeddings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	texts := make([]string, len(batch))
	for i, doc := range batch {
		texts[i] = EmbedText(doc)
	}
	vecs, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(batch) {
		return nil, fmt.Errorf("got %d vectors for %d texts", len(vecs), len(batch))
	}
	out := make(domain.Embeddings, len(batch))
	for i, doc := range batch {
		if len(vecs[i]) > 0 {
			out[doc.Href] = vecs[i]
		}
	}
	return out, nil
}

// Load returns the stored corpus. A missing index or missing embeddings
// are not errors: the corresponding strategy is simply left out.
func (s *CorpusService) Load(ctx context.Context) (*driving.Corpus, error) {
	docs, err := s.store.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	corpus := &driving.Corpus{Documents: docs}

	snapshot, err := s.store.LoadIndex(ctx)
	switch {
	case errors.Is(err, domain.ErrIndexNotFound):
		logger.Debug("No TF-IDF index stored")
	case err != nil:
		logger.Warn("load index: %v", err)
	default:
		index, err := ranking.RestoreTFIDF(*snapshot, s.normalizer)
		if err != nil {
			logger.Warn("restore index: %v", err)
		} else {
			corpus.Index = index
		}
	}

	embeddings, err := s.store.Embeddings(ctx)
	if err != nil {
		logger.Warn("load embeddings: %v", err)
	} else {
		corpus.Embeddings = embeddings
	}

	logger.Debug("Loaded %d documents, index=%t, %d embeddings",
		len(corpus.Documents), corpus.Index != nil, len(corpus.Embeddings))
	return corpus, nil
}

// Stats summarises the stored corpus.
func (s *CorpusService) Stats(ctx context.Context) (domain.CorpusStats, error) {
	return s.store.Stats(ctx)
}
