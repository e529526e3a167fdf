package services

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/core/ports/driven"
	"github.com/custodia-labs/archivo/internal/core/ports/driving"
	"github.com/custodia-labs/archivo/internal/logger"
	"github.com/custodia-labs/archivo/internal/ranking"
	"github.com/custodia-labs/archivo/internal/textproc"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// engine is everything derived from the swappable tables.
// It is rebuilt on reload and published as a whole.
type engine struct {
	normalizer *textproc.Normalizer
	expander   *textproc.SynonymExpander
	extractor  textproc.Extractor
	outOfScope map[string]struct{}
	hybrid     *ranking.Hybrid
}

// SearchService ranks the loaded corpus.
type SearchService struct {
	corpus   *driving.Corpus
	settings domain.AppSettings
	embed    ranking.EmbedFunc
	metrics  metricsSink

	engine atomic.Pointer[engine]
}

// NewSearchService creates a search service over a loaded corpus.
// embed is optional; without it semantic ranking is left out.
func NewSearchService(
	corpus *driving.Corpus,
	tables domain.Tables,
	settings domain.AppSettings,
	embed ranking.EmbedFunc,
) *SearchService {
	if corpus == nil {
		corpus = &driving.Corpus{}
	}
	s := &SearchService{
		corpus:   corpus,
		settings: settings,
		embed:    embed,
	}
	s.engine.Store(s.build(tables))
	return s
}

// SetMetrics sets the collector for search events.
func (s *SearchService) SetMetrics(m driven.Metrics) {
	s.metrics = metricsSink{m: m}
}

// Analyze normalises the query, extracts its entities and expands it with synonyms.
func (s *SearchService) Analyze(query string) domain.Query {
	e := s.engine.Load()
	return domain.Query{
		Raw:        query,
		Normalized: e.normalizer.Normalize(query),
		Entities:   e.extractor.Extract(query),
		Expansions: e.expander.Expand(query),
	}
}

// Extract implements textproc.Extractor with the current tables.
func (s *SearchService) Extract(text string) domain.Entities {
	return s.engine.Load().extractor.Extract(text)
}

// Search ranks the corpus for the query.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]domain.ScoredDocument, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.ScoredDocument{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = s.settings.Ranking.TopK
	}

	start := time.Now()
	results := s.engine.Load().hybrid.Search(ctx, query, s.corpus.Documents, limit)
	elapsed := time.Since(start)

	logger.Debug("Found %d documents in %s", len(results), elapsed)
	s.metrics.search(len(results), elapsed)

	if results == nil {
		results = []domain.ScoredDocument{}
	}
	return results, nil
}

// IsOutOfScope reports whether the query contains an administrative keyword.
// Words are compared after folding and stemming, so "Matrículas" matches
// "matricula".
func (s *SearchService) IsOutOfScope(query string) bool {
	keywords := s.engine.Load().outOfScope
	for _, w := range textproc.LetterWords(query, 1) {
		if _, ok := keywords[textproc.Stem(w)]; ok {
			return true
		}
	}
	return false
}

// Status reports what the ranking engine has loaded.
func (s *SearchService) Status() domain.SearchStatus {
	e := s.engine.Load()
	weighted := e.hybrid.Strategies()
	names := make([]string, 0, len(weighted))
	semantic := false
	for _, w := range weighted {
		names = append(names, w.Strategy.Name())
		if w.Strategy.Name() == ranking.NameSemantic {
			semantic = true
		}
	}
	return domain.SearchStatus{
		Documents:  len(s.corpus.Documents),
		Embeddings: len(s.corpus.Embeddings),
		Index:      s.corpus.Index != nil,
		Semantic:   semantic,
		Strategies: names,
	}
}

// ReloadTables rebuilds the normalizer, synonym expander, extractor and
// strategy composition from tables and publishes them atomically.
// In-flight searches finish with the previous tables.
func (s *SearchService) ReloadTables(tables domain.Tables) error {
	s.engine.Store(s.build(tables))
	logger.Info("Search tables reloaded")
	return nil
}

func (s *SearchService) build(tables domain.Tables) *engine {
	tables = textproc.WithDefaults(tables)
	e := &engine{
		normalizer: textproc.NewNormalizer(tables.Abbreviations),
		expander:   textproc.NewSynonymExpander(tables.Synonyms),
		extractor: textproc.NewDefaultExtractor(tables, textproc.EditRatio,
			s.settings.Conversation.EntityFuzzyThreshold),
		outOfScope: make(map[string]struct{}, len(tables.OutOfScope)),
	}
	for _, kw := range tables.OutOfScope {
		for _, w := range textproc.LetterWords(kw, 1) {
			e.outOfScope[textproc.Stem(w)] = struct{}{}
		}
	}
	e.hybrid = ranking.NewDefaultHybrid(ranking.Deps{
		Normalizer: e.normalizer,
		Expander:   e.expander,
		Index:      s.corpus.Index,
		Embed:      s.embed,
		Embeddings: s.corpus.Embeddings,
		Settings:   s.settings.Ranking,
	})
	return e
}
