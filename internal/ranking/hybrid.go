package ranking

import (
	"context"
	"runtime/debug"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/logger"
)

// Fusion defaults.
const (
	DefaultRRFK       = 60
	DefaultOversample = 2
)

// Weighted pairs a strategy with its fusion weight.
type Weighted struct {
	Strategy Strategy
	Weight   float64
}

// Hybrid fuses several strategies with weighted Reciprocal Rank Fusion: a
// document at 1-based rank r in a strategy weighted w gains w/(K+r).
//
// Compose a Hybrid with AddStrategy before sharing it; Search is safe for
// concurrent use, AddStrategy is not.
type Hybrid struct {
	strategies []Weighted
	k          int
	oversample int
}

// HybridOption configures a Hybrid.
type HybridOption func(*Hybrid)

// WithRRFK sets the fusion constant K.
func WithRRFK(k int) HybridOption {
	return func(h *Hybrid) {
		if k > 0 {
			h.k = k
		}
	}
}

// WithOversample sets how many results, as a multiple of topK, each
// sub-strategy contributes.
func WithOversample(n int) HybridOption {
	return func(h *Hybrid) {
		if n > 0 {
			h.oversample = n
		}
	}
}

// NewHybrid creates an empty fusion strategy.
func NewHybrid(opts ...HybridOption) *Hybrid {
	h := &Hybrid{k: DefaultRRFK, oversample: DefaultOversample}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// AddStrategy appends s with weight w. Strategies with w <= 0 are kept but
// never run.
func (h *Hybrid) AddStrategy(s Strategy, w float64) *Hybrid {
	if s != nil {
		h.strategies = append(h.strategies, Weighted{Strategy: s, Weight: w})
	}
	return h
}

// Strategies returns the configured strategies in declaration order.
func (h *Hybrid) Strategies() []Weighted {
	out := make([]Weighted, len(h.strategies))
	copy(out, h.strategies)
	return out
}

// Name implements Strategy.
func (h *Hybrid) Name() string { return NameHybrid }

type fused struct {
	doc   domain.ScoredDocument
	score float64
}

// Search implements Strategy. Sub-strategies run concurrently; their results
// are merged in declaration order so the output is deterministic.
func (h *Hybrid) Search(ctx context.Context, query string, docs []domain.Document, topK int) []domain.ScoredDocument {
	if topK <= 0 || blank(query) {
		return nil
	}
	active := make([]Weighted, 0, len(h.strategies))
	for _, ws := range h.strategies {
		if ws.Weight > 0 {
			active = append(active, ws)
		}
	}
	if len(active) == 0 {
		return nil
	}

	perStrategy := make([][]domain.ScoredDocument, len(active))
	var g errgroup.Group
	for i, ws := range active {
		g.Go(func() error {
			perStrategy[i] = searchSafely(ctx, ws.Strategy, query, docs, topK*h.oversample)
			return nil
		})
	}
	_ = g.Wait()

	byHref := make(map[string]*fused)
	var order []*fused
	for i, ws := range active {
		name := ws.Strategy.Name()
		for r, doc := range perStrategy[i] {
			f, ok := byHref[doc.Href]
			if !ok {
				f = &fused{doc: domain.ScoredDocument{Document: doc.Document, MatchType: domain.MatchHybrid}}
				byHref[doc.Href] = f
				order = append(order, f)
			}
			f.score += ws.Weight / float64(h.k+r+1)
			f.doc.AddStrategy(name)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].score > order[j].score
	})
	if len(order) > topK {
		order = order[:topK]
	}
	results := make([]domain.ScoredDocument, len(order))
	for i, f := range order {
		f.doc.Score = f.score
		results[i] = f.doc
	}
	return results
}

// searchSafely runs one sub-strategy, turning a panic into an empty result.
func searchSafely(ctx context.Context, s Strategy, query string, docs []domain.Document, topK int) (results []domain.ScoredDocument) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("strategy %s panicked: %v", s.Name(), r)
			logger.Debug("%s", debug.Stack())
			results = nil
		}
	}()
	return s.Search(ctx, query, docs, topK)
}
