// Package ranking scores archival documents against a query.
//
// Every strategy implements Strategy and returns at most topK results sorted
// by non-increasing score, with ties in corpus order. Strategies never fail:
// a missing capability (no index, no embedder) degrades to a fallback or to
// an empty result. Hybrid fuses several strategies with Reciprocal Rank
// Fusion and recovers sub-strategy panics.
package ranking
