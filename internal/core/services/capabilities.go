package services

import (
	"context"
	"strings"
	"time"

	"github.com/custodia-labs/archivo/internal/core/ports/driven"
	"github.com/custodia-labs/archivo/internal/logger"
	"github.com/custodia-labs/archivo/internal/ranking"
)

// GenerateFunc turns a prompt into reply text. An empty result means
// generation is unavailable and the caller should fall back.
type GenerateFunc func(ctx context.Context, prompt string) string

// EmbedFunc adapts an embedding service to the ranking capability.
// Errors are logged and reported as a nil vector. Returns nil if svc is nil.
func EmbedFunc(svc driven.EmbeddingService) ranking.EmbedFunc {
	if svc == nil {
		return nil
	}
	return func(ctx context.Context, text string) []float32 {
		vec, err := svc.Embed(ctx, text)
		if err != nil {
			logger.Warn("embed query: %v", err)
			return nil
		}
		return vec
	}
}

// NewGenerateFunc adapts an LLM service to the generation capability.
// Errors are logged and reported as an empty string. Returns nil if svc is nil.
func NewGenerateFunc(svc driven.LLMService, opts driven.GenerateOptions) GenerateFunc {
	if svc == nil {
		return nil
	}
	return func(ctx context.Context, prompt string) string {
		text, err := svc.Generate(ctx, prompt, opts)
		if err != nil {
			logger.Warn("generate reply: %v", err)
			return ""
		}
		return strings.TrimSpace(text)
	}
}

// metricsSink wraps an optional driven.Metrics so a faulty collector
// never breaks a request.
type metricsSink struct {
	m driven.Metrics
}

func (s metricsSink) search(results int, elapsed time.Duration) {
	s.call(func(m driven.Metrics) { m.ObserveSearch(results, elapsed) })
}

func (s metricsSink) turn(kind string, elapsed time.Duration) {
	s.call(func(m driven.Metrics) { m.ObserveTurn(kind, elapsed) })
}

func (s metricsSink) sessions(n int) {
	s.call(func(m driven.Metrics) { m.SetSessions(n) })
}

func (s metricsSink) call(fn func(driven.Metrics)) {
	if s.m == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("metrics observer panicked: %v", r)
		}
	}()
	fn(s.m)
}
