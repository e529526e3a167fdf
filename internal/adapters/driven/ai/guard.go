package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/core/ports/driven"
	"github.com/custodia-labs/archivo/internal/logger"
)

// Capabilities reported to driven.Metrics.
const (
	CapabilityEmbed    = "embed"
	CapabilityGenerate = "generate"
)

// Call outcomes reported to driven.Metrics.
const (
	OutcomeOK          = "ok"
	OutcomeError       = "error"
	OutcomeCircuitOpen = "circuit_open"
	OutcomeRateLimited = "rate_limited"
	OutcomeCached      = "cached"
)

// guard protects one provider capability with a circuit breaker, a token
// bucket and a per-call timeout.
type guard struct {
	capability string
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
	timeout    time.Duration
	metrics    driven.Metrics
}

func newGuard(capability string, settings domain.AISettings, timeout time.Duration, metrics driven.Metrics) *guard {
	maxFailures := uint32(max(settings.MaxFailures, 1)) //nolint:gosec // small positive count
	limit := rate.Inf
	if settings.RatePerSecond > 0 {
		limit = rate.Limit(settings.RatePerSecond)
	}

	st := gobreaker.Settings{
		Name:    capability,
		Timeout: settings.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// A caller that gives up is not a provider failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				logger.Warn("%s circuit breaker opened after %d consecutive failures", name, maxFailures)
				return
			}
			logger.Info("%s circuit breaker changed from %s to %s", name, from, to)
		},
	}

	return &guard{
		capability: capability,
		breaker:    gobreaker.NewCircuitBreaker(st),
		limiter:    rate.NewLimiter(limit, max(settings.Burst, 1)),
		timeout:    timeout,
		metrics:    metrics,
	}
}

// do runs fn under the guard. The breaker-open state is reported as
// domain.ErrCircuitOpen and a token that cannot arrive before the deadline
// as domain.ErrRateLimited.
func (g *guard) do(ctx context.Context, fn func(ctx context.Context) (any, error)) (any, error) {
	start := time.Now()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	if err := g.limiter.Wait(ctx); err != nil {
		g.observe(OutcomeRateLimited, start)
		return nil, fmt.Errorf("%s: %w: %w", g.capability, domain.ErrRateLimited, err)
	}

	result, err := g.breaker.Execute(func() (any, error) {
		return fn(ctx)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		g.observe(OutcomeCircuitOpen, start)
		return nil, fmt.Errorf("%s: %w", g.capability, domain.ErrCircuitOpen)
	case err != nil:
		g.observe(OutcomeError, start)
		return nil, err
	}
	g.observe(OutcomeOK, start)
	return result, nil
}

// state returns the breaker state, for status output and tests.
func (g *guard) state() gobreaker.State {
	return g.breaker.State()
}

func (g *guard) observe(outcome string, start time.Time) {
	observe(g.metrics, g.capability, outcome, time.Since(start))
}

// observe reports a call to an optional collector. A panicking collector
// is logged and ignored.
func observe(m driven.Metrics, capability, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("metrics collector panicked: %v", r)
		}
	}()
	m.ObserveAICall(capability, outcome, elapsed)
}

// Ensure the guarded wrappers implement the interfaces.
var (
	_ driven.EmbeddingService = (*GuardedEmbedding)(nil)
	_ driven.LLMService       = (*GuardedLLM)(nil)
)

// GuardedEmbedding wraps an embedding service with a circuit breaker,
// rate limiting and a per-call timeout.
type GuardedEmbedding struct {
	driven.EmbeddingService
	guard *guard
}

// NewGuardedEmbedding wraps svc. metrics is optional.
func NewGuardedEmbedding(svc driven.EmbeddingService, settings domain.AISettings, metrics driven.Metrics) *GuardedEmbedding {
	return &GuardedEmbedding{
		EmbeddingService: svc,
		guard:            newGuard(CapabilityEmbed, settings, settings.EmbedTimeout, metrics),
	}
}

// Embed embeds a query under the guard.
func (g *GuardedEmbedding) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := g.guard.do(ctx, func(ctx context.Context) (any, error) {
		return g.EmbeddingService.Embed(ctx, text)
	})
	if err != nil {
		return nil, err
	}
	return out.([]float32), nil
}

// EmbedBatch embeds documents under the guard. The whole batch shares one
// timeout.
func (g *GuardedEmbedding) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out, err := g.guard.do(ctx, func(ctx context.Context) (any, error) {
		return g.EmbeddingService.EmbedBatch(ctx, texts)
	})
	if err != nil {
		return nil, err
	}
	return out.([][]float32), nil
}

// BreakerState reports the circuit breaker state ("closed", "open" or "half-open").
func (g *GuardedEmbedding) BreakerState() string {
	return g.guard.state().String()
}

// GuardedLLM wraps an LLM service with a circuit breaker, rate limiting
// and a per-call timeout.
type GuardedLLM struct {
	driven.LLMService
	guard *guard
}

// NewGuardedLLM wraps svc. metrics is optional.
func NewGuardedLLM(svc driven.LLMService, settings domain.AISettings, metrics driven.Metrics) *GuardedLLM {
	return &GuardedLLM{
		LLMService: svc,
		guard:      newGuard(CapabilityGenerate, settings, settings.GenerateTimeout, metrics),
	}
}

// Generate produces text under the guard.
func (g *GuardedLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	out, err := g.guard.do(ctx, func(ctx context.Context) (any, error) {
		return g.LLMService.Generate(ctx, prompt, opts)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// BreakerState reports the circuit breaker state ("closed", "open" or "half-open").
func (g *GuardedLLM) BreakerState() string {
	return g.guard.state().String()
}
