package ai

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/core/ports/driven"
	"github.com/custodia-labs/archivo/internal/logger"
)

// DefaultCacheSize is used when settings leave the cache size unset.
const DefaultCacheSize = 2048

// Key prefixes. Queries and documents are cached apart because some
// providers embed them differently.
const (
	prefixQuery    = "embed:q:"
	prefixDocument = "embed:d:"
	prefixGenerate = "gen:"
)

// Ensure the cached wrappers implement the interfaces.
var (
	_ driven.EmbeddingService = (*CachedEmbedding)(nil)
	_ driven.LLMService       = (*CachedLLM)(nil)
)

// CachedEmbedding memoises embeddings in memory and, optionally, in a
// persistent driven.Cache.
type CachedEmbedding struct {
	driven.EmbeddingService
	memory  *expirable.LRU[string, []float32]
	store   driven.Cache
	ttl     time.Duration
	metrics driven.Metrics
}

// NewCachedEmbedding wraps svc. store and metrics are optional.
func NewCachedEmbedding(
	svc driven.EmbeddingService,
	settings domain.AISettings,
	store driven.Cache,
	metrics driven.Metrics,
) *CachedEmbedding {
	size := settings.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &CachedEmbedding{
		EmbeddingService: svc,
		memory:           expirable.NewLRU[string, []float32](size, nil, settings.CacheTTL),
		store:            store,
		ttl:              settings.CacheTTL,
		metrics:          metrics,
	}
}

// Embed returns the cached query vector or computes and caches it.
func (c *CachedEmbedding) Embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	key := cacheKey(prefixQuery, c.ModelName(), text)
	if vec, ok := c.lookup(ctx, key); ok {
		observe(c.metrics, CapabilityEmbed, OutcomeCached, time.Since(start))
		return vec, nil
	}

	vec, err := c.EmbeddingService.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.remember(ctx, key, vec)
	return vec, nil
}

// EmbedBatch serves what it can from the cache and sends only the misses
// to the provider.
func (c *CachedEmbedding) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	keys := make([]string, len(texts))
	var missing []int
	for i, text := range texts {
		keys[i] = cacheKey(prefixDocument, c.ModelName(), text)
		if vec, ok := c.lookup(ctx, keys[i]); ok {
			out[i] = vec
			continue
		}
		missing = append(missing, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	pending := make([]string, len(missing))
	for j, i := range missing {
		pending[j] = texts[i]
	}
	vecs, err := c.EmbeddingService.EmbedBatch(ctx, pending)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(pending) {
		return nil, fmt.Errorf("embed batch: got %d vectors for %d texts", len(vecs), len(pending))
	}
	for j, i := range missing {
		out[i] = vecs[j]
		c.remember(ctx, keys[i], vecs[j])
	}
	return out, nil
}

func (c *CachedEmbedding) lookup(ctx context.Context, key string) ([]float32, bool) {
	if vec, ok := c.memory.Get(key); ok {
		return vec, true
	}
	if c.store == nil {
		return nil, false
	}
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		logger.Debug("persistent cache get: %v", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	vec := decodeVector(raw)
	if len(vec) == 0 {
		return nil, false
	}
	c.memory.Add(key, vec)
	return vec, true
}

func (c *CachedEmbedding) remember(ctx context.Context, key string, vec []float32) {
	if len(vec) == 0 {
		return
	}
	c.memory.Add(key, vec)
	if c.store != nil {
		if err := c.store.Set(ctx, key, encodeVector(vec), c.ttl); err != nil {
			logger.Debug("persistent cache set: %v", err)
		}
	}
}

// Close closes the wrapped service. The persistent store is owned by the caller.
func (c *CachedEmbedding) Close() error {
	c.memory.Purge()
	return c.EmbeddingService.Close()
}

// CachedLLM memoises generated text for identical prompts and options.
type CachedLLM struct {
	driven.LLMService
	memory  *expirable.LRU[string, string]
	store   driven.Cache
	ttl     time.Duration
	metrics driven.Metrics
}

// NewCachedLLM wraps svc. store and metrics are optional.
func NewCachedLLM(svc driven.LLMService, settings domain.AISettings, store driven.Cache, metrics driven.Metrics) *CachedLLM {
	size := settings.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &CachedLLM{
		LLMService: svc,
		memory:     expirable.NewLRU[string, string](size, nil, settings.CacheTTL),
		store:      store,
		ttl:        settings.CacheTTL,
		metrics:    metrics,
	}
}

// Generate returns the cached text or generates and caches it.
// Empty results are not cached.
func (c *CachedLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	start := time.Now()
	key := cacheKey(prefixGenerate, c.ModelName(),
		fmt.Sprintf("%d|%g|%q|%s", opts.MaxTokens, opts.Temperature, opts.StopWords, prompt))

	if text, ok := c.memory.Get(key); ok {
		observe(c.metrics, CapabilityGenerate, OutcomeCached, time.Since(start))
		return text, nil
	}
	if c.store != nil {
		if raw, ok, err := c.store.Get(ctx, key); err == nil && ok && len(raw) > 0 {
			c.memory.Add(key, string(raw))
			observe(c.metrics, CapabilityGenerate, OutcomeCached, time.Since(start))
			return string(raw), nil
		}
	}

	text, err := c.LLMService.Generate(ctx, prompt, opts)
	if err != nil {
		return "", err
	}
	if text == "" {
		return text, nil
	}
	c.memory.Add(key, text)
	if c.store != nil {
		if err := c.store.Set(ctx, key, []byte(text), c.ttl); err != nil {
			logger.Debug("persistent cache set: %v", err)
		}
	}
	return text, nil
}

// Close closes the wrapped service. The persistent store is owned by the caller.
func (c *CachedLLM) Close() error {
	c.memory.Purge()
	return c.LLMService.Close()
}

// cacheKey namespaces a hashed payload by model.
func cacheKey(prefix, model, payload string) string {
	sum := sha256.Sum256([]byte(payload))
	return prefix + model + ":" + hex.EncodeToString(sum[:])
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(data []byte) []float32 {
	if len(data)%4 != 0 {
		return nil
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec
}
