// Package openai embeds archive records with the OpenAI embeddings API or a
// compatible server.
package openai

import (
	"context"
	"fmt"
	"time"

	openaisdk "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/archivo/internal/adapters/driven/openaiclient"
	"github.com/custodia-labs/archivo/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const (
	DefaultModel   = "text-embedding-3-small"
	DefaultTimeout = 60 * time.Second

	// MaxInputs is the API's limit on inputs per request; larger batches
	// are split.
	MaxInputs = 2048
)

var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// Config holds configuration for the OpenAI embedding service.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration

	// Dimensions shortens text-embedding-3-* vectors. Other models ignore it.
	Dimensions int
}

// EmbeddingService embeds text through the OpenAI API.
type EmbeddingService struct {
	client     *openaisdk.Client
	model      string
	dimensions int
	shorten    bool
	maxInputs  int
}

// NewEmbeddingService creates an OpenAI embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	client, err := openaiclient.New(cfg.APIKey, cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	shorten := cfg.Dimensions > 0 &&
		(cfg.Model == "text-embedding-3-small" || cfg.Model == "text-embedding-3-large")
	dimensions := cfg.Dimensions
	if dimensions == 0 {
		dimensions = modelDimensions[cfg.Model]
	}

	return &EmbeddingService{
		client:     client,
		model:      cfg.Model,
		dimensions: dimensions,
		shorten:    shorten,
		maxInputs:  MaxInputs,
	}, nil
}

// Embed returns the vector for one text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts, splitting them into requests of at most
// MaxInputs. Results keep the input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float32, 0, len(texts))
	for lo := 0; lo < len(texts); lo += s.maxInputs {
		chunk, err := s.embedChunk(ctx, texts[lo:min(lo+s.maxInputs, len(texts))])
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
	return out, nil
}

func (s *EmbeddingService) embedChunk(ctx context.Context, texts []string) ([][]float32, error) {
	req := openaisdk.EmbeddingRequest{
		Input: texts,
		Model: openaisdk.EmbeddingModel(s.model),
	}
	if s.shorten {
		req.Dimensions = s.dimensions
	}

	resp, err := s.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, openaiclient.Classify("create embeddings", err)
	}

	vecs := make([][]float32, len(texts))
	for _, data := range resp.Data {
		if data.Index < 0 || data.Index >= len(texts) {
			return nil, fmt.Errorf("openai: embedding index %d out of range", data.Index)
		}
		vecs[data.Index] = data.Embedding
	}
	for i, vec := range vecs {
		if len(vec) == 0 {
			return nil, fmt.Errorf("openai: no embedding returned for input %d", i)
		}
	}
	return vecs, nil
}

// Dimensions returns the vector size, or 0 for an unknown model.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the embedding model.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping checks the key and that the model exists.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return openaiclient.PingModel(ctx, s.client, s.model)
}

// Close is a no-op.
func (s *EmbeddingService) Close() error {
	return nil
}
