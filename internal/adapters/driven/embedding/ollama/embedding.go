// Package ollama embeds archive records with a local Ollama model.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/archivo/internal/adapters/driven/ollamaclient"
	"github.com/custodia-labs/archivo/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Defaults for Config fields left empty.
const (
	DefaultBaseURL    = ollamaclient.DefaultBaseURL
	DefaultModel      = "nomic-embed-text"
	DefaultTimeout    = 30 * time.Second
	DefaultDimensions = 768
)

// Config holds configuration for the Ollama embedding service.
type Config struct {
	BaseURL    string
	Model      string
	Timeout    time.Duration
	Dimensions int
}

// EmbeddingService embeds text through Ollama's /api/embed endpoint.
type EmbeddingService struct {
	client     *ollamaclient.Client
	model      string
	dimensions int
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
	// Truncate lets the server cut long record descriptions to the
	// model's context instead of failing the whole batch.
	Truncate bool `json:"truncate"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// NewEmbeddingService creates an Ollama embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}
	return &EmbeddingService{
		client:     ollamaclient.New(cfg.BaseURL, cfg.Timeout),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

// Embed returns the vector for one text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in one request. Every returned vector is
// non-empty and all have the same length.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var resp embedResponse
	req := embedRequest{Model: s.model, Input: texts, Truncate: true}
	if err := s.client.Post(ctx, "/api/embed", req, &resp); err != nil {
		if errors.Is(err, ollamaclient.ErrModelNotPulled) {
			return nil, fmt.Errorf("%w (run 'ollama pull %s')", err, s.model)
		}
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama: got %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}
	width := len(resp.Embeddings[0])
	for i, vec := range resp.Embeddings {
		if len(vec) == 0 || len(vec) != width {
			return nil, fmt.Errorf("ollama: embedding %d has %d dimensions, want %d", i, len(vec), width)
		}
	}
	return resp.Embeddings, nil
}

// Dimensions returns the configured vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the embedding model.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping checks that the server answers and the model has been pulled.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.client.RequireModel(ctx, s.model)
}

// Close is a no-op.
func (s *EmbeddingService) Close() error {
	return nil
}
