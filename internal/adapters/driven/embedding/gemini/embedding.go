// Package gemini provides an embedding service adapter using the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/custodia-labs/archivo/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel      = "text-embedding-004"
	DefaultTimeout    = 60 * time.Second
	DefaultDimensions = 768
)

// Task types understood by the embedding endpoint. Queries and documents
// are embedded differently so that they meet in the same space.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// maxBatch is the most texts the API accepts per request.
const maxBatch = 100

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL overrides the API endpoint. Empty uses the public endpoint.
	BaseURL string

	// Model is the embedding model to use (default: text-embedding-004).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// Dimensions is the embedding vector size (model-dependent).
	Dimensions int
}

// EmbeddingService generates embeddings using the Gemini API.
type EmbeddingService struct {
	models     *genai.Models
	model      string
	dimensions int
}

// NewEmbeddingService creates a new Gemini embedding service.
func NewEmbeddingService(ctx context.Context, cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}

	client, err := NewClient(ctx, cfg.APIKey, cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &EmbeddingService{
		models:     client.Models,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}, nil
}

// NewClient creates a genai client for the Gemini API backend.
func NewClient(ctx context.Context, apiKey, baseURL string, timeout time.Duration) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: timeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return client, nil
}

// Embed generates a query embedding.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.embed(ctx, []string{text}, TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return nil, errors.New("gemini: no embedding returned")
	}
	return vecs[0], nil
}

// EmbedBatch generates document embeddings, splitting large inputs into
// several requests.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for lo := 0; lo < len(texts); lo += maxBatch {
		vecs, err := s.embed(ctx, texts[lo:min(lo+maxBatch, len(texts))], TaskRetrievalDocument)
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (s *EmbeddingService) embed(ctx context.Context, texts []string, task string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	resp, err := s.models.EmbedContent(ctx, s.model, contents, &genai.EmbedContentConfig{TaskType: task})
	if err != nil {
		return nil, fmt.Errorf("gemini: embed content: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini: got %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}

	vecs := make([][]float32, len(texts))
	for i, e := range resp.Embeddings {
		if e != nil {
			vecs[i] = e.Values
		}
	}
	return vecs, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the API key by fetching the model metadata.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.models.Get(ctx, s.model, nil); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	// The genai client holds no resources that need releasing
	return nil
}
