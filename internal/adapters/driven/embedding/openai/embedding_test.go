package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/archivo/internal/adapters/driven/openaiclient"
	"github.com/custodia-labs/archivo/internal/core/domain"
)

func TestNewEmbeddingService_RequiresAPIKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.Error(t, err)
}

func TestNewEmbeddingService_Dimensions(t *testing.T) {
	tests := []struct {
		model      string
		override   int
		wantDims   int
		wantShorts bool
	}{
		{model: "", wantDims: 1536},
		{model: "text-embedding-3-large", wantDims: 3072},
		{model: "text-embedding-3-small", override: 256, wantDims: 256, wantShorts: true},
		{model: "text-embedding-ada-002", override: 256, wantDims: 256},
		{model: "custom-model", wantDims: 0},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			svc, err := NewEmbeddingService(Config{APIKey: "sk-test", Model: tt.model, Dimensions: tt.override})
			require.NoError(t, err)
			assert.Equal(t, tt.wantDims, svc.Dimensions())
			assert.Equal(t, tt.wantShorts, svc.shorten)
		})
	}
}

func TestEmbeddingService_EmbedBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text-embedding-3-small", req.Model)

		// Out of order on purpose: results are placed by index.
		data := make([]map[string]any, 0, len(req.Input))
		for i := len(req.Input) - 1; i >= 0; i-- {
			data = append(data, map[string]any{
				"object":    "embedding",
				"index":     i,
				"embedding": []float32{float32(i), 0.5},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data})
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	vecs, err := svc.EmbedBatch(context.Background(), []string{"uno", "dos", "tres"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0, 0.5}, {1, 0.5}, {2, 0.5}}, vecs)

	vec, err := svc.Embed(context.Background(), "uno")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0.5}, vec)
}

func TestEmbeddingService_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "sk-bad", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Embed(context.Background(), "uno")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid key")
	assert.ErrorIs(t, err, openaiclient.ErrUnauthorized)
	assert.ErrorIs(t, svc.Ping(context.Background()), openaiclient.ErrUnauthorized)
}

func TestEmbeddingService_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"requests"}}`))
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.EmbedBatch(context.Background(), []string{"uno"})
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestEmbeddingService_EmbedBatch_SplitsRequests(t *testing.T) {
	var sizes []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		sizes = append(sizes, len(req.Input))

		data := make([]map[string]any, 0, len(req.Input))
		for i, in := range req.Input {
			data = append(data, map[string]any{"index": i, "embedding": []float32{float32(len(in))}})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data})
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)
	svc.maxInputs = 2

	vecs, err := svc.EmbedBatch(context.Background(), []string{"a", "bb", "ccc", "dddd", "eeeee"})

	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 1}, sizes)
	assert.Equal(t, [][]float32{{1}, {2}, {3}, {4}, {5}}, vecs)
}

func TestEmbeddingService_MissingVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"index":1,"embedding":[0.1]}]}`))
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.EmbedBatch(context.Background(), []string{"uno", "dos"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no embedding returned for input 0")
}
