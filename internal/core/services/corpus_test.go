package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/archivo/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/core/ports/driven"
)

const testRecords = `[
  {"title": "Carta de Aylwin a ministro", "href": "/a1", "dc:subject": ["Correspondencia", "Transición"], "dc:creator": "Aylwin, Patricio"},
  {"title": "Fotografías del plebiscito de 1988", "href": "/p1", "dc:subject": ["Plebiscito"], "dc:date": ["1988"]},
  {"title": "Informe sobre derechos humanos", "href": "/r1", "dc:subject": "Derechos humanos"},
  {"title": "Duplicado", "href": "/a1"},
  {"title": "", "href": "/empty"},
  {"title": "Sin enlace"}
]`

func writeRecords(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newTestCorpusService(t *testing.T, embedder *mockEmbedder) (*CorpusService, *memory.CorpusStore) {
	t.Helper()
	store := memory.NewCorpusStore()
	settings := domain.ImportSettings{Workers: 2, BatchSize: 2}
	if embedder == nil {
		return NewCorpusService(store, nil, domain.Tables{}, settings), store
	}
	return NewCorpusService(store, embedder, domain.Tables{}, settings), store
}

func TestCorpusService_Import(t *testing.T) {
	service, store := newTestCorpusService(t, nil)

	result, err := service.Import(context.Background(), writeRecords(t, testRecords))

	require.NoError(t, err)
	assert.Equal(t, 6, result.Records)
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 1, result.Duplicates)
	assert.Equal(t, 2, result.Invalid)

	docs, err := store.Documents(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "Carta de Aylwin a ministro", docs[0].Title, "first href wins")
	assert.Equal(t, []string{"Aylwin, Patricio"}, docs[0].Creators)
}

func TestCorpusService_Import_Errors(t *testing.T) {
	service, _ := newTestCorpusService(t, nil)

	_, err := service.Import(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = service.Import(context.Background(), writeRecords(t, `{"not": "an array"`))
	assert.Error(t, err)
}

func TestCorpusService_BuildIndex(t *testing.T) {
	service, store := newTestCorpusService(t, nil)
	ctx := context.Background()

	_, err := service.BuildIndex(ctx)
	assert.ErrorIs(t, err, domain.ErrCorpusEmpty)

	_, err = service.Import(ctx, writeRecords(t, testRecords))
	require.NoError(t, err)

	result, err := service.BuildIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Documents)
	assert.Positive(t, result.Terms)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.Terms, stats.IndexTerms)
}

func TestCorpusService_Embed(t *testing.T) {
	embedder := &mockEmbedder{model: "m1"}
	service, store := newTestCorpusService(t, embedder)
	ctx := context.Background()

	_, err := service.Import(ctx, writeRecords(t, testRecords))
	require.NoError(t, err)

	result, err := service.Embed(ctx)
	require.NoError(t, err)
	assert.Equal(t, "m1", result.Model)
	assert.Equal(t, 3, result.Embedded)
	assert.Zero(t, result.Skipped)
	assert.Zero(t, result.Failed)
	assert.Equal(t, 2, embedder.batches)

	embeddings, err := store.Embeddings(ctx)
	require.NoError(t, err)
	assert.Len(t, embeddings, 3)
	want := float32(len(EmbedText(domain.Document{Title: "Carta de Aylwin a ministro", Href: "/a1"})))
	assert.Equal(t, want, embeddings["/a1"][0])

	again, err := service.Embed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, again.Skipped)
	assert.Zero(t, again.Embedded)
}

func TestCorpusService_Embed_ModelChangeRecomputes(t *testing.T) {
	embedder := &mockEmbedder{model: "m1"}
	service, _ := newTestCorpusService(t, embedder)
	ctx := context.Background()

	_, err := service.Import(ctx, writeRecords(t, testRecords))
	require.NoError(t, err)
	_, err = service.Embed(ctx)
	require.NoError(t, err)

	embedder.model = "m2"
	result, err := service.Embed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Embedded)
	assert.Zero(t, result.Skipped)
}

func TestCorpusService_Embed_FailedBatchIsCounted(t *testing.T) {
	embedder := &mockEmbedder{model: "m1", failOn: "Informe"}
	service, store := newTestCorpusService(t, embedder)
	ctx := context.Background()

	_, err := service.Import(ctx, writeRecords(t, testRecords))
	require.NoError(t, err)

	result, err := service.Embed(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Embedded)
	assert.Equal(t, 1, result.Failed)
	embeddings, _ := store.Embeddings(ctx)
	assert.NotContains(t, embeddings, "/r1")
}

func TestCorpusService_Embed_Unavailable(t *testing.T) {
	service, _ := newTestCorpusService(t, nil)

	_, err := service.Embed(context.Background())

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestCorpusService_Embed_EmptyCorpus(t *testing.T) {
	service, _ := newTestCorpusService(t, &mockEmbedder{model: "m1"})

	_, err := service.Embed(context.Background())

	assert.ErrorIs(t, err, domain.ErrCorpusEmpty)
}

func TestCorpusService_Load(t *testing.T) {
	service, _ := newTestCorpusService(t, &mockEmbedder{model: "m1"})
	ctx := context.Background()

	corpus, err := service.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, corpus.Documents)
	assert.Nil(t, corpus.Index)

	_, err = service.Import(ctx, writeRecords(t, testRecords))
	require.NoError(t, err)
	_, err = service.BuildIndex(ctx)
	require.NoError(t, err)
	_, err = service.Embed(ctx)
	require.NoError(t, err)

	corpus, err = service.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, corpus.Documents, 3)
	require.NotNil(t, corpus.Index)
	assert.Equal(t, 3, corpus.Index.Documents())
	assert.Len(t, corpus.Embeddings, 3)

	search := NewSearchService(corpus, domain.Tables{}, domain.DefaultAppSettings(), EmbedFunc(&mockEmbedder{model: "m1"}))
	results, err := search.Search(ctx, "informe derechos humanos", 0)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "/r1", results[0].Href)
	assert.True(t, search.Status().Semantic)
}

func TestCorpusService_Stats(t *testing.T) {
	service, _ := newTestCorpusService(t, nil)
	ctx := context.Background()
	_, err := service.Import(ctx, writeRecords(t, testRecords))
	require.NoError(t, err)

	stats, err := service.Stats(ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, stats.Documents)
}

func TestEmbedFunc(t *testing.T) {
	assert.Nil(t, EmbedFunc(nil))

	embed := EmbedFunc(&mockEmbedder{err: errors.New("offline")})
	assert.Nil(t, embed(context.Background(), "q"))

	embed = EmbedFunc(&mockEmbedder{})
	assert.Equal(t, []float32{1, 1}, embed(context.Background(), "q"))
}

func TestNewGenerateFunc(t *testing.T) {
	assert.Nil(t, NewGenerateFunc(nil, driven.GenerateOptions{}))
}
