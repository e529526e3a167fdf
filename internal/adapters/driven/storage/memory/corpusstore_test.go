package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/ranking"
)

func TestCorpusStore_Documents(t *testing.T) {
	ctx := context.Background()
	store := NewCorpusStore()

	require.NoError(t, store.SaveDocuments(ctx, []domain.Document{
		{Title: "Uno", Href: "/1", Subjects: []string{"a"}},
		{Title: "Dos", Href: "/2"},
	}))
	require.NoError(t, store.SaveDocuments(ctx, []domain.Document{
		{Title: "Uno revisado", Href: "/1"},
		{Title: "Tres", Href: "/3"},
	}))

	docs, err := store.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, []string{"/1", "/2", "/3"}, []string{docs[0].Href, docs[1].Href, docs[2].Href})
	assert.Equal(t, "Uno revisado", docs[0].Title)

	docs[1].Title = "mutated"
	again, _ := store.Documents(ctx)
	assert.Equal(t, "Dos", again[1].Title)
}

func TestCorpusStore_Embeddings(t *testing.T) {
	ctx := context.Background()
	store := NewCorpusStore()

	require.NoError(t, store.SaveEmbeddings(ctx, "m1", domain.Embeddings{"/1": {1, 0}}))
	got, err := store.Embeddings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, got["/1"])

	got["/1"][0] = 9
	again, _ := store.Embeddings(ctx)
	assert.Equal(t, float32(1), again["/1"][0])

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Embeddings)
	assert.Equal(t, "m1", stats.EmbeddingModel)
}

func TestCorpusStore_Index(t *testing.T) {
	ctx := context.Background()
	store := NewCorpusStore()

	_, err := store.LoadIndex(ctx)
	assert.ErrorIs(t, err, domain.ErrIndexNotFound)

	idx, err := ranking.FitTFIDF([]domain.Document{{Title: "golpe de estado", Href: "/g"}}, nil, ranking.DefaultTFIDFOptions())
	require.NoError(t, err)
	require.NoError(t, store.SaveIndex(ctx, idx.Snapshot()))

	snap, err := store.LoadIndex(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Terms, idx.Terms())

	stats, _ := store.Stats(ctx)
	assert.Equal(t, idx.Terms(), stats.IndexTerms)
	assert.NoError(t, store.Close())
}
