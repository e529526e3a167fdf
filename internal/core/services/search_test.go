package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/core/ports/driving"
	"github.com/custodia-labs/archivo/internal/ranking"
	"github.com/custodia-labs/archivo/internal/textproc"
)

func newTestSearchService(t *testing.T, corpus *driving.Corpus, embed ranking.EmbedFunc) *SearchService {
	t.Helper()
	return NewSearchService(corpus, domain.Tables{}, domain.DefaultAppSettings(), embed)
}

func TestSearchService_Search_ExactTitleFirst(t *testing.T) {
	service := newTestSearchService(t, &driving.Corpus{Documents: testCorpus()}, nil)

	results, err := service.Search(context.Background(), "Carta de Aylwin a ministro", 0)

	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "/a1", results[0].Href)
	assert.Equal(t, domain.MatchHybrid, results[0].MatchType)
}

func TestSearchService_Search_EmptyQuery(t *testing.T) {
	service := newTestSearchService(t, &driving.Corpus{Documents: testCorpus()}, nil)

	for _, q := range []string{"", "   ", "\t\n"} {
		results, err := service.Search(context.Background(), q, 0)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	}
}

func TestSearchService_Search_EmptyCorpus(t *testing.T) {
	service := newTestSearchService(t, nil, nil)

	results, err := service.Search(context.Background(), "dictadura", 0)

	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearchService_Search_CancelledContext(t *testing.T) {
	service := newTestSearchService(t, &driving.Corpus{Documents: testCorpus()}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Search(ctx, "carta", 0)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchService_Search_Limit(t *testing.T) {
	docs := make([]domain.Document, 0, 10)
	for i := range 10 {
		docs = append(docs, domain.Document{Title: fmt.Sprintf("carta número %d", i), Href: fmt.Sprintf("/c%d", i)})
	}
	service := newTestSearchService(t, &driving.Corpus{Documents: docs}, nil)

	results, err := service.Search(context.Background(), "carta", 0)
	require.NoError(t, err)
	assert.Len(t, results, domain.DefaultAppSettings().Ranking.TopK)

	results, err = service.Search(context.Background(), "carta", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchService_Search_RecordsMetrics(t *testing.T) {
	service := newTestSearchService(t, &driving.Corpus{Documents: testCorpus()}, nil)
	metrics := &mockMetrics{}
	service.SetMetrics(metrics)

	_, err := service.Search(context.Background(), "plebiscito", 0)

	require.NoError(t, err)
	assert.Equal(t, 1, metrics.searches)
}

func TestSearchService_Search_PanickingMetricsIgnored(t *testing.T) {
	service := newTestSearchService(t, &driving.Corpus{Documents: testCorpus()}, nil)
	service.SetMetrics(&mockMetrics{panics: true})

	assert.NotPanics(t, func() {
		results, err := service.Search(context.Background(), "plebiscito", 0)
		require.NoError(t, err)
		assert.NotEmpty(t, results)
	})
}

func TestSearchService_Analyze(t *testing.T) {
	service := newTestSearchService(t, nil, nil)

	q := service.Analyze("fotos de 1975")

	assert.Equal(t, "fotos de 1975", q.Raw)
	assert.Equal(t, "fotografia de 1975", q.Normalized)
	assert.Contains(t, q.Entities.Years, 1975)
	assert.Contains(t, q.Entities.DocTypes, "fotografías")
	require.NotEmpty(t, q.Expansions)
	assert.Equal(t, "fotos de 1975", q.Expansions[0])
}

func TestSearchService_IsOutOfScope(t *testing.T) {
	service := newTestSearchService(t, nil, nil)

	tests := []struct {
		query string
		want  bool
	}{
		{"¿Cuándo son las Matrículas?", true},
		{"horario de atención", true},
		{"necesito un certificado", true},
		{"documentos sobre la dictadura", false},
		{"fotos del plebiscito", false},
		{"programa de gobierno de 1970", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, service.IsOutOfScope(tt.query))
		})
	}
}

func TestSearchService_Status(t *testing.T) {
	docs := testCorpus()
	index, err := ranking.FitTFIDF(docs, textproc.NewNormalizer(textproc.DefaultAbbreviations()), ranking.DefaultTFIDFOptions())
	require.NoError(t, err)
	embeddings := domain.Embeddings{"/a1": {1, 0}, "/p1": {0, 1}}
	embed := func(context.Context, string) []float32 { return []float32{1, 0} }

	service := newTestSearchService(t, &driving.Corpus{Documents: docs, Index: index, Embeddings: embeddings}, embed)
	status := service.Status()

	assert.Equal(t, 4, status.Documents)
	assert.Equal(t, 2, status.Embeddings)
	assert.True(t, status.Index)
	assert.True(t, status.Semantic)
	assert.ElementsMatch(t, []string{
		ranking.NameExactTitle, ranking.NameMetadata, ranking.NameTFIDF, ranking.NameSemantic,
	}, status.Strategies)

	bare := newTestSearchService(t, &driving.Corpus{Documents: docs}, nil).Status()
	assert.False(t, bare.Index)
	assert.False(t, bare.Semantic)
	assert.ElementsMatch(t, []string{ranking.NameExactTitle, ranking.NameMetadata}, bare.Strategies)
}

func TestSearchService_ReloadTables(t *testing.T) {
	service := newTestSearchService(t, nil, nil)
	require.False(t, service.IsOutOfScope("quiero una entrada deportiva"))

	err := service.ReloadTables(domain.Tables{OutOfScope: []string{"deportiva"}})

	require.NoError(t, err)
	assert.True(t, service.IsOutOfScope("quiero una entrada deportiva"))
	assert.False(t, service.IsOutOfScope("matrícula"), "replaced section no longer applies")
	assert.Equal(t, "fotografia", service.Analyze("fotos").Normalized, "empty sections keep defaults")
}

func TestSearchService_ConcurrentReloadAndSearch(t *testing.T) {
	service := newTestSearchService(t, &driving.Corpus{Documents: testCorpus()}, nil)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if n%2 == 0 {
				_ = service.ReloadTables(domain.Tables{})
				return
			}
			_, err := service.Search(context.Background(), "informe derechos humanos", 0)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
}
