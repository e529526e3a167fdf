package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/archivo/internal/core/domain"
)

func TestImportCmd_ImportsAndIndexes(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := runWithInput(t, "", "import", "records.json")

	require.NoError(t, err)
	assert.Equal(t, "records.json", ts.corpus.importedPath)
	assert.Equal(t, 1, ts.corpus.indexCalls)
	assert.Equal(t, 0, ts.corpus.embedCalls)
	assert.Contains(t, out, "Imported 3 of 5 records (1 duplicates, 1 invalid)")
	assert.Contains(t, out, "Indexed 3 documents, 42 terms")
}

func TestImportCmd_NoIndexWithEmbed(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := runWithInput(t, "", "import", "--no-index", "--embed", "records.json")

	require.NoError(t, err)
	assert.Equal(t, 0, ts.corpus.indexCalls)
	assert.Equal(t, 1, ts.corpus.embedCalls)
	assert.Contains(t, out, "Embedded 3 documents with nomic-embed-text")
}

func TestImportCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.corpus.importErr = errors.New("no such file")

	_, err := runWithInput(t, "", "import", "missing.json")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "import failed: no such file")
	assert.Equal(t, 0, ts.corpus.indexCalls)
}

func TestImportCmd_RequiresFile(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := runWithInput(t, "", "import")

	assert.Error(t, err)
}

func TestIndexCmd_EmptyCorpus(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.corpus.indexErr = domain.ErrCorpusEmpty

	_, err := runWithInput(t, "", "index")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "archivo import")
}

func TestEmbedCmd_NoProvider(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.corpus.embedErr = domain.ErrEmbeddingUnavailable

	_, err := runWithInput(t, "", "embed")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "archivo settings embedding")
}

func TestEmbedCmd_ReportsFailures(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.corpus.embed = &domain.EmbedResult{Model: "m", Embedded: 2, Skipped: 5, Failed: 1}

	out, err := runWithInput(t, "", "embed")

	require.NoError(t, err)
	assert.Contains(t, out, "Embedded 2 documents with m (5 already embedded, 1 failed)")
	assert.Contains(t, out, "again to retry")
}

func TestStatusCmd_Text(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := runWithInput(t, "", "status")

	require.NoError(t, err)
	assert.Contains(t, out, "Documents: 3")
	assert.Contains(t, out, "Index terms: 42")
	assert.Contains(t, out, "Semantic ranking: disabled")
	assert.Contains(t, out, "Strategies: [exact tfidf]")
}

func TestStatusCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := runWithInput(t, "", "status", "--json")

	require.NoError(t, err)
	var got struct {
		Corpus domain.CorpusStats   `json:"corpus"`
		Search *domain.SearchStatus `json:"search"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 3, got.Corpus.Documents)
	require.NotNil(t, got.Search)
	assert.Equal(t, []string{"exact", "tfidf"}, got.Search.Strategies)
}

func TestStatusCmd_EmptyCorpusHint(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.corpus.stats = domain.CorpusStats{}

	out, err := runWithInput(t, "", "status")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents stored")
}

func TestCorpusCmds_ServiceNotConfigured(t *testing.T) {
	for _, args := range [][]string{{"import", "x.json"}, {"index"}, {"embed"}, {"status"}} {
		t.Run(args[0], func(t *testing.T) {
			_, cleanup := setupTestServices()
			defer cleanup()
			corpusService = nil

			_, err := runWithInput(t, "", args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "corpus service not configured")
		})
	}
}
