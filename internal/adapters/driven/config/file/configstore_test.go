package file

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	}

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".archivo", "config.toml"), store.Path())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	require.NoError(t, store.Set("key", "value"))
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("s", "hello"))
	require.NoError(t, store.Set("i", 42))
	require.NoError(t, store.Set("f", 1.5))
	require.NoError(t, store.Set("b", true))
	require.NoError(t, store.Set("d", "90s"))
	require.NoError(t, store.Set("dd", 2*time.Minute))
	require.NoError(t, store.Set("list", []string{"a", "b"}))

	assert.Equal(t, "hello", store.GetString("s"))
	assert.Equal(t, 42, store.GetInt("i"))
	assert.InDelta(t, 1.5, store.GetFloat("f"), 1e-9)
	assert.InDelta(t, 42.0, store.GetFloat("i"), 1e-9)
	assert.True(t, store.GetBool("b"))
	assert.Equal(t, 90*time.Second, store.GetDuration("d"))
	assert.Equal(t, 2*time.Minute, store.GetDuration("dd"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("list"))

	// Wrong types and missing keys read as zero values.
	assert.Empty(t, store.GetString("i"))
	assert.Zero(t, store.GetInt("s"))
	assert.Zero(t, store.GetFloat("missing"))
	assert.False(t, store.GetBool("s"))
	assert.Zero(t, store.GetDuration("s"))
	assert.Nil(t, store.GetStringSlice("i"))
}

func TestConfigStore_PersistsAsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("ranking.top_k", 8))
	require.NoError(t, store.Set("ranking.exact_weight", 1.5))
	require.NoError(t, store.Set("llm.provider", "ollama"))
	require.NoError(t, store.Set("session.ttl", 10*time.Minute))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[ranking]")
	assert.Contains(t, string(data), "[llm]")

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 8, reloaded.GetInt("ranking.top_k"))
	assert.InDelta(t, 1.5, reloaded.GetFloat("ranking.exact_weight"), 1e-9)
	assert.Equal(t, "ollama", reloaded.GetString("llm.provider"))
	assert.Equal(t, 10*time.Minute, reloaded.GetDuration("session.ttl"))
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[ranking]
top_k = 10
tfidf_weight = 1

[comparator]
fuzzy = true

[embedding]
provider = "gemini"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 10, store.GetInt("ranking.top_k"))
	assert.InDelta(t, 1.0, store.GetFloat("ranking.tfidf_weight"), 1e-9)
	assert.True(t, store.GetBool("comparator.fuzzy"))
	assert.Equal(t, "gemini", store.GetString("embedding.provider"))
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Load())
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not enforced on windows")
	}
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("key", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("counter", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("counter")
		}()
	}
	wg.Wait()

	_, ok := store.Get("counter")
	assert.True(t, ok)
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"a.b":   1,
		"a.c.d": "x",
		"top":   true,
	})

	assert.Equal(t, map[string]any{
		"a":   map[string]any{"b": 1, "c": map[string]any{"d": "x"}},
		"top": true,
	}, nested)
	assert.Equal(t, map[string]any{"a.b": 1, "a.c.d": "x", "top": true}, flattenMap(nested, ""))
}
