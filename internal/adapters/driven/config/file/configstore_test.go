package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfigStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	store, err := NewConfigStore(path)

	require.NoError(t, err)
	assert.Equal(t, path, store.Path())
	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewConfigStore_DefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".interview-pilot", "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Set("vector.backend", "qdrant"))
	require.NoError(t, store.Set("knowledge.chunk_size", int64(800)))
	require.NoError(t, store.Set("debug", true))

	assert.Equal(t, "qdrant", store.GetString("vector.backend"))
	assert.Equal(t, 800, store.GetInt("knowledge.chunk_size"))
	assert.True(t, store.GetBool("debug"))

	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt("vector.backend"))
	assert.False(t, store.GetBool("vector.backend"))
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Set("vector.backend", "memory"))
	require.NoError(t, store.Set("log_level", "DEBUG"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[vector]")
	assert.Regexp(t, `backend = ['"]memory['"]`, string(data))
	assert.NotContains(t, string(data), "'vector.backend'")
}

func TestConfigStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	store, err := NewConfigStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("openai.model", "gpt-4o"))
	require.NoError(t, store.Set("vector.threshold", 0.5))

	reloaded, err := NewConfigStore(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", reloaded.GetString("openai.model"))
	val, ok := reloaded.Get("vector.threshold")
	require.True(t, ok)
	assert.InDelta(t, 0.5, val, 1e-9)
	assert.Equal(t, []string{"openai.model", "vector.threshold"}, reloaded.Keys())
}

func TestConfigStore_Unset(t *testing.T) {
	store := newTestConfigStore(t)
	require.NoError(t, store.Set("nats.url", "nats://localhost:4222"))

	require.NoError(t, store.Unset("nats.url"))
	require.NoError(t, store.Unset("nats.url"))

	require.NoError(t, store.Load())
	_, ok := store.Get("nats.url")
	assert.False(t, ok)
}

func TestConfigStore_SetConflictIsRolledBack(t *testing.T) {
	store := newTestConfigStore(t)
	require.NoError(t, store.Set("vector", "flat"))

	err := store.Set("vector.backend", "memory")

	require.Error(t, err)
	_, ok := store.Get("vector.backend")
	assert.False(t, ok)
}

func TestConfigStore_Load_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("this is [not toml"), 0600))

	_, err := NewConfigStore(path)

	assert.Error(t, err)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store := newTestConfigStore(t)
	require.NoError(t, store.Set("k", "v"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := newTestConfigStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Set("evaluation.max_tokens", int64(i))
			_ = store.GetInt("evaluation.max_tokens")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("evaluation.max_tokens")
	assert.True(t, ok)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{"42", int64(42)},
		{"-1", int64(-1)},
		{"0.7", 0.7},
		{"true", true},
		{"FALSE", false},
		{"t", "t"},
		{"qdrant", "qdrant"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseValue(tt.raw), tt.raw)
	}
}

func TestFlattenTOML(t *testing.T) {
	type inner struct {
		Backend string `toml:"backend"`
		K       int    `toml:"k"`
	}
	type outer struct {
		Vector inner  `toml:"vector"`
		Level  string `toml:"log_level"`
	}

	flat, err := FlattenTOML(outer{Vector: inner{Backend: "sqlite", K: 4}, Level: "INFO"})

	require.NoError(t, err)
	assert.Equal(t, "sqlite", flat["vector.backend"])
	assert.Equal(t, int64(4), flat["vector.k"])
	assert.Equal(t, "INFO", flat["log_level"])
}
