package file

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

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

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("download.mode", "sequential"))

	val, ok := store.Get("download.mode")
	assert.True(t, ok)
	assert.Equal(t, "sequential", val)

	_, ok = store.Get("nonexistent")
	assert.False(t, ok)
}

func TestConfigStore_GetString(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("data.root", "/srv/commits"))
	require.NoError(t, store.Set("int_key", 42))

	assert.Equal(t, "/srv/commits", store.GetString("data.root"))
	assert.Equal(t, "", store.GetString("nonexistent"))
	assert.Equal(t, "", store.GetString("int_key"))
}

func TestConfigStore_GetInt(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("download.concurrency", 8))
	require.NoError(t, store.Set("int64_key", int64(16)))
	require.NoError(t, store.Set("string_key", "eight"))

	assert.Equal(t, 8, store.GetInt("download.concurrency"))
	assert.Equal(t, 16, store.GetInt("int64_key"))
	assert.Equal(t, 0, store.GetInt("string_key"))
	assert.Equal(t, 0, store.GetInt("nonexistent"))
}

func TestConfigStore_GetFloat(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("api.requests_per_second", 2.5))
	require.NoError(t, store.Set("whole", int64(10)))
	require.NoError(t, store.Set("text", "fast"))

	assert.Equal(t, 2.5, store.GetFloat("api.requests_per_second"))
	assert.Equal(t, 10.0, store.GetFloat("whole"))
	assert.Equal(t, 0.0, store.GetFloat("text"))
	assert.Equal(t, 0.0, store.GetFloat("nonexistent"))
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("download.mode", "sequential"))
	require.NoError(t, store.Set("download.concurrency", 4))
	require.NoError(t, store.Set("api.requests_per_second", 2.5))
	require.NoError(t, store.Set("api.base_url", "https://ghe.example.com/api/v3/"))

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "sequential", reloaded.GetString("download.mode"))
	assert.Equal(t, 4, reloaded.GetInt("download.concurrency"))
	assert.Equal(t, 2.5, reloaded.GetFloat("api.requests_per_second"))
	assert.Equal(t, "https://ghe.example.com/api/v3/", reloaded.GetString("api.base_url"))
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("download.mode", "concurrent"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[download]")
	assert.Contains(t, string(data), "mode = 'concurrent'")
}

func TestConfigStore_LoadHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[data]
root = "commits"

[download]
mode = "sequential"
concurrency = 2
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "commits", store.GetString("data.root"))
	assert.Equal(t, "sequential", store.GetString("download.mode"))
	assert.Equal(t, 2, store.GetInt("download.concurrency"))
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Load())

	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(""), 0600))

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[[[ not toml"), 0600))

	_, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}

	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("k", "v"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("download.concurrency", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("download.concurrency")
		}()
	}
	wg.Wait()

	_, ok := store.Get("download.concurrency")
	assert.True(t, ok)
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"data.root":     "data",
		"download.mode": "concurrent",
		"top":           1,
	})

	assert.Equal(t, map[string]any{
		"data":     map[string]any{"root": "data"},
		"download": map[string]any{"mode": "concurrent"},
		"top":      1,
	}, nested)

	assert.Equal(t, map[string]any{
		"data.root":     "data",
		"download.mode": "concurrent",
		"top":           1,
	}, flattenMap(nested, ""))
}
