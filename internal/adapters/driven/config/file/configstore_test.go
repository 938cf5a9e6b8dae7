package file

import (
	"fmt"
	"os"
	"path/filepath"
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

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	store, err := NewConfigStore("")

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(home, ".attachtext", "config.toml"), store.Path())

	// Cleanup
	_ = os.Remove(store.Path())
}

func TestConfigStore_SetPersistsImmediately(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("types.msg", "application/vnd.ms-outlook"))

	val, ok := store.Get("types.msg")
	assert.True(t, ok)
	assert.Equal(t, "application/vnd.ms-outlook", val)

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "application/vnd.ms-outlook")
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("types.ext%d", i)
			_ = store.Set(key, "text/plain")
			_ = store.GetString(key)
			_ = store.Keys("types.")
		}()
	}
	wg.Wait()

	assert.Len(t, store.Keys("types."), 10)
}

// TestNewConfigStore_LoadCorruptedFile tests error handling when loading corrupted TOML
func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()

	// Create a corrupted TOML file
	corruptedContent := []byte("this is not valid TOML {{{[[")
	err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), corruptedContent, 0600)
	require.NoError(t, err)

	// Attempting to create ConfigStore should fail due to corrupted TOML
	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_SaveReload_Settings(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("limits.max_depth", int64(4)))
	require.NoError(t, store.Set("text.default_charset", "iso-8859-2"))
	require.NoError(t, store.Set("postprocessors.enabled", []string{"controlchars", "truncate"}))
	require.NoError(t, store.Set("logging.json", true))

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, int64(4), reloaded.GetInt64("limits.max_depth"))
	assert.Equal(t, "iso-8859-2", reloaded.GetString("text.default_charset"))
	assert.Equal(t, []string{"controlchars", "truncate"}, reloaded.GetStringSlice("postprocessors.enabled"))
	assert.True(t, reloaded.GetBool("logging.json"))
}

func TestConfigStore_NestedTOML(t *testing.T) {
	tmpDir := t.TempDir()
	content := []byte(`
[limits]
max_depth = 3
max_input_bytes = 10485760

[types]
log = "text/plain"

[postprocessors]
enabled = ["controlchars", "truncate"]

[postprocessors.truncate]
max_bytes = 2048
`)
	err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), content, 0600)
	require.NoError(t, err)

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 3, store.GetInt("limits.max_depth"))
	assert.Equal(t, int64(10485760), store.GetInt64("limits.max_input_bytes"))
	assert.Equal(t, "text/plain", store.GetString("types.log"))
	assert.Equal(t, []string{"controlchars", "truncate"}, store.GetStringSlice("postprocessors.enabled"))
	assert.Equal(t, 2048, store.GetInt("postprocessors.truncate.max_bytes"))
}

func TestConfigStore_Keys(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("types.md", "text/markdown"))
	require.NoError(t, store.Set("types.log", "text/plain"))
	require.NoError(t, store.Set("limits.max_depth", 4))

	assert.Equal(t, []string{"types.log", "types.md"}, store.Keys("types."))
	assert.Empty(t, store.Keys("nothing."))
}

func TestConfigStore_YAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "attachtext.yaml")
	content := []byte(`
limits:
  max_entries: 50
  max_expanded_bytes: 1048576
text:
  default_charset: iso-8859-2
batch:
  workers: 8
logging:
  json: true
`)
	require.NoError(t, os.WriteFile(path, content, 0600))

	store, err := NewConfigStoreAt(path)
	require.NoError(t, err)

	assert.Equal(t, 50, store.GetInt("limits.max_entries"))
	assert.Equal(t, int64(1048576), store.GetInt64("limits.max_expanded_bytes"))
	assert.Equal(t, "iso-8859-2", store.GetString("text.default_charset"))
	assert.Equal(t, 8, store.GetInt("batch.workers"))
	assert.True(t, store.GetBool("logging.json"))

	require.NoError(t, store.Set("logging.level", "debug"))

	reloaded, err := NewConfigStoreAt(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", reloaded.GetString("logging.level"))
	assert.Equal(t, 50, reloaded.GetInt("limits.max_entries"))
}

func TestConfigStore_YAMLCorrupt(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("limits: [unclosed"), 0600))

	store, err := NewConfigStoreAt(path)
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_GetInt64(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	store.mu.Lock()
	store.data["int"] = 7
	store.data["int64"] = int64(1 << 40)
	store.data["float"] = float64(12)
	store.data["string"] = "12"
	store.mu.Unlock()

	assert.Equal(t, int64(7), store.GetInt64("int"))
	assert.Equal(t, int64(1<<40), store.GetInt64("int64"))
	assert.Equal(t, int64(12), store.GetInt64("float"))
	assert.Equal(t, int64(0), store.GetInt64("string"))
	assert.Equal(t, int64(0), store.GetInt64("missing"))
}
