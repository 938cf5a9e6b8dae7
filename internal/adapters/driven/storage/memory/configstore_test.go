package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
)

func TestConfigStore_InterfaceCompliance(t *testing.T) {
	var _ driven.ConfigStore = NewConfigStore()
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("key1", "value1"))
	require.NoError(t, store.Set("key1", "updated"))

	val, ok := store.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, "updated", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("str", "hello")
	_ = store.Set("int", 42)
	_ = store.Set("int64", int64(1<<40))
	_ = store.Set("float", float64(7))
	_ = store.Set("bool", true)
	_ = store.Set("slice", []any{"a", 1, "b"})

	assert.Equal(t, "hello", store.GetString("str"))
	assert.Equal(t, "", store.GetString("int"))
	assert.Equal(t, 42, store.GetInt("int"))
	assert.Equal(t, int64(1<<40), store.GetInt64("int64"))
	assert.Equal(t, 7, store.GetInt("float"))
	assert.Equal(t, 0, store.GetInt("str"))
	assert.True(t, store.GetBool("bool"))
	assert.False(t, store.GetBool("str"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("slice"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_Keys(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("types.md", "text/markdown")
	_ = store.Set("types.log", "text/plain")
	_ = store.Set("limits.max_depth", 3)

	assert.Equal(t, []string{"types.log", "types.md"}, store.Keys("types."))
	assert.Len(t, store.Keys(""), 3)
	assert.Empty(t, store.Keys("batch."))
}

func TestConfigStore_SaveLoadPath(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := "key" + string(rune('a'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.Keys("key")
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Keys("key"), 20)
}
