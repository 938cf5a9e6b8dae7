package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/attachtext/internal/core/domain"
)

func TestContentStore_SaveAndGet(t *testing.T) {
	store := NewContentStore()
	ctx := context.Background()

	content := &domain.ExtractedContent{
		ID:          "id-1",
		Filename:    "txt.txt",
		ContentType: "text/plain",
		Text:        "text content\n",
		Status:      domain.StatusExtracted,
		Metadata:    map[string]string{"charset": "utf-8"},
	}
	require.NoError(t, store.Save(ctx, content))

	got, err := store.Get(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestContentStore_SaveCopiesMetadata(t *testing.T) {
	store := NewContentStore()
	ctx := context.Background()

	meta := map[string]string{"title": "before"}
	require.NoError(t, store.Save(ctx, &domain.ExtractedContent{ID: "id-1", Metadata: meta}))
	meta["title"] = "after"

	got, err := store.Get(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "before", got.Metadata["title"])
}

func TestContentStore_SaveInvalid(t *testing.T) {
	store := NewContentStore()

	assert.ErrorIs(t, store.Save(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Save(context.Background(), &domain.ExtractedContent{}), domain.ErrInvalidInput)
}

func TestContentStore_GetNotFound(t *testing.T) {
	store := NewContentStore()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContentStore_ListOrdered(t *testing.T) {
	store := NewContentStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.ExtractedContent{ID: "b", Filename: "same.txt"}))
	require.NoError(t, store.Save(ctx, &domain.ExtractedContent{ID: "a", Filename: "same.txt"}))
	require.NoError(t, store.Save(ctx, &domain.ExtractedContent{ID: "c", Filename: "alpha.txt"}))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
	assert.Equal(t, "b", list[2].ID)
}

func TestContentStore_Delete(t *testing.T) {
	store := NewContentStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.ExtractedContent{ID: "id-1"}))
	require.NoError(t, store.Delete(ctx, "id-1"))
	require.NoError(t, store.Delete(ctx, "id-1"))

	_, err := store.Get(ctx, "id-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContentStore_Concurrency(t *testing.T) {
	store := NewContentStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			c := &domain.ExtractedContent{ID: string(rune('A' + id%26)), Filename: "f"}
			_ = store.Save(ctx, c)
			_, _ = store.Get(ctx, c.ID)
			_, _ = store.List(ctx)
		}(i)
	}
	wg.Wait()

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 26)
}
