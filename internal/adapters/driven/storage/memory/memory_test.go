package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/policyatlas/atlas-cli/internal/core/domain"
)

func TestDocumentStore(t *testing.T) {
	ctx := context.Background()

	t.Run("upsert replaces the whole document", func(t *testing.T) {
		store := NewDocumentStore()

		_, err := store.UpsertBatch(ctx, []domain.Document{{
			ID:     "F.1",
			Labels: []domain.DocumentLabelRelationship{domain.NewEntityTypeLabel("Legal case")},
		}})
		require.NoError(t, err)

		_, err = store.UpsertBatch(ctx, []domain.Document{{ID: "F.1"}})
		require.NoError(t, err)

		doc, ok := store.Get("F.1")
		require.True(t, ok)
		assert.Empty(t, doc.Labels)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("rejects documents without an id", func(t *testing.T) {
		store := NewDocumentStore()
		_, err := store.UpsertBatch(ctx, []domain.Document{{Title: "no id"}})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("injected error short-circuits", func(t *testing.T) {
		store := NewDocumentStore()
		store.UpsertErr = fmt.Errorf("boom")
		_, err := store.UpsertBatch(ctx, []domain.Document{{ID: "F.1"}})
		assert.ErrorContains(t, err, "boom")
	})
}

func TestCheckpointStore(t *testing.T) {
	ctx := context.Background()
	store := NewCheckpointStore()

	_, ok, err := store.Load(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Store(ctx, "key", "cursor-1"))
	require.NoError(t, store.Store(ctx, "key", "cursor-2"))

	cursor, ok, err := store.Load(ctx, "key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cursor-2", cursor)
}

func TestObjectStore(t *testing.T) {
	ctx := context.Background()

	t.Run("stores an independent copy of the body", func(t *testing.T) {
		store := NewObjectStore()
		body := []byte("payload")

		require.NoError(t, store.Put(ctx, "k", body, "text/plain"))
		body[0] = 'X'

		obj, ok := store.Get("k")
		require.True(t, ok)
		assert.Equal(t, "payload", string(obj.Body))
		assert.Equal(t, "text/plain", obj.ContentType)
	})

	t.Run("put replaces existing objects", func(t *testing.T) {
		store := NewObjectStore()
		require.NoError(t, store.Put(ctx, "k", []byte("one"), "text/plain"))
		require.NoError(t, store.Put(ctx, "k", []byte("two"), "text/plain"))

		obj, _ := store.Get("k")
		assert.Equal(t, "two", string(obj.Body))
		assert.Equal(t, 1, store.Len())
	})
}
