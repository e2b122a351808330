package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/toria/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunHistoryStoreContract runs a suite of tests to verify that a HistoryStore implementation
// adheres to the defined interface contract.
func RunHistoryStoreContract(t *testing.T, store HistoryStore) {
	ctx := context.Background()
	threadKey := "contract-user-" + time.Now().Format("20060102150405") + "_general"
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("Append and Load", func(t *testing.T) {
		err := store.Append(ctx, threadKey,
			domain.NewHumanMessage("Hi", at),
			domain.NewAssistantMessage("Hello! Where to?", at.Add(time.Second)),
		)
		require.NoError(t, err, "Append should not return error")

		loaded, err := store.Load(ctx, threadKey)
		require.NoError(t, err, "Load should not return error")
		require.Len(t, loaded, 2)
		assert.Equal(t, domain.RoleHuman, loaded[0].Role)
		assert.Equal(t, "Hi", loaded[0].Content)
		assert.Equal(t, domain.RoleAssistant, loaded[1].Role)
		assert.True(t, at.Equal(loaded[0].CreatedAt), "timestamps survive persistence")
	})

	t.Run("Append Preserves Order", func(t *testing.T) {
		key := threadKey + "-order"
		defer func() { _ = store.Delete(ctx, key) }()

		for i := 0; i < 5; i++ {
			require.NoError(t, store.Append(ctx, key, domain.NewHumanMessage(fmt.Sprintf("m%d", i), at)))
		}

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		require.Len(t, loaded, 5)
		for i, m := range loaded {
			assert.Equal(t, fmt.Sprintf("m%d", i), m.Content)
		}
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+threadKey)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Append(ctx, threadKey, domain.NewHumanMessage("bye", at)))

		err := store.Delete(ctx, threadKey)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, threadKey)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := threadKey + "-1"
		id2 := threadKey + "-2"
		require.NoError(t, store.Append(ctx, id1, domain.NewHumanMessage("a", at)))
		require.NoError(t, store.Append(ctx, id2, domain.NewHumanMessage("b", at)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, id1)
		assert.Contains(t, keys, id2)
	})
}
