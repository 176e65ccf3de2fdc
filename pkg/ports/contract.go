package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/tap-socrata/pkg/singer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore
// implementation adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	runID := "contract-test-run-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := singer.NewState()
		state.SetBookmark("chicago_crimes_ijzp_q8t2", singer.Bookmark{
			ReplicationKey:      "_data_updated_at",
			ReplicationKeyValue: "2026-08-01T12:00:00Z",
		})

		err := store.Save(ctx, runID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")

		bookmark, ok := loaded.Bookmark("chicago_crimes_ijzp_q8t2")
		require.True(t, ok, "bookmark should survive the round trip")
		assert.Equal(t, "_data_updated_at", bookmark.ReplicationKey)
		assert.Equal(t, "2026-08-01T12:00:00Z", bookmark.ReplicationKeyValue)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, ErrStateNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, runID, singer.NewState())
		require.NoError(t, err)

		err = store.Delete(ctx, runID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, runID)
		assert.ErrorIs(t, err, ErrStateNotFound, "Load after Delete should return ErrStateNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		_ = store.Save(ctx, id1, singer.NewState())
		_ = store.Save(ctx, id2, singer.NewState())

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		runs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, runs, id1)
		assert.Contains(t, runs, id2)
	})
}
