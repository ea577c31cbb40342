package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSuspensionStoreContract runs a suite of tests to verify that a
// SuspensionStore implementation adheres to the defined interface contract.
func RunSuspensionStoreContract(t *testing.T, store SuspensionStore) {
	ctx := context.Background()
	executionID := "contract-test-" + time.Now().Format("20060102150405")

	newSnapshot := func(id string) *domain.Suspension {
		return &domain.Suspension{
			ExecutionID:    id,
			ConversationID: "intro",
			NodeID:         "ask",
			Presentation: domain.Presentation{
				Kind:   domain.PresentChoice,
				NodeID: "ask",
				Text:   "Tea or coffee?",
				Options: []domain.Option{
					{Index: 0, Label: "Tea", Port: "tea"},
					{Index: 1, Label: "Coffee", Port: "coffee"},
				},
			},
			Results:   map[string]any{"check": true},
			History:   []string{"start", "check", "ask"},
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		snap := newSnapshot(executionID)

		err := store.Save(ctx, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, executionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.NodeID, loaded.NodeID)
		assert.Equal(t, snap.ConversationID, loaded.ConversationID)
		assert.Equal(t, snap.Presentation.Options, loaded.Presentation.Options)
		assert.Equal(t, snap.History, loaded.History)
		assert.Equal(t, true, loaded.Results["check"])
		assert.True(t, snap.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+executionID)
		assert.ErrorIs(t, err, domain.ErrSuspensionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, newSnapshot(executionID))
		require.NoError(t, err)

		err = store.Delete(ctx, executionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, executionID)
		assert.ErrorIs(t, err, domain.ErrSuspensionNotFound, "Load after Delete should return ErrSuspensionNotFound")

		assert.NoError(t, store.Delete(ctx, executionID), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := executionID + "-1"
		id2 := executionID + "-2"
		require.NoError(t, store.Save(ctx, newSnapshot(id1)))
		require.NoError(t, store.Save(ctx, newSnapshot(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
