package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/regolith/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunFrameStoreContract runs a suite of tests to verify that a FrameStore implementation
// adheres to the defined interface contract.
func RunFrameStoreContract(t *testing.T, store FrameStore) {
	ctx := context.Background()
	runID := "contract-run-" + time.Now().Format("20060102150405")

	frame := func(id string, step int) *domain.Frame {
		states := []domain.NodeState{0, 1, 1, 0, 0, 1}
		return domain.NewFrame(id, step, float64(step)*0.5, 2, 3, states)
	}

	t.Run("Save and Load", func(t *testing.T) {
		in := frame(runID, 3)

		err := store.Save(ctx, in)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID, 3)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, in.RunID, loaded.RunID)
		assert.Equal(t, in.Step, loaded.Step)
		assert.InDelta(t, in.Time, loaded.Time, 1e-12)
		assert.Equal(t, in.Rows, loaded.Rows)
		assert.Equal(t, in.Cols, loaded.Cols)
		assert.Equal(t, in.States, loaded.States)
	})

	t.Run("Isolation", func(t *testing.T) {
		in := frame(runID, 4)
		require.NoError(t, store.Save(ctx, in))

		// Mutating the saved frame must not leak into the store.
		in.States[0] = domain.Saprolite

		loaded, err := store.Load(ctx, runID, 4)
		require.NoError(t, err)
		assert.Equal(t, domain.Rock, loaded.States[0])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, runID, 999)
		assert.ErrorIs(t, err, domain.ErrFrameNotFound)
	})

	t.Run("List", func(t *testing.T) {
		id := runID + "-list"
		for _, step := range []int{2, 0, 1} {
			require.NoError(t, store.Save(ctx, frame(id, step)))
		}
		defer func() { _ = store.Delete(ctx, id) }()

		steps, err := store.List(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2}, steps)

		_, err = store.List(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Runs", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		require.NoError(t, store.Save(ctx, frame(id1, 0)))
		require.NoError(t, store.Save(ctx, frame(id2, 0)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		runs, err := store.Runs(ctx)
		require.NoError(t, err)
		assert.Contains(t, runs, id1)
		assert.Contains(t, runs, id2)
	})

	t.Run("Delete", func(t *testing.T) {
		id := runID + "-delete"
		require.NoError(t, store.Save(ctx, frame(id, 0)))
		require.NoError(t, store.Save(ctx, frame(id, 1)))

		err := store.Delete(ctx, id)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, id, 0)
		assert.ErrorIs(t, err, domain.ErrFrameNotFound, "Load after Delete should return ErrFrameNotFound")

		runs, err := store.Runs(ctx)
		require.NoError(t, err)
		assert.NotContains(t, runs, id)
	})

	t.Run("Invalid Run ID", func(t *testing.T) {
		err := store.Save(ctx, frame("a/b", 0))
		assert.ErrorIs(t, err, domain.ErrInvalidRunID, "Save should reject a run id with a separator")

		_, err = store.List(ctx, "a:b")
		assert.ErrorIs(t, err, domain.ErrInvalidRunID)

		_, err = store.Load(ctx, "", 0)
		assert.ErrorIs(t, err, domain.ErrInvalidRunID)
	})
}
