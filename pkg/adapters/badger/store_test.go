package badger_test

import (
	"context"
	"testing"

	"github.com/aretw0/regolith/pkg/adapters/badger"
	"github.com/aretw0/regolith/pkg/domain"
	"github.com/aretw0/regolith/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openInMemory(t *testing.T) *badger.Store {
	t.Helper()
	store, err := badger.Open(badger.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBadgerFrameStore_Contract(t *testing.T) {
	ports.RunFrameStoreContract(t, openInMemory(t))
}

func TestBadgerFrameStore_StepOrderAcrossDigits(t *testing.T) {
	store := openInMemory(t)
	ctx := context.Background()

	for _, step := range []int{10, 9, 100, 2} {
		require.NoError(t, store.Save(ctx, domain.NewFrame("digits", step, 0, 1, 1, []domain.NodeState{0})))
	}
	steps, err := store.List(ctx, "digits")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 9, 10, 100}, steps)
}

func TestBadgerFrameStore_PrefixRunsDoNotMix(t *testing.T) {
	store := openInMemory(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewFrame("run", 0, 0, 1, 1, []domain.NodeState{0})))
	require.NoError(t, store.Save(ctx, domain.NewFrame("run-2", 0, 0, 1, 1, []domain.NodeState{1})))

	require.NoError(t, store.Delete(ctx, "run"))

	runs, err := store.Runs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-2"}, runs)
}

func TestBadgerFrameStore_SlashRunIDRejected(t *testing.T) {
	store := openInMemory(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewFrame("a", 0, 0, 1, 1, []domain.NodeState{0})))
	err := store.Save(ctx, domain.NewFrame("a/b", 7, 0, 1, 1, []domain.NodeState{1}))
	assert.ErrorIs(t, err, domain.ErrInvalidRunID)

	steps, err := store.List(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []int{0}, steps)
	runs, err := store.Runs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, runs)
}

func TestBadgerFrameStore_Persistent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	cfg := badger.DefaultConfig(dir)
	cfg.GCInterval = 0
	store, err := badger.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, domain.NewFrame("disk", 1, 0.5, 1, 2, []domain.NodeState{1, 0})))
	require.NoError(t, store.Close())

	store, err = badger.Open(cfg)
	require.NoError(t, err)
	defer store.Close()

	frame, err := store.Load(ctx, "disk", 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.NodeState{1, 0}, frame.States)
}

func TestBadgerOpen_RequiresDir(t *testing.T) {
	_, err := badger.Open(badger.Config{})
	assert.Error(t, err)
}
