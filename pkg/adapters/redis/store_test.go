package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/regolith/pkg/adapters/redis"
	"github.com/aretw0/regolith/pkg/domain"
	"github.com/aretw0/regolith/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisFrameStore_Contract(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	ports.RunFrameStoreContract(t, store)
}

func TestRedisFrameStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	frame := domain.NewFrame("run-ttl", 0, 0, 1, 2, []domain.NodeState{0, 1})
	require.NoError(t, store.Save(ctx, frame))

	runs, err := store.Runs(ctx)
	require.NoError(t, err)
	assert.Contains(t, runs, "run-ttl")

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "run-ttl", 0)
	assert.ErrorIs(t, err, domain.ErrFrameNotFound)

	_, err = store.List(ctx, "run-ttl")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	runs, err = store.Runs(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRedisFrameStore_Prefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewFrame("my-run", 7, 3.5, 1, 1, []domain.NodeState{1})))

	assert.True(t, mr.Exists("custom:app:my-run:7"), "Expected frame key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:my-run:index"), "Expected step index with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected run index with custom prefix to exist")

	require.NoError(t, store.Ping(ctx))
}

func TestRedisFrameStore_StatesArePacked(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewFrame("packed", 0, 0, 1, 4, []domain.NodeState{0, 1, 1, 0})))

	raw, err := mr.Get(redis.DefaultPrefix + "packed:0")
	require.NoError(t, err)
	assert.Contains(t, raw, `"states":"AAEBAA=="`)
}
