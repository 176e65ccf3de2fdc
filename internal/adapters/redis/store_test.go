package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/tap-socrata/internal/adapters/redis"
	"github.com/aretw0/tap-socrata/pkg/ports"
	"github.com/aretw0/tap-socrata/pkg/singer"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.StateStore = (*redis.Store)(nil)

func newTestStore(t *testing.T, opts ...redis.Option) *redis.Store {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	return redis.NewFromClient(client, opts...)
}

func TestRedisStore_Contract(t *testing.T) {
	store := newTestStore(t)
	ports.RunStateStoreContract(t, store)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, redis.WithPrefix("custom:"))

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "nightly", singer.NewState()))

	assert.True(t, mr.Exists("custom:nightly"), "state key should use the configured prefix")
	assert.True(t, mr.Exists("custom:index"), "index key should use the configured prefix")
}

func TestRedisStore_TTL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, redis.WithTTL(time.Minute))

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "nightly", singer.NewState()))

	assert.Equal(t, time.Minute, mr.TTL("tap-socrata:state:nightly"))

	// Expire the key and the index entry; List should prune it.
	mr.FastForward(2 * time.Minute)

	runs, err := store.List(ctx)
	require.NoError(t, err)
	assert.NotContains(t, runs, "nightly")
}
