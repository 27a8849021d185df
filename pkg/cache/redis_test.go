package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStoreSetGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))
	val, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", val)
}

func TestRedisStoreTTLExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))
	mr.FastForward(61 * time.Second)

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreDeleteByPrefix(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "permissions:profile:1:module:users", "[]", time.Minute))
	require.NoError(t, store.Set(ctx, "permissions:profile:2:module:users", "[]", time.Minute))
	require.NoError(t, store.Set(ctx, "other:key", "v", time.Minute))

	require.NoError(t, store.DeleteByPrefix(ctx, "permissions:"))

	_, ok, err := store.Get(ctx, "permissions:profile:1:module:users")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Get(ctx, "other:key")
	require.NoError(t, err)
	assert.True(t, ok, "unrelated keys must survive prefix deletion")
}
