package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	store, err := NewRedisStore("redis://" + s.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, s
}

func TestNewRedisStore(t *testing.T) {
	store, _ := setupTestRedis(t)

	assert.NoError(t, store.Ping(context.Background()))
}

func TestNewRedisStoreBadURL(t *testing.T) {
	_, err := NewRedisStore("not a url")

	assert.Error(t, err)
}

func TestRedisSaveAndActive(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "jti-1", time.Now().Add(time.Hour)))

	active, err := store.Active(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, active)

	active, err = store.Active(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestRedisSessionExpires(t *testing.T) {
	store, s := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "short", time.Now().Add(time.Second)))
	s.FastForward(2 * time.Second)

	active, err := store.Active(ctx, "short")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestRedisSaveAlreadyExpiredIsNoop(t *testing.T) {
	store, s := setupTestRedis(t)

	require.NoError(t, store.Save(context.Background(), "old", time.Now().Add(-time.Minute)))

	assert.False(t, s.Exists("admin-session:old"))
}

func TestRedisRevoke(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()
	expiresAt := time.Now().Add(time.Hour)

	require.NoError(t, store.Save(ctx, "a", expiresAt))
	require.NoError(t, store.Save(ctx, "b", expiresAt))
	require.NoError(t, store.Revoke(ctx, "a"))
	require.NoError(t, store.Revoke(ctx, "never-saved"))

	active, err := store.Active(ctx, "a")
	require.NoError(t, err)
	assert.False(t, active)

	active, err = store.Active(ctx, "b")
	require.NoError(t, err)
	assert.True(t, active)
}
