package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTable struct {
	saved   map[string]time.Time
	revoked map[string]bool
}

func (f *fakeTable) SaveAdminSession(_ context.Context, tokenID string, expiresAt time.Time) error {
	f.saved[tokenID] = expiresAt
	return nil
}

func (f *fakeTable) AdminSessionActive(_ context.Context, tokenID string) (bool, error) {
	_, ok := f.saved[tokenID]
	return ok && !f.revoked[tokenID], nil
}

func (f *fakeTable) RevokeAdminSession(_ context.Context, tokenID string) error {
	f.revoked[tokenID] = true
	return nil
}

func TestPostgresStoreDelegates(t *testing.T) {
	table := &fakeTable{saved: map[string]time.Time{}, revoked: map[string]bool{}}
	var store Store = NewPostgresStore(table)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "jti", time.Now().Add(time.Hour)))
	active, err := store.Active(ctx, "jti")
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, store.Revoke(ctx, "jti"))
	active, err = store.Active(ctx, "jti")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestMemoryStore(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "live", now.Add(time.Hour)))
	require.NoError(t, store.Save(ctx, "stale", now.Add(time.Minute)))

	active, _ := store.Active(ctx, "live")
	assert.True(t, active)

	now = now.Add(2 * time.Minute)
	active, _ = store.Active(ctx, "stale")
	assert.False(t, active)

	require.NoError(t, store.Revoke(ctx, "live"))
	active, _ = store.Active(ctx, "live")
	assert.False(t, active)
}
