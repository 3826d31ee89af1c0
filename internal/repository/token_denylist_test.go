package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDenylist(t *testing.T) (*TokenDenylist, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTokenDenylist(client), s
}

func TestTokenDenylistRevokeAndExpire(t *testing.T) {
	denylist, s := newDenylist(t)
	ctx := context.Background()

	revoked, err := denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, denylist.Revoke(ctx, "jti-1", time.Now().Add(10*time.Minute)))
	revoked, err = denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.InDelta(t, (10 * time.Minute).Seconds(), s.TTL(denylistPrefix+"jti-1").Seconds(), 2)

	s.FastForward(11 * time.Minute)
	revoked, err = denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenDenylistIgnoresExpiredTokens(t *testing.T) {
	denylist, s := newDenylist(t)

	require.NoError(t, denylist.Revoke(context.Background(), "old", time.Now().Add(-time.Minute)))
	assert.False(t, s.Exists(denylistPrefix+"old"))
}

func TestTokenDenylistSurfacesOutages(t *testing.T) {
	denylist, s := newDenylist(t)
	s.Close()

	_, err := denylist.IsRevoked(context.Background(), "jti")
	assert.Error(t, err)
}
