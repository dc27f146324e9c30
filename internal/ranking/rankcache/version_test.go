package rankcache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestVersionRegisterDefault(t *testing.T) {
	_, client := newTestRedis(t)
	reg := NewVersionRegister(client)

	got := reg.Get(context.Background(), uuid.New())
	assert.Equal(t, int64(1), got)
}

func TestVersionRegisterBumpFromAbsent(t *testing.T) {
	mr, client := newTestRedis(t)
	reg := NewVersionRegister(client)
	ctx := context.Background()
	userID := uuid.New()

	// A bump of an absent counter must land on 2, not 1: readers that never
	// saw the counter already assumed version 1.
	reg.Bump(ctx, userID)
	assert.Equal(t, int64(2), reg.Get(ctx, userID))

	reg.Bump(ctx, userID)
	reg.Bump(ctx, userID)
	assert.Equal(t, int64(4), reg.Get(ctx, userID))

	ttl := mr.TTL(CalcVersionKey(userID))
	assert.Greater(t, ttl.Hours(), 23.0)
}

func TestVersionRegisterExpiry(t *testing.T) {
	mr, client := newTestRedis(t)
	reg := NewVersionRegister(client)
	ctx := context.Background()
	userID := uuid.New()

	reg.Bump(ctx, userID)
	require.Equal(t, int64(2), reg.Get(ctx, userID))

	mr.FastForward(versionTTL + 1)

	// After expiry the counter falls back to the default.
	assert.Equal(t, int64(1), reg.Get(ctx, userID))
}

func TestVersionRegisterFailOpen(t *testing.T) {
	mr, client := newTestRedis(t)
	reg := NewVersionRegister(client)
	mr.Close()

	got := reg.Get(context.Background(), uuid.New())
	assert.Equal(t, int64(1), got)
}
