package rankcache

import (
	"context"
	"time"

	"anoa.com/sanggarseni/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	versionDefault = 1
	versionTTL     = 24 * time.Hour
)

// VersionRegister is the per-user calculation version counter. Any cache entry
// that depends on a user's derived facts embeds the current version in its
// key; bumping the counter invalidates all of them at once without touching a
// single key. Stale entries are simply never looked up again and expire by TTL.
type VersionRegister struct {
	redisClient *redis.Client
}

func NewVersionRegister(redisClient *redis.Client) *VersionRegister {
	return &VersionRegister{redisClient: redisClient}
}

// Get returns the user's current calculation version, defaulting to 1 when the
// counter is absent or the cache backend is unreachable (fail-open: a constant
// version degrades to normal caching, never to an error).
func (v *VersionRegister) Get(ctx context.Context, userID uuid.UUID) int64 {
	val, err := v.redisClient.Get(ctx, CalcVersionKey(userID)).Int64()
	if err != nil {
		if err != redis.Nil {
			logger.L().Warn("calc version read failed", zap.String("user_id", userID.String()), zap.Error(err))
		}
		return versionDefault
	}
	return val
}

// Bump advances the user's version. SETNX seeds the default so a bump of an
// absent counter lands on 2, then INCR advances atomically; concurrent bumps
// cannot lose increments.
func (v *VersionRegister) Bump(ctx context.Context, userID uuid.UUID) {
	key := CalcVersionKey(userID)
	pipe := v.redisClient.Pipeline()
	pipe.SetNX(ctx, key, versionDefault, versionTTL)
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, versionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.L().Warn("calc version bump failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
