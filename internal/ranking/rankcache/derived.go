package rankcache

import (
	"context"
	"encoding/json"
	"time"

	"anoa.com/sanggarseni/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	fellowsTTL          = 5 * time.Minute
	collectivesTTL      = 5 * time.Minute
	interactionStatsTTL = 10 * time.Minute
)

// InteractionStats is the viewer's interaction histogram: how often they
// interacted with each author and with each post type.
type InteractionStats struct {
	AuthorCounts map[string]int64 `json:"author_counts"`
	TypeCounts   map[string]int64 `json:"type_counts"`
}

// FactsRepository loads the raw per-user aggregates from the relational store.
type FactsRepository interface {
	FellowIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	JoinedCollectiveIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	InteractionStats(ctx context.Context, userID uuid.UUID) (*InteractionStats, error)
}

// DerivedCache memoizes expensive per-user aggregates behind short TTLs.
// Every read checks redis first and recomputes from the store on miss. Cache
// errors are treated as misses and cache writes are best-effort; a concurrent
// stampede recomputes the same cheap aggregate twice, which is tolerated.
type DerivedCache struct {
	redisClient *redis.Client
	repo        FactsRepository
}

func NewDerivedCache(redisClient *redis.Client, repo FactsRepository) *DerivedCache {
	return &DerivedCache{redisClient: redisClient, repo: repo}
}

// GetFellows returns the set of accepted fellow IDs for user.
func (d *DerivedCache) GetFellows(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	key := UserFellowsKey(userID)
	if ids, ok := d.getIDSet(ctx, key); ok {
		return ids, nil
	}

	ids, err := d.repo.FellowIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	d.setIDSet(ctx, key, ids, fellowsTTL)

	return toIDSet(ids), nil
}

// GetJoinedCollectives returns the set of collective IDs the user belongs to.
func (d *DerivedCache) GetJoinedCollectives(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	key := UserJoinedCollectivesKey(userID)
	if ids, ok := d.getIDSet(ctx, key); ok {
		return ids, nil
	}

	ids, err := d.repo.JoinedCollectiveIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	d.setIDSet(ctx, key, ids, collectivesTTL)

	return toIDSet(ids), nil
}

// GetInteractionStats returns the viewer's author and type interaction histograms.
func (d *DerivedCache) GetInteractionStats(ctx context.Context, userID uuid.UUID) (*InteractionStats, error) {
	key := UserInteractionStatsKey(userID)

	if data, err := d.redisClient.Get(ctx, key).Bytes(); err == nil {
		var stats InteractionStats
		if uErr := json.Unmarshal(data, &stats); uErr == nil {
			return &stats, nil
		}
	}

	stats, err := d.repo.InteractionStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(stats); err == nil {
		if err := d.redisClient.Set(ctx, key, payload, interactionStatsTTL).Err(); err != nil {
			logger.L().Warn("interaction stats cache write failed", zap.Error(err))
		}
	}

	return stats, nil
}

// Invalidate drops all three derived entries for user. The next feed read
// recomputes them lazily.
func (d *DerivedCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	err := d.redisClient.Del(ctx,
		UserFellowsKey(userID),
		UserJoinedCollectivesKey(userID),
		UserInteractionStatsKey(userID),
	).Err()
	if err != nil {
		logger.L().Warn("derived cache invalidation failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func (d *DerivedCache) getIDSet(ctx context.Context, key string) (map[uuid.UUID]struct{}, bool) {
	data, err := d.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false
	}

	ids := make(map[uuid.UUID]struct{}, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, false
		}
		ids[id] = struct{}{}
	}
	return ids, true
}

func (d *DerivedCache) setIDSet(ctx context.Context, key string, ids []uuid.UUID, ttl time.Duration) {
	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.String())
	}

	payload, err := json.Marshal(raw)
	if err != nil {
		return
	}
	if err := d.redisClient.Set(ctx, key, payload, ttl).Err(); err != nil {
		logger.L().Warn("derived cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func toIDSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
