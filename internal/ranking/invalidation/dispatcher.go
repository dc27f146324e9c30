package invalidation

import (
	"context"

	"anoa.com/sanggarseni/internal/ranking/rankcache"
	"anoa.com/sanggarseni/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Event kinds. Every mutating write path constructs one of these and calls
// Dispatcher.OnMutation after commit; there is no implicit dispatch.
const (
	EventItemCreated        = "item_created"
	EventItemUpdated        = "item_updated"
	EventItemDeleted        = "item_deleted"
	EventInteractionAdded   = "interaction_added"
	EventInteractionRemoved = "interaction_removed"
	EventMembershipChanged  = "membership_changed"
	EventFollowChanged      = "follow_changed"
)

// Interaction kinds carried on interaction events.
const (
	InteractionHeart    = "heart"
	InteractionPraise   = "praise"
	InteractionTrophy   = "trophy"
	InteractionAward    = "award"
	InteractionComment  = "comment"
	InteractionCritique = "critique"
)

// Event describes one content or interaction mutation.
type Event struct {
	Kind            string
	ItemKind        string    // "post" or "gallery"
	ItemID          uuid.UUID // the affected item, if any
	InteractionKind string    // set on interaction events
	ActorID         uuid.UUID // the user whose personalized ranking inputs changed
	UserID          uuid.UUID // affected user on membership/follow events
}

// Dispatcher applies the minimum-necessary invalidation for each mutation:
// item mutations drop the item's detail and list caches, count-bearing
// interactions drop only the narrow per-item count cache, and anything that
// changes a user's own ranking inputs drops their derived facts and bumps
// their calculation version.
type Dispatcher struct {
	redisClient *redis.Client
	derived     *rankcache.DerivedCache
	versions    *rankcache.VersionRegister
}

func NewDispatcher(redisClient *redis.Client, derived *rankcache.DerivedCache, versions *rankcache.VersionRegister) *Dispatcher {
	return &Dispatcher{
		redisClient: redisClient,
		derived:     derived,
		versions:    versions,
	}
}

// OnMutation is the dispatcher entry point.
func (d *Dispatcher) OnMutation(ctx context.Context, ev Event) {
	switch ev.Kind {
	case EventItemCreated, EventItemUpdated, EventItemDeleted:
		d.invalidateItem(ctx, ev.ItemKind, ev.ItemID)

	case EventInteractionAdded, EventInteractionRemoved:
		switch ev.InteractionKind {
		case InteractionComment, InteractionCritique:
			// Comments and critiques change the rendered item, not just a counter
			d.invalidateItem(ctx, ev.ItemKind, ev.ItemID)
		default:
			d.invalidateItemCounts(ctx, ev.ItemKind, ev.ItemID)
		}
		if ev.ActorID != uuid.Nil {
			d.InvalidateUser(ctx, ev.ActorID)
		}

	case EventMembershipChanged:
		if err := d.redisClient.Del(ctx, rankcache.UserJoinedCollectivesKey(ev.UserID)).Err(); err != nil {
			logger.L().Warn("membership cache invalidation failed", zap.Error(err))
		}
		d.InvalidateUser(ctx, ev.UserID)

	case EventFollowChanged:
		d.InvalidateUser(ctx, ev.UserID)

	default:
		logger.L().Warn("unknown mutation event", zap.String("kind", ev.Kind))
	}
}

// InvalidateUser drops the user's derived facts and bumps their calculation
// version. Old personalized feed pages become unreachable immediately and
// expire by TTL; nothing enumerates them.
func (d *Dispatcher) InvalidateUser(ctx context.Context, userID uuid.UUID) {
	d.derived.Invalidate(ctx, userID)
	d.versions.Bump(ctx, userID)
}

// invalidateItem drops the item's detail cache and every cached list page for
// its kind via SCAN pattern deletion.
func (d *Dispatcher) invalidateItem(ctx context.Context, itemKind string, itemID uuid.UUID) {
	if err := d.redisClient.Del(ctx, rankcache.ItemDetailKey(itemKind, itemID)).Err(); err != nil {
		logger.L().Warn("detail cache invalidation failed", zap.Error(err))
	}

	iter := d.redisClient.Scan(ctx, 0, rankcache.ListPattern(itemKind), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.L().Warn("list cache scan failed", zap.String("item_kind", itemKind), zap.Error(err))
		return
	}
	if len(keys) > 0 {
		if err := d.redisClient.Del(ctx, keys...).Err(); err != nil {
			logger.L().Warn("list cache invalidation failed", zap.Error(err))
		}
	}
}

// invalidateItemCounts drops only the narrow per-item count hash.
func (d *Dispatcher) invalidateItemCounts(ctx context.Context, itemKind string, itemID uuid.UUID) {
	if err := d.redisClient.Del(ctx, rankcache.ItemCountsKey(itemKind, itemID)).Err(); err != nil {
		logger.L().Warn("count cache invalidation failed", zap.Error(err))
	}
}
