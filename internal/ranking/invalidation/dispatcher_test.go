package invalidation

import (
	"context"
	"testing"
	"time"

	"anoa.com/sanggarseni/internal/ranking/rankcache"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopFactsRepo struct{}

func (noopFactsRepo) FellowIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func (noopFactsRepo) JoinedCollectiveIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func (noopFactsRepo) InteractionStats(ctx context.Context, userID uuid.UUID) (*rankcache.InteractionStats, error) {
	return &rankcache.InteractionStats{}, nil
}

func newTestDispatcher(t *testing.T) (*miniredis.Miniredis, *redis.Client, *Dispatcher) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	derived := rankcache.NewDerivedCache(client, noopFactsRepo{})
	versions := rankcache.NewVersionRegister(client)
	return mr, client, NewDispatcher(client, derived, versions)
}

func seed(t *testing.T, mr *miniredis.Miniredis, keys ...string) {
	t.Helper()
	for _, key := range keys {
		require.NoError(t, mr.Set(key, "x"))
	}
}

func TestItemEventDropsDetailAndListPages(t *testing.T) {
	mr, _, d := newTestDispatcher(t)
	ctx := context.Background()
	postID := uuid.New()

	detailKey := rankcache.ItemDetailKey("post", postID)
	listKey := rankcache.PostListKey(rankcache.AnonSegment, 1, 1, 20)
	otherList := rankcache.PostListKey(uuid.New().String(), 2, 1, 20)
	galleryList := "gallery_list:anon:calc_v1:1:20"
	seed(t, mr, detailKey, listKey, otherList, galleryList)

	d.OnMutation(ctx, Event{Kind: EventItemCreated, ItemKind: "post", ItemID: postID})

	assert.False(t, mr.Exists(detailKey))
	assert.False(t, mr.Exists(listKey))
	assert.False(t, mr.Exists(otherList))
	// Gallery list pages are untouched by a post mutation.
	assert.True(t, mr.Exists(galleryList))
}

func TestCountingInteractionDropsOnlyCounts(t *testing.T) {
	mr, _, d := newTestDispatcher(t)
	ctx := context.Background()
	postID := uuid.New()
	actorID := uuid.New()

	countsKey := rankcache.ItemCountsKey("post", postID)
	detailKey := rankcache.ItemDetailKey("post", postID)
	listKey := rankcache.PostListKey(rankcache.AnonSegment, 1, 1, 20)
	seed(t, mr, countsKey, detailKey, listKey)

	d.OnMutation(ctx, Event{
		Kind:            EventInteractionAdded,
		ItemKind:        "post",
		ItemID:          postID,
		InteractionKind: InteractionHeart,
		ActorID:         actorID,
	})

	assert.False(t, mr.Exists(countsKey))
	// A heart does not change the rendered item or any list page.
	assert.True(t, mr.Exists(detailKey))
	assert.True(t, mr.Exists(listKey))
}

func TestCommentInvalidatesLikeItemMutation(t *testing.T) {
	mr, _, d := newTestDispatcher(t)
	ctx := context.Background()
	postID := uuid.New()

	detailKey := rankcache.ItemDetailKey("post", postID)
	listKey := rankcache.PostListKey(rankcache.AnonSegment, 1, 1, 20)
	seed(t, mr, detailKey, listKey)

	d.OnMutation(ctx, Event{
		Kind:            EventInteractionAdded,
		ItemKind:        "post",
		ItemID:          postID,
		InteractionKind: InteractionComment,
		ActorID:         uuid.New(),
	})

	assert.False(t, mr.Exists(detailKey))
	assert.False(t, mr.Exists(listKey))
}

func TestInteractionBumpsActorVersion(t *testing.T) {
	mr, client, d := newTestDispatcher(t)
	ctx := context.Background()
	actorID := uuid.New()

	statsKey := rankcache.UserInteractionStatsKey(actorID)
	seed(t, mr, statsKey)

	d.OnMutation(ctx, Event{
		Kind:            EventInteractionAdded,
		ItemKind:        "post",
		ItemID:          uuid.New(),
		InteractionKind: InteractionPraise,
		ActorID:         actorID,
	})

	assert.False(t, mr.Exists(statsKey))

	version, err := client.Get(ctx, rankcache.CalcVersionKey(actorID)).Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestMembershipChangeDropsCollectivesAndBumps(t *testing.T) {
	mr, client, d := newTestDispatcher(t)
	ctx := context.Background()
	userID := uuid.New()

	collectivesKey := rankcache.UserJoinedCollectivesKey(userID)
	fellowsKey := rankcache.UserFellowsKey(userID)
	seed(t, mr, collectivesKey, fellowsKey)

	d.OnMutation(ctx, Event{Kind: EventMembershipChanged, UserID: userID})

	assert.False(t, mr.Exists(collectivesKey))
	assert.False(t, mr.Exists(fellowsKey))

	version, err := client.Get(ctx, rankcache.CalcVersionKey(userID)).Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	ttl := mr.TTL(rankcache.CalcVersionKey(userID))
	assert.InDelta(t, (24 * time.Hour).Seconds(), ttl.Seconds(), 5)
}

func TestFollowChangeBumpsFollower(t *testing.T) {
	mr, client, d := newTestDispatcher(t)
	ctx := context.Background()
	followerID := uuid.New()

	fellowsKey := rankcache.UserFellowsKey(followerID)
	seed(t, mr, fellowsKey)

	d.OnMutation(ctx, Event{Kind: EventFollowChanged, UserID: followerID})

	assert.False(t, mr.Exists(fellowsKey))

	version, err := client.Get(ctx, rankcache.CalcVersionKey(followerID)).Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}
