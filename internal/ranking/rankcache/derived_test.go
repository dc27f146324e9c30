package rankcache

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFactsRepo struct {
	fellows     []uuid.UUID
	collectives []uuid.UUID
	stats       *InteractionStats

	fellowCalls int
	statsCalls  int
}

func (s *stubFactsRepo) FellowIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	s.fellowCalls++
	return s.fellows, nil
}

func (s *stubFactsRepo) JoinedCollectiveIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.collectives, nil
}

func (s *stubFactsRepo) InteractionStats(ctx context.Context, userID uuid.UUID) (*InteractionStats, error) {
	s.statsCalls++
	return s.stats, nil
}

func TestDerivedCacheFellowsMemoized(t *testing.T) {
	_, client := newTestRedis(t)
	ctx := context.Background()

	fellowID := uuid.New()
	repo := &stubFactsRepo{fellows: []uuid.UUID{fellowID}}
	cache := NewDerivedCache(client, repo)
	userID := uuid.New()

	first, err := cache.GetFellows(ctx, userID)
	require.NoError(t, err)
	assert.Contains(t, first, fellowID)

	second, err := cache.GetFellows(ctx, userID)
	require.NoError(t, err)
	assert.Contains(t, second, fellowID)

	// The second read must come from the cache.
	assert.Equal(t, 1, repo.fellowCalls)
}

func TestDerivedCacheFellowsTTL(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()

	repo := &stubFactsRepo{fellows: []uuid.UUID{uuid.New()}}
	cache := NewDerivedCache(client, repo)
	userID := uuid.New()

	_, err := cache.GetFellows(ctx, userID)
	require.NoError(t, err)

	mr.FastForward(fellowsTTL + 1)

	_, err = cache.GetFellows(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.fellowCalls)
}

func TestDerivedCacheInteractionStats(t *testing.T) {
	_, client := newTestRedis(t)
	ctx := context.Background()

	authorID := uuid.New().String()
	repo := &stubFactsRepo{stats: &InteractionStats{
		AuthorCounts: map[string]int64{authorID: 3},
		TypeCounts:   map[string]int64{"image": 5},
	}}
	cache := NewDerivedCache(client, repo)
	userID := uuid.New()

	stats, err := cache.GetInteractionStats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.AuthorCounts[authorID])
	assert.Equal(t, int64(5), stats.TypeCounts["image"])

	stats, err = cache.GetInteractionStats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.TypeCounts["image"])
	assert.Equal(t, 1, repo.statsCalls)
}

func TestDerivedCacheInvalidate(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()

	repo := &stubFactsRepo{
		fellows: []uuid.UUID{uuid.New()},
		stats:   &InteractionStats{},
	}
	cache := NewDerivedCache(client, repo)
	userID := uuid.New()

	_, err := cache.GetFellows(ctx, userID)
	require.NoError(t, err)
	_, err = cache.GetInteractionStats(ctx, userID)
	require.NoError(t, err)

	require.True(t, mr.Exists(UserFellowsKey(userID)))
	require.True(t, mr.Exists(UserInteractionStatsKey(userID)))

	cache.Invalidate(ctx, userID)

	assert.False(t, mr.Exists(UserFellowsKey(userID)))
	assert.False(t, mr.Exists(UserInteractionStatsKey(userID)))
}

func TestCacheKeyFormats(t *testing.T) {
	userID := uuid.MustParse("0198a7f0-0000-7000-8000-000000000001")
	itemID := uuid.MustParse("0198a7f0-0000-7000-8000-000000000002")

	assert.Equal(t, "post_list:anon:calc_v1:1:20", PostListKey(AnonSegment, 1, 1, 20))
	assert.Equal(t,
		"post_list:"+userID.String()+":calc_v3:2:50",
		PostListKey(ViewerSegment(&userID), 3, 2, 50))

	assert.Equal(t, "global_top_posts:25", GlobalTopPostsKey(25, ""))
	assert.Equal(t, "global_top_posts:25:image", GlobalTopPostsKey(25, "image"))
	assert.Equal(t, "global_top_galleries:10", GlobalTopGalleriesKey(10))

	assert.Equal(t, "user_fellows:"+userID.String(), UserFellowsKey(userID))
	assert.Equal(t, "user_joined_collectives:"+userID.String(), UserJoinedCollectivesKey(userID))
	assert.Equal(t, "user_interaction_stats:"+userID.String(), UserInteractionStatsKey(userID))
	assert.Equal(t, "calc_version:"+userID.String(), CalcVersionKey(userID))

	assert.Equal(t, "counts:post:"+itemID.String(), ItemCountsKey("post", itemID))
	assert.Equal(t, "post_detail:"+itemID.String(), ItemDetailKey("post", itemID))
	assert.Equal(t, "post_list:*", ListPattern("post"))
}
