package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"anoa.com/sanggarseni/internal/entity"
	feedRepo "anoa.com/sanggarseni/internal/modules/feed/repository"
	"anoa.com/sanggarseni/internal/ranking/rankcache"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type feedFixture struct {
	db       *gorm.DB
	mr       *miniredis.Miniredis
	client   *redis.Client
	service  Service
	versions *rankcache.VersionRegister
}

func newFeedFixture(t *testing.T) *feedFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Wallet{},
		&entity.UserFellow{},
		&entity.Collective{},
		&entity.Channel{},
		&entity.CollectiveMembership{},
		&entity.Post{},
		&entity.Heart{},
		&entity.Praise{},
		&entity.Trophy{},
		&entity.Comment{},
		&entity.Critique{},
	))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	factsRepo := rankcache.NewFactsRepository(db)
	derived := rankcache.NewDerivedCache(client, factsRepo)
	versions := rankcache.NewVersionRegister(client)
	svc := NewService(feedRepo.NewRepository(db), client, derived, versions)

	return &feedFixture{db: db, mr: mr, client: client, service: svc, versions: versions}
}

func (f *feedFixture) createUser(t *testing.T, username string) *entity.User {
	t.Helper()
	user := &entity.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *feedFixture) createPost(t *testing.T, author *entity.User, title string, age time.Duration, channelID *uuid.UUID) *entity.Post {
	t.Helper()
	post := &entity.Post{
		AuthorID:  author.ID,
		ChannelID: channelID,
		Title:     title,
		Content:   "content of " + title,
		PostType:  entity.PostTypeDefault,
	}
	require.NoError(t, f.db.Create(post).Error)
	// autoCreateTime stamps now; rewind explicitly for age-sensitive tests.
	createdAt := time.Now().Add(-age)
	require.NoError(t, f.db.Model(post).Update("created_at", createdAt).Error)
	post.CreatedAt = createdAt
	return post
}

func TestAnonymousFeedOrdering(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()

	author := f.createUser(t, "painter")
	fan := f.createUser(t, "fan")
	fan2 := f.createUser(t, "fan2")

	fresh := f.createPost(t, author, "fresh", 12*time.Hour, nil)
	stale := f.createPost(t, author, "stale", 3*24*time.Hour, nil)

	require.NoError(t, f.db.Create(&entity.Heart{PostID: fresh.ID, ActorID: fan.ID}).Error)
	require.NoError(t, f.db.Create(&entity.Heart{PostID: fresh.ID, ActorID: fan2.ID}).Error)

	page, err := f.service.ComputeFeed(ctx, nil, 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Data, 2)

	assert.Equal(t, fresh.ID, page.Data[0].ID)
	assert.InDelta(t, 15.3, page.Data[0].Score, 1e-9)
	assert.Equal(t, stale.ID, page.Data[1].ID)
	assert.InDelta(t, 1.0, page.Data[1].Score, 1e-9)
}

func TestCollectivePostEligibility(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()

	author := f.createUser(t, "author")
	member := f.createUser(t, "member")
	outsider := f.createUser(t, "outsider")

	collective := &entity.Collective{Name: "Inkworks", Slug: "inkworks", OwnerID: author.ID}
	require.NoError(t, f.db.Create(collective).Error)
	channel := &entity.Channel{CollectiveID: collective.ID, Name: "general"}
	require.NoError(t, f.db.Create(channel).Error)
	require.NoError(t, f.db.Create(&entity.CollectiveMembership{
		UserID:       member.ID,
		CollectiveID: collective.ID,
		Role:         entity.MembershipRoleMember,
	}).Error)

	f.createPost(t, author, "public", time.Hour, nil)
	scoped := f.createPost(t, author, "members only", time.Hour, &channel.ID)

	anonPage, err := f.service.ComputeFeed(ctx, nil, 1, 20)
	require.NoError(t, err)
	require.Len(t, anonPage.Data, 1)
	assert.Equal(t, "public", anonPage.Data[0].Title)

	outsiderPage, err := f.service.ComputeFeed(ctx, &outsider.ID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, outsiderPage.Data, 1)

	memberPage, err := f.service.ComputeFeed(ctx, &member.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, memberPage.Data, 2)

	seen := []uuid.UUID{memberPage.Data[0].ID, memberPage.Data[1].ID}
	assert.Contains(t, seen, scoped.ID)
}

func TestFellowBonusOutranksRecency(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()

	fellow := f.createUser(t, "fellow")
	stranger := f.createUser(t, "stranger")
	viewer := f.createUser(t, "viewer")

	require.NoError(t, f.db.Create(&entity.UserFellow{
		UserID:   viewer.ID,
		FellowID: fellow.ID,
		Status:   entity.FellowStatusAccepted,
	}).Error)

	// Both posts are in the stale bucket; only the fellow bonus separates them.
	fellowPost := f.createPost(t, fellow, "from a fellow", 3*24*time.Hour, nil)
	f.createPost(t, stranger, "from a stranger", 3*24*time.Hour, nil)

	page, err := f.service.ComputeFeed(ctx, &viewer.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Data, 2)

	assert.Equal(t, fellowPost.ID, page.Data[0].ID)
	assert.InDelta(t, 1.0+12.5, page.Data[0].Score, 1e-9)
}

func TestOwnPostPenalty(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()

	viewer := f.createUser(t, "viewer")
	other := f.createUser(t, "other")

	own := f.createPost(t, viewer, "mine", time.Hour, nil)
	theirs := f.createPost(t, other, "theirs", time.Hour, nil)

	page, err := f.service.ComputeFeed(ctx, &viewer.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Data, 2)

	assert.Equal(t, theirs.ID, page.Data[0].ID)
	assert.Equal(t, own.ID, page.Data[1].ID)
	assert.InDelta(t, 15.0-20.0, page.Data[1].Score, 1e-9)
}

func TestFeedPageCachedUntilVersionBump(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()

	author := f.createUser(t, "author")
	viewer := f.createUser(t, "viewer")
	f.createPost(t, author, "first", time.Hour, nil)

	page, err := f.service.ComputeFeed(ctx, &viewer.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)

	key := rankcache.PostListKey(viewer.ID.String(), 1, 1, 20)
	require.True(t, f.mr.Exists(key))

	// New data lands in the store but the cached page keeps serving.
	f.createPost(t, author, "second", time.Hour, nil)

	page, err = f.service.ComputeFeed(ctx, &viewer.ID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)

	// Bumping the viewer's calculation version orphans the old page without
	// deleting it.
	f.versions.Bump(ctx, viewer.ID)
	require.True(t, f.mr.Exists(key))

	page, err = f.service.ComputeFeed(ctx, &viewer.ID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
}

func TestAnonymousFeedSharesOneKeySpace(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()

	author := f.createUser(t, "author")
	f.createPost(t, author, "post", time.Hour, nil)

	_, err := f.service.ComputeFeed(ctx, nil, 1, 20)
	require.NoError(t, err)

	assert.True(t, f.mr.Exists("post_list:anon:calc_v1:1:20"))
}

func TestFeedPagination(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()

	author := f.createUser(t, "author")
	for i := 0; i < 5; i++ {
		f.createPost(t, author, fmt.Sprintf("post-%d", i), time.Duration(i)*time.Minute, nil)
	}

	page, err := f.service.ComputeFeed(ctx, nil, 2, 2)
	require.NoError(t, err)

	assert.Len(t, page.Data, 2)
	assert.Equal(t, 2, page.Meta.CurrentPage)
	assert.Equal(t, 3, page.Meta.TotalPages)
	assert.Equal(t, int64(5), page.Meta.TotalItems)
	assert.Equal(t, 2, page.Meta.Limit)

	// Page size is clamped to the maximum.
	clamped, err := f.service.ComputeFeed(ctx, nil, 1, 500)
	require.NoError(t, err)
	assert.Equal(t, 50, clamped.Meta.Limit)
}
