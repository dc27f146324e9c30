package service

import (
	"context"
	"testing"

	"anoa.com/sanggarseni/internal/entity"
	galleryRepo "anoa.com/sanggarseni/internal/modules/gallery/repository"
	interactionRepo "anoa.com/sanggarseni/internal/modules/interaction/repository"
	postRepo "anoa.com/sanggarseni/internal/modules/post/repository"
	"anoa.com/sanggarseni/internal/ranking/invalidation"
	"anoa.com/sanggarseni/internal/ranking/rankcache"
	"anoa.com/sanggarseni/pkg/apperror"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type interactionFixture struct {
	db      *gorm.DB
	mr      *miniredis.Miniredis
	client  *redis.Client
	service InteractionService
}

func newInteractionFixture(t *testing.T) *interactionFixture {
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
		&entity.Gallery{},
		&entity.Heart{},
		&entity.Praise{},
		&entity.Trophy{},
		&entity.GalleryAward{},
		&entity.Comment{},
		&entity.Critique{},
	))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	derived := rankcache.NewDerivedCache(client, rankcache.NewFactsRepository(db))
	versions := rankcache.NewVersionRegister(client)
	dispatcher := invalidation.NewDispatcher(client, derived, versions)

	svc := NewInteractionService(
		interactionRepo.NewRepository(db),
		postRepo.NewPostRepository(db),
		galleryRepo.NewGalleryRepository(db),
		client,
		dispatcher,
		nil,
	)

	return &interactionFixture{db: db, mr: mr, client: client, service: svc}
}

func (f *interactionFixture) createUser(t *testing.T, username string) *entity.User {
	t.Helper()
	user := &entity.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *interactionFixture) createPost(t *testing.T, author *entity.User) *entity.Post {
	t.Helper()
	post := &entity.Post{AuthorID: author.ID, Title: "t", Content: "c", PostType: entity.PostTypeDefault}
	require.NoError(t, f.db.Create(post).Error)
	return post
}

func TestToggleHeart(t *testing.T) {
	f := newInteractionFixture(t)
	ctx := context.Background()

	author := f.createUser(t, "author")
	actor := f.createUser(t, "actor")
	post := f.createPost(t, author)

	active, err := f.service.ToggleHeart(ctx, actor.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, active)

	counts, err := f.service.GetItemCounts(ctx, entity.ItemKindPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["heart"])

	// Toggling again removes the heart.
	active, err = f.service.ToggleHeart(ctx, actor.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, active)

	counts, err = f.service.GetItemCounts(ctx, entity.ItemKindPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts["heart"])
}

func TestToggleHeartUnknownPost(t *testing.T) {
	f := newInteractionFixture(t)

	actor := f.createUser(t, "actor")
	_, err := f.service.ToggleHeart(context.Background(), actor.ID, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestToggleHeartBumpsActorVersion(t *testing.T) {
	f := newInteractionFixture(t)
	ctx := context.Background()

	author := f.createUser(t, "author")
	actor := f.createUser(t, "actor")
	post := f.createPost(t, author)

	_, err := f.service.ToggleHeart(ctx, actor.ID, post.ID)
	require.NoError(t, err)

	version, err := f.client.Get(ctx, rankcache.CalcVersionKey(actor.ID)).Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestCountCacheInvalidatedOnToggle(t *testing.T) {
	f := newInteractionFixture(t)
	ctx := context.Background()

	author := f.createUser(t, "author")
	actor := f.createUser(t, "actor")
	actor2 := f.createUser(t, "actor2")
	post := f.createPost(t, author)

	_, err := f.service.ToggleHeart(ctx, actor.ID, post.ID)
	require.NoError(t, err)

	_, err = f.service.GetItemCounts(ctx, entity.ItemKindPost, post.ID)
	require.NoError(t, err)

	countsKey := rankcache.ItemCountsKey(entity.ItemKindPost, post.ID)
	require.True(t, f.mr.Exists(countsKey))

	// A second actor's heart drops the hash; the next read rebuilds it.
	_, err = f.service.ToggleHeart(ctx, actor2.ID, post.ID)
	require.NoError(t, err)
	require.False(t, f.mr.Exists(countsKey))

	counts, err := f.service.GetItemCounts(ctx, entity.ItemKindPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts["heart"])
}

func TestAddCommentAndCritiqueCounts(t *testing.T) {
	f := newInteractionFixture(t)
	ctx := context.Background()

	author := f.createUser(t, "author")
	actor := f.createUser(t, "actor")
	post := f.createPost(t, author)

	_, err := f.service.AddComment(ctx, actor.ID, entity.ItemKindPost, post.ID, "nice lines", false)
	require.NoError(t, err)

	// Critique-thread replies never count as comments.
	_, err = f.service.AddComment(ctx, actor.ID, entity.ItemKindPost, post.ID, "re: critique", true)
	require.NoError(t, err)

	_, err = f.service.AddCritique(ctx, actor.ID, post.ID, "the shading is flat", entity.ImpressionNegative)
	require.NoError(t, err)

	counts, err := f.service.GetItemCounts(ctx, entity.ItemKindPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["comment"])
	assert.Equal(t, int64(1), counts["negative_critique"])
}

func TestDeleteCommentOnlyByAuthor(t *testing.T) {
	f := newInteractionFixture(t)
	ctx := context.Background()

	author := f.createUser(t, "author")
	actor := f.createUser(t, "actor")
	other := f.createUser(t, "other")
	post := f.createPost(t, author)

	comment, err := f.service.AddComment(ctx, actor.ID, entity.ItemKindPost, post.ID, "hello", false)
	require.NoError(t, err)

	err = f.service.DeleteComment(ctx, other.ID, comment.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, f.service.DeleteComment(ctx, actor.ID, comment.ID))

	counts, err := f.service.GetItemCounts(ctx, entity.ItemKindPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts["comment"])
}

func TestGiveTrophyRejectsOwnPost(t *testing.T) {
	f := newInteractionFixture(t)

	author := f.createUser(t, "author")
	post := f.createPost(t, author)

	err := f.service.GiveTrophy(context.Background(), author.ID, post.ID, entity.TierBronze)
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestGiveTrophyRejectsUnknownTier(t *testing.T) {
	f := newInteractionFixture(t)

	author := f.createUser(t, "author")
	actor := f.createUser(t, "actor")
	post := f.createPost(t, author)

	err := f.service.GiveTrophy(context.Background(), actor.ID, post.ID, "platinum")
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}
