package service

import (
	"context"
	"testing"
	"time"

	"anoa.com/sanggarseni/internal/entity"
	toplistRepo "anoa.com/sanggarseni/internal/modules/toplist/repository"
	"anoa.com/sanggarseni/pkg/apperror"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type toplistFixture struct {
	db      *gorm.DB
	mr      *miniredis.Miniredis
	service Service
}

func newToplistFixture(t *testing.T) *toplistFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
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

	return &toplistFixture{
		db:      db,
		mr:      mr,
		service: NewService(toplistRepo.NewRepository(db), client),
	}
}

func (f *toplistFixture) createUser(t *testing.T, username string) *entity.User {
	t.Helper()
	user := &entity.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *toplistFixture) createPost(t *testing.T, author *entity.User, title, postType string, age time.Duration) *entity.Post {
	t.Helper()
	post := &entity.Post{AuthorID: author.ID, Title: title, Content: "c", PostType: postType}
	require.NoError(t, f.db.Create(post).Error)
	require.NoError(t, f.db.Model(post).Update("created_at", time.Now().Add(-age)).Error)
	return post
}

func TestGetCachedTopBeforeGeneration(t *testing.T) {
	f := newToplistFixture(t)

	_, err := f.service.GetCachedTop(context.Background(), entity.ItemKindPost, 10, "")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGenerateAndSlice(t *testing.T) {
	f := newToplistFixture(t)
	ctx := context.Background()

	author := f.createUser(t, "author")
	fan := f.createUser(t, "fan")

	popular := f.createPost(t, author, "popular", entity.PostTypeImage, 12*time.Hour)
	require.NoError(t, f.db.Create(&entity.Heart{PostID: popular.ID, ActorID: fan.ID}).Error)
	f.createPost(t, author, "quiet", entity.PostTypeDefault, 3*24*time.Hour)

	require.NoError(t, f.service.Generate(ctx, entity.ItemKindPost, 100, ""))

	// The 100-entry cache serves every smaller limit.
	require.True(t, f.mr.Exists("global_top_posts:100"))

	top5, err := f.service.GetCachedTop(ctx, entity.ItemKindPost, 5, "")
	require.NoError(t, err)
	require.Len(t, top5, 2)
	assert.Equal(t, "popular", top5[0].Title)
	assert.Equal(t, "quiet", top5[1].Title)

	// 12h old with 1 heart: 30*0.30 + 1*0.70
	assert.InDelta(t, 9.7, top5[0].Score, 1e-9)
}

func TestGenerateIsIdempotent(t *testing.T) {
	f := newToplistFixture(t)
	ctx := context.Background()

	author := f.createUser(t, "author")
	f.createPost(t, author, "only", entity.PostTypeDefault, time.Hour)

	require.NoError(t, f.service.Generate(ctx, entity.ItemKindPost, 100, ""))
	first, err := f.service.GetCachedTop(ctx, entity.ItemKindPost, 100, "")
	require.NoError(t, err)

	require.NoError(t, f.service.Generate(ctx, entity.ItemKindPost, 100, ""))
	second, err := f.service.GetCachedTop(ctx, entity.ItemKindPost, 100, "")
	require.NoError(t, err)

	require.Len(t, second, len(first))
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestTypeFilterFallsBackToUnfilteredCache(t *testing.T) {
	f := newToplistFixture(t)
	ctx := context.Background()

	author := f.createUser(t, "author")
	f.createPost(t, author, "an image", entity.PostTypeImage, time.Hour)
	f.createPost(t, author, "a novel", entity.PostTypeNovel, time.Hour)

	require.NoError(t, f.service.Generate(ctx, entity.ItemKindPost, 100, ""))

	// No type-filtered cache exists; the unfiltered 100-cache is filtered
	// in process.
	images, err := f.service.GetCachedTop(ctx, entity.ItemKindPost, 10, entity.PostTypeImage)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "an image", images[0].Title)
}

func TestInvalidLimitClampsToMax(t *testing.T) {
	f := newToplistFixture(t)
	ctx := context.Background()

	author := f.createUser(t, "author")
	f.createPost(t, author, "post", entity.PostTypeDefault, time.Hour)

	require.NoError(t, f.service.Generate(ctx, entity.ItemKindPost, 100, ""))

	// 7 is not an allowed limit; the full cached board comes back.
	items, err := f.service.GetCachedTop(ctx, entity.ItemKindPost, 7, "")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestSoftDeletedPostsExcluded(t *testing.T) {
	f := newToplistFixture(t)
	ctx := context.Background()

	author := f.createUser(t, "author")
	f.createPost(t, author, "kept", entity.PostTypeDefault, time.Hour)
	removed := f.createPost(t, author, "removed", entity.PostTypeDefault, time.Hour)
	require.NoError(t, f.db.Model(removed).Update("is_deleted", true).Error)

	require.NoError(t, f.service.Generate(ctx, entity.ItemKindPost, 100, ""))

	items, err := f.service.GetCachedTop(ctx, entity.ItemKindPost, 100, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "kept", items[0].Title)
}

func TestGalleryLeaderboard(t *testing.T) {
	f := newToplistFixture(t)
	ctx := context.Background()

	author := f.createUser(t, "curator")
	fan := f.createUser(t, "fan")

	gallery := &entity.Gallery{AuthorID: author.ID, Title: "best inks", Scope: entity.GalleryScopePublic}
	require.NoError(t, f.db.Create(gallery).Error)
	require.NoError(t, f.db.Model(gallery).Update("created_at", time.Now().Add(-12*time.Hour)).Error)
	require.NoError(t, f.db.Create(&entity.GalleryAward{
		GalleryID: gallery.ID,
		ActorID:   fan.ID,
		Tier:      entity.TierGolden,
	}).Error)

	require.NoError(t, f.service.Generate(ctx, entity.ItemKindGallery, 100, ""))

	require.True(t, f.mr.Exists("global_top_galleries:100"))
	ttl := f.mr.TTL("global_top_galleries:100")
	assert.InDelta(t, (24 * time.Hour).Seconds(), ttl.Seconds(), 5)

	items, err := f.service.GetCachedTop(ctx, entity.ItemKindGallery, 10, "")
	require.NoError(t, err)
	require.Len(t, items, 1)

	// Golden award scores like a golden trophy: 30*0.30 + 15*0.70
	assert.InDelta(t, 19.5, items[0].Score, 1e-9)
	assert.Equal(t, gallery.ID, items[0].ID)
}

func TestPostLeaderboardTTL(t *testing.T) {
	f := newToplistFixture(t)
	ctx := context.Background()

	author := f.createUser(t, "author")
	f.createPost(t, author, "post", entity.PostTypeDefault, time.Hour)

	require.NoError(t, f.service.Generate(ctx, entity.ItemKindPost, 100, ""))

	ttl := f.mr.TTL("global_top_posts:100")
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5)

	f.mr.FastForward(time.Hour + time.Second)
	_, err := f.service.GetCachedTop(ctx, entity.ItemKindPost, 10, "")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
