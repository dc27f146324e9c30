package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TopPostRow is one active post with aggregated counts for global scoring.
type TopPostRow struct {
	ID                uuid.UUID
	AuthorUsername    string
	Title             string
	PostType          string
	CreatedAt         time.Time
	Hearts            int64
	Praises           int64
	BronzeTrophies    int64
	GoldenTrophies    int64
	DiamondTrophies   int64
	PositiveCritiques int64
	NegativeCritiques int64
	NeutralCritiques  int64
	Comments          int64
}

// TopGalleryRow is one active gallery with its award and comment counts.
// Galleries have no hearts, praise or critiques.
type TopGalleryRow struct {
	ID             uuid.UUID
	AuthorUsername string
	Title          string
	CreatedAt      time.Time
	BronzeAwards   int64
	GoldenAwards   int64
	DiamondAwards  int64
	Comments       int64
}

type Repository interface {
	ActivePosts(ctx context.Context, postType string) ([]TopPostRow, error)
	ActiveGalleries(ctx context.Context) ([]TopGalleryRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

const topPostSelect = `posts.id, posts.title, posts.post_type, posts.created_at,
	users.username AS author_username,
	(SELECT COUNT(*) FROM hearts WHERE hearts.post_id = posts.id) AS hearts,
	(SELECT COUNT(*) FROM praises WHERE praises.post_id = posts.id) AS praises,
	(SELECT COUNT(*) FROM trophies WHERE trophies.post_id = posts.id AND trophies.tier = 'bronze') AS bronze_trophies,
	(SELECT COUNT(*) FROM trophies WHERE trophies.post_id = posts.id AND trophies.tier = 'golden') AS golden_trophies,
	(SELECT COUNT(*) FROM trophies WHERE trophies.post_id = posts.id AND trophies.tier = 'diamond') AS diamond_trophies,
	(SELECT COUNT(*) FROM critiques WHERE critiques.post_id = posts.id AND critiques.impression = 'positive' AND critiques.is_deleted = false) AS positive_critiques,
	(SELECT COUNT(*) FROM critiques WHERE critiques.post_id = posts.id AND critiques.impression = 'negative' AND critiques.is_deleted = false) AS negative_critiques,
	(SELECT COUNT(*) FROM critiques WHERE critiques.post_id = posts.id AND critiques.impression = 'neutral' AND critiques.is_deleted = false) AS neutral_critiques,
	(SELECT COUNT(*) FROM comments WHERE comments.item_id = posts.id AND comments.item_kind = 'post' AND comments.is_critique_reply = false AND comments.is_deleted = false) AS comments`

func (r *repository) ActivePosts(ctx context.Context, postType string) ([]TopPostRow, error) {
	query := r.db.WithContext(ctx).
		Table("posts").
		Select(topPostSelect).
		Joins("JOIN users ON users.id = posts.author_id").
		Where("posts.is_deleted = ?", false)

	if postType != "" {
		query = query.Where("posts.post_type = ?", postType)
	}

	var rows []TopPostRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

const topGallerySelect = `galleries.id, galleries.title, galleries.created_at,
	users.username AS author_username,
	(SELECT COUNT(*) FROM gallery_awards WHERE gallery_awards.gallery_id = galleries.id AND gallery_awards.tier = 'bronze') AS bronze_awards,
	(SELECT COUNT(*) FROM gallery_awards WHERE gallery_awards.gallery_id = galleries.id AND gallery_awards.tier = 'golden') AS golden_awards,
	(SELECT COUNT(*) FROM gallery_awards WHERE gallery_awards.gallery_id = galleries.id AND gallery_awards.tier = 'diamond') AS diamond_awards,
	(SELECT COUNT(*) FROM comments WHERE comments.item_id = galleries.id AND comments.item_kind = 'gallery' AND comments.is_critique_reply = false AND comments.is_deleted = false) AS comments`

func (r *repository) ActiveGalleries(ctx context.Context) ([]TopGalleryRow, error) {
	var rows []TopGalleryRow
	err := r.db.WithContext(ctx).
		Table("galleries").
		Select(topGallerySelect).
		Joins("JOIN users ON users.id = galleries.author_id").
		Where("galleries.is_deleted = ?", false).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
