package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CandidatePost is one eligible item with its aggregated interaction counts,
// produced by a single SQL aggregation pass.
type CandidatePost struct {
	ID                uuid.UUID
	AuthorID          uuid.UUID
	AuthorUsername    string
	AuthorAvatarURL   *string
	CollectiveID      *uuid.UUID
	Title             string
	Content           string
	PostType          string
	ImageURL          *string
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

// PostFlags marks the viewer's own interactions with one post.
type PostFlags struct {
	Hearted          bool
	Praised          bool
	TrophyTiersGiven []string
}

type Repository interface {
	// EligibleCandidates returns all non-deleted posts visible to a viewer who
	// belongs to the given collectives (public posts plus collective-scoped
	// ones), with interaction counts aggregated.
	EligibleCandidates(ctx context.Context, collectiveIDs []uuid.UUID) ([]CandidatePost, error)
	// ViewerFlags loads the viewer's hearted/praised/trophy state for a page of posts.
	ViewerFlags(ctx context.Context, viewerID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]PostFlags, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

const candidateSelect = `posts.id, posts.author_id, posts.title, posts.content, posts.post_type, posts.image_url, posts.created_at,
	channels.collective_id AS collective_id,
	users.username AS author_username, users.avatar_url AS author_avatar_url,
	(SELECT COUNT(*) FROM hearts WHERE hearts.post_id = posts.id) AS hearts,
	(SELECT COUNT(*) FROM praises WHERE praises.post_id = posts.id) AS praises,
	(SELECT COUNT(*) FROM trophies WHERE trophies.post_id = posts.id AND trophies.tier = 'bronze') AS bronze_trophies,
	(SELECT COUNT(*) FROM trophies WHERE trophies.post_id = posts.id AND trophies.tier = 'golden') AS golden_trophies,
	(SELECT COUNT(*) FROM trophies WHERE trophies.post_id = posts.id AND trophies.tier = 'diamond') AS diamond_trophies,
	(SELECT COUNT(*) FROM critiques WHERE critiques.post_id = posts.id AND critiques.impression = 'positive' AND critiques.is_deleted = false) AS positive_critiques,
	(SELECT COUNT(*) FROM critiques WHERE critiques.post_id = posts.id AND critiques.impression = 'negative' AND critiques.is_deleted = false) AS negative_critiques,
	(SELECT COUNT(*) FROM critiques WHERE critiques.post_id = posts.id AND critiques.impression = 'neutral' AND critiques.is_deleted = false) AS neutral_critiques,
	(SELECT COUNT(*) FROM comments WHERE comments.item_id = posts.id AND comments.item_kind = 'post' AND comments.is_critique_reply = false AND comments.is_deleted = false) AS comments`

func (r *repository) EligibleCandidates(ctx context.Context, collectiveIDs []uuid.UUID) ([]CandidatePost, error) {
	query := r.db.WithContext(ctx).
		Table("posts").
		Select(candidateSelect).
		Joins("JOIN users ON users.id = posts.author_id").
		Joins("LEFT JOIN channels ON channels.id = posts.channel_id").
		Where("posts.is_deleted = ?", false)

	if len(collectiveIDs) > 0 {
		query = query.Where("posts.channel_id IS NULL OR channels.collective_id IN ?", collectiveIDs)
	} else {
		query = query.Where("posts.channel_id IS NULL")
	}

	var rows []CandidatePost
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ViewerFlags(ctx context.Context, viewerID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]PostFlags, error) {
	flags := make(map[uuid.UUID]PostFlags, len(postIDs))
	if len(postIDs) == 0 {
		return flags, nil
	}

	var heartedIDs []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("hearts").
		Select("post_id").
		Where("actor_id = ? AND post_id IN ?", viewerID, postIDs).
		Scan(&heartedIDs).Error
	if err != nil {
		return nil, err
	}
	for _, id := range heartedIDs {
		f := flags[id]
		f.Hearted = true
		flags[id] = f
	}

	var praisedIDs []uuid.UUID
	err = r.db.WithContext(ctx).
		Table("praises").
		Select("post_id").
		Where("actor_id = ? AND post_id IN ?", viewerID, postIDs).
		Scan(&praisedIDs).Error
	if err != nil {
		return nil, err
	}
	for _, id := range praisedIDs {
		f := flags[id]
		f.Praised = true
		flags[id] = f
	}

	var trophyRows []struct {
		PostID uuid.UUID
		Tier   string
	}
	err = r.db.WithContext(ctx).
		Table("trophies").
		Select("post_id, tier").
		Where("actor_id = ? AND post_id IN ?", viewerID, postIDs).
		Scan(&trophyRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range trophyRows {
		f := flags[row.PostID]
		f.TrophyTiersGiven = append(f.TrophyTiersGiven, row.Tier)
		flags[row.PostID] = f
	}

	return flags, nil
}
