package rankcache

import (
	"context"

	"anoa.com/sanggarseni/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type factsRepository struct {
	db *gorm.DB
}

// NewFactsRepository returns the gorm-backed FactsRepository.
func NewFactsRepository(db *gorm.DB) FactsRepository {
	return &factsRepository{db: db}
}

func (r *factsRepository) FellowIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&entity.UserFellow{}).
		Select("fellow_id").
		Where("user_id = ? AND status = ? AND is_deleted = ?", userID, entity.FellowStatusAccepted, false).
		Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *factsRepository) JoinedCollectiveIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&entity.CollectiveMembership{}).
		Select("collective_id").
		Where("user_id = ?", userID).
		Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

type histogramRow struct {
	Key string
	Cnt int64
}

// InteractionStats aggregates the user's hearts, praise and trophies into
// per-author and per-post-type histograms.
func (r *factsRepository) InteractionStats(ctx context.Context, userID uuid.UUID) (*InteractionStats, error) {
	stats := &InteractionStats{
		AuthorCounts: make(map[string]int64),
		TypeCounts:   make(map[string]int64),
	}

	sources := []struct {
		table  string
		column string
	}{
		{table: "hearts", column: "hearts.post_id"},
		{table: "praises", column: "praises.post_id"},
		{table: "trophies", column: "trophies.post_id"},
	}

	for _, src := range sources {
		var authorRows []histogramRow
		err := r.db.WithContext(ctx).
			Table(src.table).
			Select("posts.author_id AS key, COUNT(*) AS cnt").
			Joins("JOIN posts ON posts.id = "+src.column).
			Where(src.table+".actor_id = ? AND posts.is_deleted = ?", userID, false).
			Group("posts.author_id").
			Scan(&authorRows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range authorRows {
			stats.AuthorCounts[row.Key] += row.Cnt
		}

		var typeRows []histogramRow
		err = r.db.WithContext(ctx).
			Table(src.table).
			Select("posts.post_type AS key, COUNT(*) AS cnt").
			Joins("JOIN posts ON posts.id = "+src.column).
			Where(src.table+".actor_id = ? AND posts.is_deleted = ?", userID, false).
			Group("posts.post_type").
			Scan(&typeRows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range typeRows {
			stats.TypeCounts[row.Key] += row.Cnt
		}
	}

	return stats, nil
}
