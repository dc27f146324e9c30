package repository

import (
	"context"
	"errors"

	"anoa.com/sanggarseni/internal/entity"
	"anoa.com/sanggarseni/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	HeartExists(ctx context.Context, actorID, postID uuid.UUID) (bool, error)
	CreateHeart(ctx context.Context, heart *entity.Heart) error
	DeleteHeart(ctx context.Context, actorID, postID uuid.UUID) error

	PraiseExists(ctx context.Context, actorID, postID uuid.UUID) (bool, error)
	CreatePraise(ctx context.Context, praise *entity.Praise) error
	DeletePraise(ctx context.Context, actorID, postID uuid.UUID) error

	// CreateTrophyWithDebit creates the trophy and debits the giver's wallet by
	// cost Brush Drips in one transaction, locking the wallet row.
	CreateTrophyWithDebit(ctx context.Context, trophy *entity.Trophy, cost int64) error
	CreateAwardWithDebit(ctx context.Context, award *entity.GalleryAward, cost int64) error

	CreateComment(ctx context.Context, comment *entity.Comment) error
	FindCommentByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error)
	SoftDeleteComment(ctx context.Context, id uuid.UUID) error

	CreateCritique(ctx context.Context, critique *entity.Critique) error

	// PostCounts aggregates all interaction counts for one post, used to
	// rebuild the narrow count cache on miss.
	PostCounts(ctx context.Context, postID uuid.UUID) (map[string]int64, error)
	GalleryCounts(ctx context.Context, galleryID uuid.UUID) (map[string]int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) HeartExists(ctx context.Context, actorID, postID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Heart{}).
		Where("actor_id = ? AND post_id = ?", actorID, postID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateHeart(ctx context.Context, heart *entity.Heart) error {
	err := r.db.WithContext(ctx).Create(heart).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.ErrDuplicateInteraction
	}
	return err
}

func (r *repository) DeleteHeart(ctx context.Context, actorID, postID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("actor_id = ? AND post_id = ?", actorID, postID).
		Delete(&entity.Heart{}).Error
}

func (r *repository) PraiseExists(ctx context.Context, actorID, postID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Praise{}).
		Where("actor_id = ? AND post_id = ?", actorID, postID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CreatePraise(ctx context.Context, praise *entity.Praise) error {
	err := r.db.WithContext(ctx).Create(praise).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.ErrDuplicateInteraction
	}
	return err
}

func (r *repository) DeletePraise(ctx context.Context, actorID, postID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("actor_id = ? AND post_id = ?", actorID, postID).
		Delete(&entity.Praise{}).Error
}

func (r *repository) CreateTrophyWithDebit(ctx context.Context, trophy *entity.Trophy, cost int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := debitWallet(tx, trophy.ActorID, cost); err != nil {
			return err
		}
		return tx.Create(trophy).Error
	})
}

func (r *repository) CreateAwardWithDebit(ctx context.Context, award *entity.GalleryAward, cost int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := debitWallet(tx, award.ActorID, cost); err != nil {
			return err
		}
		return tx.Create(award).Error
	})
}

// debitWallet locks the payer's wallet row, checks the balance and deducts.
func debitWallet(tx *gorm.DB, userID uuid.UUID, cost int64) error {
	var wallet entity.Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&wallet, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrInsufficientDrips
	}
	if err != nil {
		return err
	}

	if wallet.BrushDrips < cost {
		return apperror.ErrInsufficientDrips
	}

	return tx.Model(&entity.Wallet{}).
		Where("user_id = ?", userID).
		Update("brush_drips", gorm.Expr("brush_drips - ?", cost)).Error
}

func (r *repository) CreateComment(ctx context.Context, comment *entity.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *repository) FindCommentByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error) {
	var comment entity.Comment
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *repository) SoftDeleteComment(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.Comment{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}

func (r *repository) CreateCritique(ctx context.Context, critique *entity.Critique) error {
	return r.db.WithContext(ctx).Create(critique).Error
}

func (r *repository) PostCounts(ctx context.Context, postID uuid.UUID) (map[string]int64, error) {
	counts := make(map[string]int64)

	var hearts int64
	if err := r.db.WithContext(ctx).Model(&entity.Heart{}).Where("post_id = ?", postID).Count(&hearts).Error; err != nil {
		return nil, err
	}
	counts["heart"] = hearts

	var praises int64
	if err := r.db.WithContext(ctx).Model(&entity.Praise{}).Where("post_id = ?", postID).Count(&praises).Error; err != nil {
		return nil, err
	}
	counts["praise"] = praises

	var trophyRows []struct {
		Tier string
		Cnt  int64
	}
	err := r.db.WithContext(ctx).
		Model(&entity.Trophy{}).
		Select("tier, COUNT(*) AS cnt").
		Where("post_id = ?", postID).
		Group("tier").
		Scan(&trophyRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range trophyRows {
		counts[row.Tier+"_trophy"] = row.Cnt
	}

	var critiqueRows []struct {
		Impression string
		Cnt        int64
	}
	err = r.db.WithContext(ctx).
		Model(&entity.Critique{}).
		Select("impression, COUNT(*) AS cnt").
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Group("impression").
		Scan(&critiqueRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range critiqueRows {
		counts[row.Impression+"_critique"] = row.Cnt
	}

	var comments int64
	err = r.db.WithContext(ctx).
		Model(&entity.Comment{}).
		Where("item_id = ? AND item_kind = ? AND is_critique_reply = ? AND is_deleted = ?",
			postID, entity.ItemKindPost, false, false).
		Count(&comments).Error
	if err != nil {
		return nil, err
	}
	counts["comment"] = comments

	return counts, nil
}

func (r *repository) GalleryCounts(ctx context.Context, galleryID uuid.UUID) (map[string]int64, error) {
	counts := make(map[string]int64)

	var awardRows []struct {
		Tier string
		Cnt  int64
	}
	err := r.db.WithContext(ctx).
		Model(&entity.GalleryAward{}).
		Select("tier, COUNT(*) AS cnt").
		Where("gallery_id = ?", galleryID).
		Group("tier").
		Scan(&awardRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range awardRows {
		counts[row.Tier+"_award"] = row.Cnt
	}

	var comments int64
	err = r.db.WithContext(ctx).
		Model(&entity.Comment{}).
		Where("item_id = ? AND item_kind = ? AND is_critique_reply = ? AND is_deleted = ?",
			galleryID, entity.ItemKindGallery, false, false).
		Count(&comments).Error
	if err != nil {
		return nil, err
	}
	counts["comment"] = comments

	return counts, nil
}
