package repository

import (
	"context"
	"errors"

	"anoa.com/sanggarseni/internal/entity"
	"anoa.com/sanggarseni/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FellowRepository interface {
	Create(ctx context.Context, fellow *entity.UserFellow) error
	Find(ctx context.Context, userID, fellowID uuid.UUID) (*entity.UserFellow, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID, status string) error
	ListFellows(ctx context.Context, userID uuid.UUID) ([]entity.UserFellow, error)
	ListPending(ctx context.Context, fellowID uuid.UUID) ([]entity.UserFellow, error)
}

type fellowRepository struct {
	db *gorm.DB
}

func NewFellowRepository(db *gorm.DB) FellowRepository {
	return &fellowRepository{db: db}
}

func (r *fellowRepository) Create(ctx context.Context, fellow *entity.UserFellow) error {
	err := r.db.WithContext(ctx).Create(fellow).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.ErrDuplicateInteraction
	}
	return err
}

// Find returns the edge regardless of deletion state so callers can restore
// a previously removed follow instead of hitting the unique index.
func (r *fellowRepository) Find(ctx context.Context, userID, fellowID uuid.UUID) (*entity.UserFellow, error) {
	var fellow entity.UserFellow
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND fellow_id = ?", userID, fellowID).
		First(&fellow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &fellow, nil
}

func (r *fellowRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).
		Model(&entity.UserFellow{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *fellowRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.UserFellow{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}

func (r *fellowRepository) Restore(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).
		Model(&entity.UserFellow{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_deleted": false, "status": status}).Error
}

func (r *fellowRepository) ListFellows(ctx context.Context, userID uuid.UUID) ([]entity.UserFellow, error) {
	var fellows []entity.UserFellow
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND is_deleted = ?", userID, entity.FellowStatusAccepted, false).
		Order("created_at DESC").
		Find(&fellows).Error
	return fellows, err
}

func (r *fellowRepository) ListPending(ctx context.Context, fellowID uuid.UUID) ([]entity.UserFellow, error) {
	var fellows []entity.UserFellow
	err := r.db.WithContext(ctx).
		Where("fellow_id = ? AND status = ? AND is_deleted = ?", fellowID, entity.FellowStatusPending, false).
		Order("created_at DESC").
		Find(&fellows).Error
	return fellows, err
}
