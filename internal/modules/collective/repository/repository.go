package repository

import (
	"context"
	"errors"

	"anoa.com/sanggarseni/internal/entity"
	"anoa.com/sanggarseni/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CollectiveRepository interface {
	Create(ctx context.Context, collective *entity.Collective) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Collective, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Collective, error)
	List(ctx context.Context, limit, offset int) ([]entity.Collective, error)

	CreateChannel(ctx context.Context, channel *entity.Channel) error
	ListChannels(ctx context.Context, collectiveID uuid.UUID) ([]entity.Channel, error)

	CreateMembership(ctx context.Context, membership *entity.CollectiveMembership) error
	FindMembership(ctx context.Context, userID, collectiveID uuid.UUID) (*entity.CollectiveMembership, error)
	DeleteMembership(ctx context.Context, userID, collectiveID uuid.UUID) error
}

type collectiveRepository struct {
	db *gorm.DB
}

func NewCollectiveRepository(db *gorm.DB) CollectiveRepository {
	return &collectiveRepository{db: db}
}

func (r *collectiveRepository) Create(ctx context.Context, collective *entity.Collective) error {
	err := r.db.WithContext(ctx).Create(collective).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.ErrBadRequest
	}
	return err
}

func (r *collectiveRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Collective, error) {
	var collective entity.Collective
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&collective).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &collective, nil
}

func (r *collectiveRepository) FindBySlug(ctx context.Context, slug string) (*entity.Collective, error) {
	var collective entity.Collective
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_deleted = ?", slug, false).
		First(&collective).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &collective, nil
}

func (r *collectiveRepository) List(ctx context.Context, limit, offset int) ([]entity.Collective, error) {
	var collectives []entity.Collective
	err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&collectives).Error
	return collectives, err
}

func (r *collectiveRepository) CreateChannel(ctx context.Context, channel *entity.Channel) error {
	return r.db.WithContext(ctx).Create(channel).Error
}

func (r *collectiveRepository) ListChannels(ctx context.Context, collectiveID uuid.UUID) ([]entity.Channel, error) {
	var channels []entity.Channel
	err := r.db.WithContext(ctx).
		Where("collective_id = ?", collectiveID).
		Order("created_at ASC").
		Find(&channels).Error
	return channels, err
}

func (r *collectiveRepository) CreateMembership(ctx context.Context, membership *entity.CollectiveMembership) error {
	err := r.db.WithContext(ctx).Create(membership).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.ErrDuplicateInteraction
	}
	return err
}

func (r *collectiveRepository) FindMembership(ctx context.Context, userID, collectiveID uuid.UUID) (*entity.CollectiveMembership, error) {
	var membership entity.CollectiveMembership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND collective_id = ?", userID, collectiveID).
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *collectiveRepository) DeleteMembership(ctx context.Context, userID, collectiveID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND collective_id = ?", userID, collectiveID).
		Delete(&entity.CollectiveMembership{}).Error
}
