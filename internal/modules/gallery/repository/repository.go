package repository

import (
	"context"
	"errors"

	"anoa.com/sanggarseni/internal/entity"
	"anoa.com/sanggarseni/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GalleryRepository interface {
	Create(ctx context.Context, gallery *entity.Gallery) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Gallery, error)
	Update(ctx context.Context, gallery *entity.Gallery) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type galleryRepository struct {
	db *gorm.DB
}

func NewGalleryRepository(db *gorm.DB) GalleryRepository {
	return &galleryRepository{db: db}
}

func (r *galleryRepository) Create(ctx context.Context, gallery *entity.Gallery) error {
	return r.db.WithContext(ctx).Create(gallery).Error
}

func (r *galleryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Gallery, error) {
	var gallery entity.Gallery
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ? AND is_deleted = ?", id, false).
		First(&gallery).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &gallery, nil
}

func (r *galleryRepository) Update(ctx context.Context, gallery *entity.Gallery) error {
	return r.db.WithContext(ctx).Save(gallery).Error
}

func (r *galleryRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.Gallery{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}
