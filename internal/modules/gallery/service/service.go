package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"anoa.com/sanggarseni/internal/entity"
	galleryDto "anoa.com/sanggarseni/internal/modules/gallery/dto"
	galleryRepo "anoa.com/sanggarseni/internal/modules/gallery/repository"
	searchService "anoa.com/sanggarseni/internal/modules/search/service"
	userRepo "anoa.com/sanggarseni/internal/modules/user/repository"
	"anoa.com/sanggarseni/internal/ranking/invalidation"
	"anoa.com/sanggarseni/internal/ranking/rankcache"
	"anoa.com/sanggarseni/pkg/apperror"
	commonDto "anoa.com/sanggarseni/pkg/dto"
	"anoa.com/sanggarseni/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const detailCacheTTL = 10 * time.Minute

type GalleryService interface {
	CreateGallery(ctx context.Context, authorID uuid.UUID, req galleryDto.CreateGalleryRequest) (*entity.Gallery, error)
	UpdateGallery(ctx context.Context, callerID, galleryID uuid.UUID, req galleryDto.UpdateGalleryRequest) (*entity.Gallery, error)
	DeleteGallery(ctx context.Context, callerID, galleryID uuid.UUID) error
	GetGallery(ctx context.Context, galleryID uuid.UUID) (*galleryDto.GalleryResponse, error)
}

// CountProvider mirrors the post service seam for interaction counters.
type CountProvider interface {
	GetItemCounts(ctx context.Context, itemKind string, itemID uuid.UUID) (map[string]int64, error)
}

type galleryService struct {
	repo        galleryRepo.GalleryRepository
	userRepo    userRepo.UserRepository
	counts      CountProvider
	redisClient *redis.Client
	dispatcher  *invalidation.Dispatcher
	search      searchService.SearchService
}

func NewGalleryService(repo galleryRepo.GalleryRepository, userRepo userRepo.UserRepository, counts CountProvider, redisClient *redis.Client, dispatcher *invalidation.Dispatcher, search searchService.SearchService) GalleryService {
	return &galleryService{
		repo:        repo,
		userRepo:    userRepo,
		counts:      counts,
		redisClient: redisClient,
		dispatcher:  dispatcher,
		search:      search,
	}
}

func (s *galleryService) CreateGallery(ctx context.Context, authorID uuid.UUID, req galleryDto.CreateGalleryRequest) (*entity.Gallery, error) {
	scope := req.Scope
	if scope == "" {
		scope = entity.GalleryScopePublic
	}
	if scope == entity.GalleryScopeCollective && req.CollectiveID == nil {
		return nil, fmt.Errorf("%w: collective galleries need a collective_id", apperror.ErrBadRequest)
	}

	gallery := &entity.Gallery{
		AuthorID:     authorID,
		Title:        req.Title,
		Description:  req.Description,
		Scope:        scope,
		CollectiveID: req.CollectiveID,
		CoverURL:     req.CoverURL,
	}

	if err := s.repo.Create(ctx, gallery); err != nil {
		return nil, err
	}

	s.dispatcher.OnMutation(ctx, invalidation.Event{
		Kind:     invalidation.EventItemCreated,
		ItemKind: entity.ItemKindGallery,
		ItemID:   gallery.ID,
	})

	if s.search != nil {
		_ = s.search.IndexGallery(gallery)
	}

	return gallery, nil
}

func (s *galleryService) UpdateGallery(ctx context.Context, callerID, galleryID uuid.UUID, req galleryDto.UpdateGalleryRequest) (*entity.Gallery, error) {
	gallery, err := s.repo.FindByID(ctx, galleryID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, callerID, gallery.AuthorID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		gallery.Title = *req.Title
	}
	if req.Description != nil {
		gallery.Description = *req.Description
	}
	if req.CoverURL != nil {
		gallery.CoverURL = req.CoverURL
	}

	if err := s.repo.Update(ctx, gallery); err != nil {
		return nil, err
	}

	s.dispatcher.OnMutation(ctx, invalidation.Event{
		Kind:     invalidation.EventItemUpdated,
		ItemKind: entity.ItemKindGallery,
		ItemID:   gallery.ID,
	})

	if s.search != nil {
		_ = s.search.IndexGallery(gallery)
	}

	return gallery, nil
}

func (s *galleryService) DeleteGallery(ctx context.Context, callerID, galleryID uuid.UUID) error {
	gallery, err := s.repo.FindByID(ctx, galleryID)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, callerID, gallery.AuthorID); err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, galleryID); err != nil {
		return err
	}

	s.dispatcher.OnMutation(ctx, invalidation.Event{
		Kind:     invalidation.EventItemDeleted,
		ItemKind: entity.ItemKindGallery,
		ItemID:   galleryID,
	})

	if s.search != nil {
		_ = s.search.DeleteGallery(galleryID.String())
	}

	return nil
}

func (s *galleryService) GetGallery(ctx context.Context, galleryID uuid.UUID) (*galleryDto.GalleryResponse, error) {
	key := rankcache.ItemDetailKey(entity.ItemKindGallery, galleryID)
	if data, err := s.redisClient.Get(ctx, key).Bytes(); err == nil {
		var cached galleryDto.GalleryResponse
		if uErr := json.Unmarshal(data, &cached); uErr == nil {
			return &cached, nil
		}
	}

	gallery, err := s.repo.FindByID(ctx, galleryID)
	if err != nil {
		return nil, err
	}

	counts, err := s.counts.GetItemCounts(ctx, entity.ItemKindGallery, galleryID)
	if err != nil {
		return nil, err
	}

	resp := &galleryDto.GalleryResponse{
		ID:           gallery.ID,
		Title:        gallery.Title,
		Description:  gallery.Description,
		Scope:        gallery.Scope,
		CollectiveID: gallery.CollectiveID,
		CoverURL:     gallery.CoverURL,
		Author: commonDto.AuthorResponse{
			Username:  gallery.Author.Username,
			AvatarURL: gallery.Author.AvatarURL,
		},
		Counts:    counts,
		CreatedAt: gallery.CreatedAt.Format("2006-01-02 15:04:05"),
	}

	if payload, err := json.Marshal(resp); err == nil {
		if err := s.redisClient.Set(ctx, key, payload, detailCacheTTL).Err(); err != nil {
			logger.L().Warn("gallery detail cache write failed", zap.Error(err))
		}
	}

	return resp, nil
}

func (s *galleryService) authorize(ctx context.Context, callerID, authorID uuid.UUID) error {
	if callerID == authorID {
		return nil
	}

	caller, err := s.userRepo.FindByID(ctx, callerID.String())
	if err != nil {
		return apperror.ErrForbidden
	}
	if !caller.IsModerator {
		return apperror.ErrForbidden
	}
	return nil
}
