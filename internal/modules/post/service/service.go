package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"anoa.com/sanggarseni/internal/entity"
	postDto "anoa.com/sanggarseni/internal/modules/post/dto"
	postRepo "anoa.com/sanggarseni/internal/modules/post/repository"
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

type PostService interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, req postDto.CreatePostRequest) (*entity.Post, error)
	UpdatePost(ctx context.Context, callerID, postID uuid.UUID, req postDto.UpdatePostRequest) (*entity.Post, error)
	DeletePost(ctx context.Context, callerID, postID uuid.UUID) error
	GetPost(ctx context.Context, postID uuid.UUID) (*postDto.PostResponse, error)
}

// CountProvider serves the per-item interaction counts; implemented by the
// interaction service on top of the narrow count cache.
type CountProvider interface {
	GetItemCounts(ctx context.Context, itemKind string, itemID uuid.UUID) (map[string]int64, error)
}

type postService struct {
	repo        postRepo.PostRepository
	userRepo    userRepo.UserRepository
	counts      CountProvider
	redisClient *redis.Client
	dispatcher  *invalidation.Dispatcher
	search      searchService.SearchService
}

func NewPostService(repo postRepo.PostRepository, userRepo userRepo.UserRepository, counts CountProvider, redisClient *redis.Client, dispatcher *invalidation.Dispatcher, search searchService.SearchService) PostService {
	return &postService{
		repo:        repo,
		userRepo:    userRepo,
		counts:      counts,
		redisClient: redisClient,
		dispatcher:  dispatcher,
		search:      search,
	}
}

func (s *postService) CreatePost(ctx context.Context, authorID uuid.UUID, req postDto.CreatePostRequest) (*entity.Post, error) {
	if req.ChannelID != nil {
		if _, err := s.repo.FindChannel(ctx, *req.ChannelID); err != nil {
			return nil, fmt.Errorf("%w: channel does not exist", apperror.ErrBadRequest)
		}
	}

	postType := req.PostType
	if postType == "" {
		postType = entity.PostTypeDefault
	}

	post := &entity.Post{
		AuthorID:  authorID,
		ChannelID: req.ChannelID,
		Title:     req.Title,
		Content:   req.Content,
		PostType:  postType,
		ImageURL:  req.ImageURL,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.dispatcher.OnMutation(ctx, invalidation.Event{
		Kind:     invalidation.EventItemCreated,
		ItemKind: entity.ItemKindPost,
		ItemID:   post.ID,
	})

	if s.search != nil {
		_ = s.search.IndexPost(post)
	}

	return post, nil
}

func (s *postService) UpdatePost(ctx context.Context, callerID, postID uuid.UUID, req postDto.UpdatePostRequest) (*entity.Post, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, callerID, post.AuthorID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}

	s.dispatcher.OnMutation(ctx, invalidation.Event{
		Kind:     invalidation.EventItemUpdated,
		ItemKind: entity.ItemKindPost,
		ItemID:   post.ID,
	})

	if s.search != nil {
		_ = s.search.IndexPost(post)
	}

	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, callerID, postID uuid.UUID) error {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, callerID, post.AuthorID); err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, postID); err != nil {
		return err
	}

	s.dispatcher.OnMutation(ctx, invalidation.Event{
		Kind:     invalidation.EventItemDeleted,
		ItemKind: entity.ItemKindPost,
		ItemID:   postID,
	})

	if s.search != nil {
		_ = s.search.DeletePost(postID.String())
	}

	return nil
}

func (s *postService) GetPost(ctx context.Context, postID uuid.UUID) (*postDto.PostResponse, error) {
	key := rankcache.ItemDetailKey(entity.ItemKindPost, postID)
	if data, err := s.redisClient.Get(ctx, key).Bytes(); err == nil {
		var cached postDto.PostResponse
		if uErr := json.Unmarshal(data, &cached); uErr == nil {
			return &cached, nil
		}
	}

	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	counts, err := s.counts.GetItemCounts(ctx, entity.ItemKindPost, postID)
	if err != nil {
		return nil, err
	}

	resp := &postDto.PostResponse{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		PostType:  post.PostType,
		ChannelID: post.ChannelID,
		ImageURL:  post.ImageURL,
		Author: commonDto.AuthorResponse{
			Username:  post.Author.Username,
			AvatarURL: post.Author.AvatarURL,
		},
		Counts:    counts,
		CreatedAt: post.CreatedAt.Format("2006-01-02 15:04:05"),
	}

	if payload, err := json.Marshal(resp); err == nil {
		if err := s.redisClient.Set(ctx, key, payload, detailCacheTTL).Err(); err != nil {
			logger.L().Warn("post detail cache write failed", zap.Error(err))
		}
	}

	return resp, nil
}

// authorize allows the author and moderators.
func (s *postService) authorize(ctx context.Context, callerID, authorID uuid.UUID) error {
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
