package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"anoa.com/sanggarseni/internal/entity"
	galleryRepo "anoa.com/sanggarseni/internal/modules/gallery/repository"
	interactionRepo "anoa.com/sanggarseni/internal/modules/interaction/repository"
	notifService "anoa.com/sanggarseni/internal/modules/notification/service"
	postRepo "anoa.com/sanggarseni/internal/modules/post/repository"
	"anoa.com/sanggarseni/internal/ranking/invalidation"
	"anoa.com/sanggarseni/internal/ranking/rankcache"
	"anoa.com/sanggarseni/pkg/apperror"
	"anoa.com/sanggarseni/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const countCacheTTL = 7 * 24 * time.Hour

type InteractionService interface {
	ToggleHeart(ctx context.Context, actorID, postID uuid.UUID) (bool, error)
	TogglePraise(ctx context.Context, actorID, postID uuid.UUID) (bool, error)
	GiveTrophy(ctx context.Context, actorID, postID uuid.UUID, tier string) error
	GiveGalleryAward(ctx context.Context, actorID, galleryID uuid.UUID, tier string) error
	AddComment(ctx context.Context, actorID uuid.UUID, itemKind string, itemID uuid.UUID, content string, isCritiqueReply bool) (*entity.Comment, error)
	DeleteComment(ctx context.Context, actorID, commentID uuid.UUID) error
	AddCritique(ctx context.Context, actorID, postID uuid.UUID, content, impression string) (*entity.Critique, error)
	GetItemCounts(ctx context.Context, itemKind string, itemID uuid.UUID) (map[string]int64, error)
}

type interactionService struct {
	repo        interactionRepo.Repository
	postRepo    postRepo.PostRepository
	galleryRepo galleryRepo.GalleryRepository
	redisClient *redis.Client
	dispatcher  *invalidation.Dispatcher
	notifier    notifService.NotificationService
}

func NewInteractionService(repo interactionRepo.Repository, postRepo postRepo.PostRepository, galleryRepo galleryRepo.GalleryRepository, redisClient *redis.Client, dispatcher *invalidation.Dispatcher, notifier notifService.NotificationService) InteractionService {
	return &interactionService{
		repo:        repo,
		postRepo:    postRepo,
		galleryRepo: galleryRepo,
		redisClient: redisClient,
		dispatcher:  dispatcher,
		notifier:    notifier,
	}
}

func (s *interactionService) ToggleHeart(ctx context.Context, actorID, postID uuid.UUID) (bool, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return false, err
	}

	exists, err := s.repo.HeartExists(ctx, actorID, postID)
	if err != nil {
		return false, err
	}

	if exists {
		if err := s.repo.DeleteHeart(ctx, actorID, postID); err != nil {
			return false, err
		}
		s.emitInteraction(ctx, invalidation.EventInteractionRemoved, invalidation.InteractionHeart, entity.ItemKindPost, postID, actorID)
		return false, nil
	}

	err = s.repo.CreateHeart(ctx, &entity.Heart{PostID: postID, ActorID: actorID})
	if errors.Is(err, apperror.ErrDuplicateInteraction) {
		// Lost a race against another request from the same actor; the heart
		// is set either way.
		return true, nil
	}
	if err != nil {
		return false, err
	}

	s.emitInteraction(ctx, invalidation.EventInteractionAdded, invalidation.InteractionHeart, entity.ItemKindPost, postID, actorID)
	s.notify(actorID, post.AuthorID, postID, entity.ItemKindPost, "heart", "hearted your post")
	return true, nil
}

func (s *interactionService) TogglePraise(ctx context.Context, actorID, postID uuid.UUID) (bool, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return false, err
	}

	exists, err := s.repo.PraiseExists(ctx, actorID, postID)
	if err != nil {
		return false, err
	}

	if exists {
		if err := s.repo.DeletePraise(ctx, actorID, postID); err != nil {
			return false, err
		}
		s.emitInteraction(ctx, invalidation.EventInteractionRemoved, invalidation.InteractionPraise, entity.ItemKindPost, postID, actorID)
		return false, nil
	}

	err = s.repo.CreatePraise(ctx, &entity.Praise{PostID: postID, ActorID: actorID})
	if errors.Is(err, apperror.ErrDuplicateInteraction) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	s.emitInteraction(ctx, invalidation.EventInteractionAdded, invalidation.InteractionPraise, entity.ItemKindPost, postID, actorID)
	s.notify(actorID, post.AuthorID, postID, entity.ItemKindPost, "praise", "praised your post")
	return true, nil
}

func (s *interactionService) GiveTrophy(ctx context.Context, actorID, postID uuid.UUID, tier string) error {
	cost := entity.TierPoints(tier)
	if cost == 0 {
		return fmt.Errorf("%w: unknown trophy tier %q", apperror.ErrBadRequest, tier)
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID == actorID {
		return fmt.Errorf("%w: cannot award your own post", apperror.ErrBadRequest)
	}

	trophy := &entity.Trophy{PostID: postID, ActorID: actorID, Tier: tier}
	if err := s.repo.CreateTrophyWithDebit(ctx, trophy, int64(cost)); err != nil {
		return err
	}

	s.emitInteraction(ctx, invalidation.EventInteractionAdded, invalidation.InteractionTrophy, entity.ItemKindPost, postID, actorID)
	s.notify(actorID, post.AuthorID, postID, entity.ItemKindPost, "trophy", fmt.Sprintf("gave your post a %s trophy", tier))
	return nil
}

func (s *interactionService) GiveGalleryAward(ctx context.Context, actorID, galleryID uuid.UUID, tier string) error {
	cost := entity.TierPoints(tier)
	if cost == 0 {
		return fmt.Errorf("%w: unknown award tier %q", apperror.ErrBadRequest, tier)
	}

	gallery, err := s.galleryRepo.FindByID(ctx, galleryID)
	if err != nil {
		return err
	}
	if gallery.AuthorID == actorID {
		return fmt.Errorf("%w: cannot award your own gallery", apperror.ErrBadRequest)
	}

	award := &entity.GalleryAward{GalleryID: galleryID, ActorID: actorID, Tier: tier}
	if err := s.repo.CreateAwardWithDebit(ctx, award, int64(cost)); err != nil {
		return err
	}

	s.emitInteraction(ctx, invalidation.EventInteractionAdded, invalidation.InteractionAward, entity.ItemKindGallery, galleryID, actorID)
	s.notify(actorID, gallery.AuthorID, galleryID, entity.ItemKindGallery, "award", fmt.Sprintf("gave your gallery a %s award", tier))
	return nil
}

func (s *interactionService) AddComment(ctx context.Context, actorID uuid.UUID, itemKind string, itemID uuid.UUID, content string, isCritiqueReply bool) (*entity.Comment, error) {
	authorID, err := s.itemAuthor(ctx, itemKind, itemID)
	if err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		ItemID:          itemID,
		ItemKind:        itemKind,
		ActorID:         actorID,
		Content:         content,
		IsCritiqueReply: isCritiqueReply,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.emitInteraction(ctx, invalidation.EventInteractionAdded, invalidation.InteractionComment, itemKind, itemID, actorID)
	s.notify(actorID, authorID, itemID, itemKind, "comment", "commented on your "+itemKind)
	return comment, nil
}

func (s *interactionService) DeleteComment(ctx context.Context, actorID, commentID uuid.UUID) error {
	comment, err := s.repo.FindCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.ActorID != actorID {
		return apperror.ErrForbidden
	}

	if err := s.repo.SoftDeleteComment(ctx, commentID); err != nil {
		return err
	}

	s.emitInteraction(ctx, invalidation.EventInteractionRemoved, invalidation.InteractionComment, comment.ItemKind, comment.ItemID, actorID)
	return nil
}

func (s *interactionService) AddCritique(ctx context.Context, actorID, postID uuid.UUID, content, impression string) (*entity.Critique, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	critique := &entity.Critique{
		PostID:     postID,
		ActorID:    actorID,
		Content:    content,
		Impression: impression,
	}
	if err := s.repo.CreateCritique(ctx, critique); err != nil {
		return nil, err
	}

	s.emitInteraction(ctx, invalidation.EventInteractionAdded, invalidation.InteractionCritique, entity.ItemKindPost, postID, actorID)
	s.notify(actorID, post.AuthorID, postID, entity.ItemKindPost, "critique", "critiqued your post")
	return critique, nil
}

// GetItemCounts serves the per-item interaction counts from the narrow count
// hash, rebuilding it from the database on a miss.
func (s *interactionService) GetItemCounts(ctx context.Context, itemKind string, itemID uuid.UUID) (map[string]int64, error) {
	key := rankcache.ItemCountsKey(itemKind, itemID)

	cached, err := s.redisClient.HGetAll(ctx, key).Result()
	if err == nil && len(cached) > 0 {
		counts := make(map[string]int64, len(cached))
		for field, raw := range cached {
			n, pErr := strconv.ParseInt(raw, 10, 64)
			if pErr != nil {
				continue
			}
			counts[field] = n
		}
		return counts, nil
	}
	if err != nil {
		logger.L().Warn("count cache read failed", zap.String("key", key), zap.Error(err))
	}

	var counts map[string]int64
	switch itemKind {
	case entity.ItemKindPost:
		counts, err = s.repo.PostCounts(ctx, itemID)
	case entity.ItemKindGallery:
		counts, err = s.repo.GalleryCounts(ctx, itemID)
	default:
		return nil, fmt.Errorf("%w: unknown item kind %q", apperror.ErrBadRequest, itemKind)
	}
	if err != nil {
		return nil, err
	}

	if len(counts) > 0 {
		fields := make(map[string]interface{}, len(counts))
		for field, n := range counts {
			fields[field] = n
		}

		pipe := s.redisClient.Pipeline()
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, countCacheTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			logger.L().Warn("count cache rebuild failed", zap.String("key", key), zap.Error(err))
		}
	}

	return counts, nil
}

func (s *interactionService) itemAuthor(ctx context.Context, itemKind string, itemID uuid.UUID) (uuid.UUID, error) {
	switch itemKind {
	case entity.ItemKindPost:
		post, err := s.postRepo.FindByID(ctx, itemID)
		if err != nil {
			return uuid.Nil, err
		}
		return post.AuthorID, nil
	case entity.ItemKindGallery:
		gallery, err := s.galleryRepo.FindByID(ctx, itemID)
		if err != nil {
			return uuid.Nil, err
		}
		return gallery.AuthorID, nil
	default:
		return uuid.Nil, fmt.Errorf("%w: unknown item kind %q", apperror.ErrBadRequest, itemKind)
	}
}

func (s *interactionService) emitInteraction(ctx context.Context, eventKind, interactionKind, itemKind string, itemID, actorID uuid.UUID) {
	s.dispatcher.OnMutation(ctx, invalidation.Event{
		Kind:            eventKind,
		ItemKind:        itemKind,
		ItemID:          itemID,
		InteractionKind: interactionKind,
		ActorID:         actorID,
	})
}

func (s *interactionService) notify(actorID, recipientID, entityID uuid.UUID, entityType, notifType, message string) {
	if s.notifier == nil || actorID == recipientID {
		return
	}

	go func() {
		err := s.notifier.CreateNotification(context.Background(), &entity.Notification{
			UserID:     recipientID,
			ActorID:    actorID,
			EntityID:   entityID,
			EntityType: entityType,
			Type:       notifType,
			Message:    message,
		})
		if err != nil {
			logger.L().Warn("notification create failed", zap.Error(err))
		}
	}()
}
