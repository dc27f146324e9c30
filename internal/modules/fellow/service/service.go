package service

import (
	"context"
	"fmt"

	"anoa.com/sanggarseni/internal/entity"
	fellowRepo "anoa.com/sanggarseni/internal/modules/fellow/repository"
	notifService "anoa.com/sanggarseni/internal/modules/notification/service"
	"anoa.com/sanggarseni/internal/ranking/invalidation"
	"anoa.com/sanggarseni/pkg/apperror"
	"anoa.com/sanggarseni/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FellowService interface {
	RequestFellow(ctx context.Context, actorID, targetID uuid.UUID) error
	AcceptFellow(ctx context.Context, actorID, requesterID uuid.UUID) error
	BlockFellow(ctx context.Context, actorID, requesterID uuid.UUID) error
	RemoveFellow(ctx context.Context, actorID, fellowID uuid.UUID) error
	ListFellows(ctx context.Context, userID uuid.UUID) ([]entity.UserFellow, error)
	ListPending(ctx context.Context, userID uuid.UUID) ([]entity.UserFellow, error)
}

type fellowService struct {
	repo       fellowRepo.FellowRepository
	dispatcher *invalidation.Dispatcher
	notifier   notifService.NotificationService
}

func NewFellowService(repo fellowRepo.FellowRepository, dispatcher *invalidation.Dispatcher, notifier notifService.NotificationService) FellowService {
	return &fellowService{
		repo:       repo,
		dispatcher: dispatcher,
		notifier:   notifier,
	}
}

// RequestFellow creates a pending follow edge from actor to target, or
// revives a soft-deleted one.
func (s *fellowService) RequestFellow(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return fmt.Errorf("%w: cannot fellow yourself", apperror.ErrBadRequest)
	}

	existing, err := s.repo.Find(ctx, actorID, targetID)
	if err == nil {
		switch {
		case existing.IsDeleted:
			if err := s.repo.Restore(ctx, existing.ID, entity.FellowStatusPending); err != nil {
				return err
			}
		case existing.Status == entity.FellowStatusBlocked:
			return apperror.ErrForbidden
		default:
			// Already pending or accepted.
			return apperror.ErrDuplicateInteraction
		}
	} else {
		if err := s.repo.Create(ctx, &entity.UserFellow{
			UserID:   actorID,
			FellowID: targetID,
			Status:   entity.FellowStatusPending,
		}); err != nil {
			return err
		}
	}

	s.notify(actorID, targetID, "fellow_request", "sent you a fellow request")
	return nil
}

// AcceptFellow flips the requester's pending edge to accepted. The requester
// is the one whose personalized ranking inputs change.
func (s *fellowService) AcceptFellow(ctx context.Context, actorID, requesterID uuid.UUID) error {
	edge, err := s.repo.Find(ctx, requesterID, actorID)
	if err != nil {
		return err
	}
	if edge.IsDeleted || edge.Status != entity.FellowStatusPending {
		return apperror.ErrNotFound
	}

	if err := s.repo.UpdateStatus(ctx, edge.ID, entity.FellowStatusAccepted); err != nil {
		return err
	}

	s.dispatcher.OnMutation(ctx, invalidation.Event{
		Kind:   invalidation.EventFollowChanged,
		UserID: requesterID,
	})

	s.notify(actorID, requesterID, "fellow_accepted", "accepted your fellow request")
	return nil
}

func (s *fellowService) BlockFellow(ctx context.Context, actorID, requesterID uuid.UUID) error {
	edge, err := s.repo.Find(ctx, requesterID, actorID)
	if err != nil {
		return err
	}

	wasAccepted := !edge.IsDeleted && edge.Status == entity.FellowStatusAccepted

	if err := s.repo.UpdateStatus(ctx, edge.ID, entity.FellowStatusBlocked); err != nil {
		return err
	}

	if wasAccepted {
		s.dispatcher.OnMutation(ctx, invalidation.Event{
			Kind:   invalidation.EventFollowChanged,
			UserID: requesterID,
		})
	}
	return nil
}

func (s *fellowService) RemoveFellow(ctx context.Context, actorID, fellowID uuid.UUID) error {
	edge, err := s.repo.Find(ctx, actorID, fellowID)
	if err != nil {
		return err
	}
	if edge.IsDeleted {
		return apperror.ErrNotFound
	}

	wasAccepted := edge.Status == entity.FellowStatusAccepted

	if err := s.repo.SoftDelete(ctx, edge.ID); err != nil {
		return err
	}

	if wasAccepted {
		s.dispatcher.OnMutation(ctx, invalidation.Event{
			Kind:   invalidation.EventFollowChanged,
			UserID: actorID,
		})
	}
	return nil
}

func (s *fellowService) ListFellows(ctx context.Context, userID uuid.UUID) ([]entity.UserFellow, error) {
	return s.repo.ListFellows(ctx, userID)
}

func (s *fellowService) ListPending(ctx context.Context, userID uuid.UUID) ([]entity.UserFellow, error) {
	return s.repo.ListPending(ctx, userID)
}

func (s *fellowService) notify(actorID, recipientID uuid.UUID, notifType, message string) {
	if s.notifier == nil {
		return
	}

	go func() {
		err := s.notifier.CreateNotification(context.Background(), &entity.Notification{
			UserID:     recipientID,
			ActorID:    actorID,
			EntityID:   actorID,
			EntityType: "fellow",
			Type:       notifType,
			Message:    message,
		})
		if err != nil {
			logger.L().Warn("notification create failed", zap.Error(err))
		}
	}()
}
