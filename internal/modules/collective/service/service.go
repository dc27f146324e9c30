package service

import (
	"context"

	"anoa.com/sanggarseni/internal/entity"
	collectiveDto "anoa.com/sanggarseni/internal/modules/collective/dto"
	collectiveRepo "anoa.com/sanggarseni/internal/modules/collective/repository"
	"anoa.com/sanggarseni/internal/ranking/invalidation"
	"anoa.com/sanggarseni/pkg/apperror"
	"github.com/google/uuid"
)

type CollectiveService interface {
	CreateCollective(ctx context.Context, ownerID uuid.UUID, req collectiveDto.CreateCollectiveRequest) (*entity.Collective, error)
	GetCollective(ctx context.Context, slug string) (*entity.Collective, error)
	ListCollectives(ctx context.Context, limit, offset int) ([]entity.Collective, error)
	CreateChannel(ctx context.Context, actorID, collectiveID uuid.UUID, name string) (*entity.Channel, error)
	ListChannels(ctx context.Context, slug string) ([]entity.Channel, error)
	JoinCollective(ctx context.Context, userID, collectiveID uuid.UUID) error
	LeaveCollective(ctx context.Context, userID, collectiveID uuid.UUID) error
}

type collectiveService struct {
	repo       collectiveRepo.CollectiveRepository
	dispatcher *invalidation.Dispatcher
}

func NewCollectiveService(repo collectiveRepo.CollectiveRepository, dispatcher *invalidation.Dispatcher) CollectiveService {
	return &collectiveService{
		repo:       repo,
		dispatcher: dispatcher,
	}
}

// CreateCollective creates the collective and makes the creator an admin
// member.
func (s *collectiveService) CreateCollective(ctx context.Context, ownerID uuid.UUID, req collectiveDto.CreateCollectiveRequest) (*entity.Collective, error) {
	collective := &entity.Collective{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		OwnerID:     ownerID,
	}
	if err := s.repo.Create(ctx, collective); err != nil {
		return nil, err
	}

	err := s.repo.CreateMembership(ctx, &entity.CollectiveMembership{
		UserID:       ownerID,
		CollectiveID: collective.ID,
		Role:         entity.MembershipRoleAdmin,
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.OnMutation(ctx, invalidation.Event{
		Kind:   invalidation.EventMembershipChanged,
		UserID: ownerID,
	})

	return collective, nil
}

func (s *collectiveService) GetCollective(ctx context.Context, slug string) (*entity.Collective, error) {
	return s.repo.FindBySlug(ctx, slug)
}

func (s *collectiveService) ListCollectives(ctx context.Context, limit, offset int) ([]entity.Collective, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// CreateChannel is restricted to collective admins.
func (s *collectiveService) CreateChannel(ctx context.Context, actorID, collectiveID uuid.UUID, name string) (*entity.Channel, error) {
	if _, err := s.repo.FindByID(ctx, collectiveID); err != nil {
		return nil, err
	}

	membership, err := s.repo.FindMembership(ctx, actorID, collectiveID)
	if err != nil || membership.Role != entity.MembershipRoleAdmin {
		return nil, apperror.ErrForbidden
	}

	channel := &entity.Channel{
		CollectiveID: collectiveID,
		Name:         name,
	}
	if err := s.repo.CreateChannel(ctx, channel); err != nil {
		return nil, err
	}
	return channel, nil
}

func (s *collectiveService) ListChannels(ctx context.Context, slug string) ([]entity.Channel, error) {
	collective, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.repo.ListChannels(ctx, collective.ID)
}

func (s *collectiveService) JoinCollective(ctx context.Context, userID, collectiveID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, collectiveID); err != nil {
		return err
	}

	err := s.repo.CreateMembership(ctx, &entity.CollectiveMembership{
		UserID:       userID,
		CollectiveID: collectiveID,
		Role:         entity.MembershipRoleMember,
	})
	if err != nil {
		return err
	}

	s.dispatcher.OnMutation(ctx, invalidation.Event{
		Kind:   invalidation.EventMembershipChanged,
		UserID: userID,
	})
	return nil
}

func (s *collectiveService) LeaveCollective(ctx context.Context, userID, collectiveID uuid.UUID) error {
	if _, err := s.repo.FindMembership(ctx, userID, collectiveID); err != nil {
		return err
	}

	if err := s.repo.DeleteMembership(ctx, userID, collectiveID); err != nil {
		return err
	}

	s.dispatcher.OnMutation(ctx, invalidation.Event{
		Kind:   invalidation.EventMembershipChanged,
		UserID: userID,
	})
	return nil
}
