package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	feedDto "anoa.com/sanggarseni/internal/modules/feed/dto"
	feedRepo "anoa.com/sanggarseni/internal/modules/feed/repository"
	"anoa.com/sanggarseni/internal/ranking/rankcache"
	"anoa.com/sanggarseni/internal/ranking/score"
	commonDto "anoa.com/sanggarseni/pkg/dto"
	"anoa.com/sanggarseni/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
	feedPageTTL     = 5 * time.Minute
)

type Service interface {
	// ComputeFeed produces one scored, ordered feed page for the viewer.
	// A nil viewerID serves the degraded anonymous feed: public posts only,
	// recency and engagement terms only.
	ComputeFeed(ctx context.Context, viewerID *uuid.UUID, page, pageSize int) (*feedDto.FeedPage, error)
}

type service struct {
	repo        feedRepo.Repository
	redisClient *redis.Client
	derived     *rankcache.DerivedCache
	versions    *rankcache.VersionRegister
}

func NewService(repo feedRepo.Repository, redisClient *redis.Client, derived *rankcache.DerivedCache, versions *rankcache.VersionRegister) Service {
	return &service{
		repo:        repo,
		redisClient: redisClient,
		derived:     derived,
		versions:    versions,
	}
}

func (s *service) ComputeFeed(ctx context.Context, viewerID *uuid.UUID, page, pageSize int) (*feedDto.FeedPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	// Anonymous viewers share one key space at a fixed version; authenticated
	// viewers embed their calculation version so a bump orphans old pages.
	segment := rankcache.ViewerSegment(viewerID)
	version := int64(1)
	if viewerID != nil {
		version = s.versions.Get(ctx, *viewerID)
	}

	key := rankcache.PostListKey(segment, version, page, pageSize)
	if data, err := s.redisClient.Get(ctx, key).Bytes(); err == nil {
		var cached feedDto.FeedPage
		if uErr := json.Unmarshal(data, &cached); uErr == nil {
			return &cached, nil
		}
	}

	viewer, collectiveIDs, err := s.viewerFacts(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.repo.EligibleCandidates(ctx, collectiveIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	scores := make(map[uuid.UUID]float64, len(candidates))
	for _, c := range candidates {
		scores[c.ID] = score.Personal(score.ItemFacts{
			AuthorID:     c.AuthorID,
			CreatedAt:    c.CreatedAt,
			PostType:     c.PostType,
			CollectiveID: c.CollectiveID,
			Counts:       toCounts(c),
		}, viewer, now)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return score.Less(scores[candidates[i].ID], scores[candidates[j].ID],
			candidates[i].CreatedAt, candidates[j].CreatedAt)
	})

	totalItems := int64(len(candidates))
	totalPages := int((totalItems + int64(pageSize) - 1) / int64(pageSize))

	start := (page - 1) * pageSize
	if start > len(candidates) {
		start = len(candidates)
	}
	end := start + pageSize
	if end > len(candidates) {
		end = len(candidates)
	}
	pageItems := candidates[start:end]

	flags := make(map[uuid.UUID]feedRepo.PostFlags)
	if viewerID != nil {
		ids := make([]uuid.UUID, 0, len(pageItems))
		for _, c := range pageItems {
			ids = append(ids, c.ID)
		}
		flags, err = s.repo.ViewerFlags(ctx, *viewerID, ids)
		if err != nil {
			return nil, err
		}
	}

	result := &feedDto.FeedPage{
		Data: make([]feedDto.FeedItemResponse, 0, len(pageItems)),
		Meta: commonDto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalItems:  totalItems,
			Limit:       pageSize,
		},
	}
	for _, c := range pageItems {
		f := flags[c.ID]
		result.Data = append(result.Data, feedDto.FeedItemResponse{
			ID:       c.ID,
			Title:    c.Title,
			Content:  c.Content,
			PostType: c.PostType,
			ImageURL: c.ImageURL,
			Author: commonDto.AuthorResponse{
				Username:  c.AuthorUsername,
				AvatarURL: c.AuthorAvatarURL,
			},
			Score: scores[c.ID],
			Viewer: feedDto.ViewerFlags{
				Hearted:          f.Hearted,
				Praised:          f.Praised,
				TrophyTiersGiven: f.TrophyTiersGiven,
			},
			CreatedAt: c.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	if payload, err := json.Marshal(result); err == nil {
		if err := s.redisClient.Set(ctx, key, payload, feedPageTTL).Err(); err != nil {
			logger.L().Warn("feed page cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return result, nil
}

// viewerFacts loads the viewer's derived aggregates. Anonymous viewers get
// nil facts and no collective eligibility.
func (s *service) viewerFacts(ctx context.Context, viewerID *uuid.UUID) (*score.ViewerFacts, []uuid.UUID, error) {
	if viewerID == nil {
		return nil, nil, nil
	}

	fellows, err := s.derived.GetFellows(ctx, *viewerID)
	if err != nil {
		return nil, nil, err
	}

	collectives, err := s.derived.GetJoinedCollectives(ctx, *viewerID)
	if err != nil {
		return nil, nil, err
	}

	stats, err := s.derived.GetInteractionStats(ctx, *viewerID)
	if err != nil {
		return nil, nil, err
	}

	prefs := make([]score.TypePreference, 0, len(stats.TypeCounts))
	for postType, count := range stats.TypeCounts {
		prefs = append(prefs, score.TypePreference{PostType: postType, Count: count})
	}

	collectiveIDs := make([]uuid.UUID, 0, len(collectives))
	for id := range collectives {
		collectiveIDs = append(collectiveIDs, id)
	}

	return &score.ViewerFacts{
		ViewerID:       *viewerID,
		FellowIDs:      fellows,
		CollectiveIDs:  collectives,
		PreferredTypes: prefs,
	}, collectiveIDs, nil
}

func toCounts(c feedRepo.CandidatePost) score.EngagementCounts {
	return score.EngagementCounts{
		Hearts:            c.Hearts,
		Praise:            c.Praises,
		BronzeTrophies:    c.BronzeTrophies,
		GoldenTrophies:    c.GoldenTrophies,
		DiamondTrophies:   c.DiamondTrophies,
		PositiveCritiques: c.PositiveCritiques,
		NegativeCritiques: c.NegativeCritiques,
		NeutralCritiques:  c.NeutralCritiques,
		Comments:          c.Comments,
	}
}
