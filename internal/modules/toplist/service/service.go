package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"anoa.com/sanggarseni/internal/entity"
	toplistDto "anoa.com/sanggarseni/internal/modules/toplist/dto"
	toplistRepo "anoa.com/sanggarseni/internal/modules/toplist/repository"
	"anoa.com/sanggarseni/internal/ranking/rankcache"
	"anoa.com/sanggarseni/internal/ranking/score"
	"anoa.com/sanggarseni/pkg/apperror"
	"anoa.com/sanggarseni/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	maxLimit      = 100
	postTopTTL    = time.Hour
	galleryTopTTL = 24 * time.Hour
)

var allowedLimits = map[int]bool{5: true, 10: true, 25: true, 50: true, 100: true}

type Service interface {
	// GetCachedTop reads a leaderboard from cache. Returns apperror.ErrNotFound
	// when nothing has been generated yet; it never triggers generation itself.
	GetCachedTop(ctx context.Context, itemKind string, limit int, postType string) ([]toplistDto.TopItemResponse, error)
	// Generate recomputes and caches one leaderboard. Idempotent, safe to call
	// concurrently; last writer wins.
	Generate(ctx context.Context, itemKind string, limit int, postType string) error
	// StartInitialGeneration runs the one-shot startup warm-up job on a
	// background goroutine. Guarded to start at most once per process.
	StartInitialGeneration(warmup time.Duration)
}

type service struct {
	repo        toplistRepo.Repository
	redisClient *redis.Client
	startupOnce sync.Once
}

func NewService(repo toplistRepo.Repository, redisClient *redis.Client) Service {
	return &service{
		repo:        repo,
		redisClient: redisClient,
	}
}

func (s *service) GetCachedTop(ctx context.Context, itemKind string, limit int, postType string) ([]toplistDto.TopItemResponse, error) {
	if !allowedLimits[limit] {
		limit = maxLimit
	}

	// The 100-entry cache serves every smaller limit by slicing in memory.
	if items, ok := s.readCache(ctx, s.cacheKey(itemKind, maxLimit, postType)); ok {
		return sliceTop(items, limit), nil
	}

	// Fall back to the type-unfiltered 100-cache filtered in-process.
	if postType != "" {
		if items, ok := s.readCache(ctx, s.cacheKey(itemKind, maxLimit, "")); ok {
			filtered := make([]toplistDto.TopItemResponse, 0, limit)
			for _, it := range items {
				if it.PostType == postType {
					filtered = append(filtered, it)
				}
			}
			return sliceTop(filtered, limit), nil
		}
	}

	return nil, apperror.ErrNotFound
}

func (s *service) Generate(ctx context.Context, itemKind string, limit int, postType string) error {
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}

	var items []toplistDto.TopItemResponse
	var ttl time.Duration
	var err error

	switch itemKind {
	case entity.ItemKindGallery:
		items, err = s.rankGalleries(ctx)
		ttl = galleryTopTTL
	default:
		items, err = s.rankPosts(ctx, postType)
		ttl = postTopTTL
	}
	if err != nil {
		return err
	}

	// Always write the 100-entry cache; smaller limits are served by slicing it.
	if err := s.writeCache(ctx, s.cacheKey(itemKind, maxLimit, postType), sliceTop(items, maxLimit), ttl); err != nil {
		return err
	}
	if limit != maxLimit {
		if err := s.writeCache(ctx, s.cacheKey(itemKind, limit, postType), sliceTop(items, limit), ttl); err != nil {
			return err
		}
	}

	return nil
}

func (s *service) StartInitialGeneration(warmup time.Duration) {
	s.startupOnce.Do(func() {
		go func() {
			time.Sleep(warmup)
			ctx := context.Background()

			// A failed background generation leaves any previous cache in place
			if err := s.Generate(ctx, entity.ItemKindPost, maxLimit, ""); err != nil {
				logger.L().Error("initial post leaderboard generation failed", zap.Error(err))
			}
			if err := s.Generate(ctx, entity.ItemKindGallery, maxLimit, ""); err != nil {
				logger.L().Error("initial gallery leaderboard generation failed", zap.Error(err))
			}
		}()
	})
}

func (s *service) rankPosts(ctx context.Context, postType string) ([]toplistDto.TopItemResponse, error) {
	rows, err := s.repo.ActivePosts(ctx, postType)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]toplistDto.TopItemResponse, 0, len(rows))
	for _, row := range rows {
		sc := score.Global(row.CreatedAt, now, score.EngagementCounts{
			Hearts:            row.Hearts,
			Praise:            row.Praises,
			BronzeTrophies:    row.BronzeTrophies,
			GoldenTrophies:    row.GoldenTrophies,
			DiamondTrophies:   row.DiamondTrophies,
			PositiveCritiques: row.PositiveCritiques,
			NegativeCritiques: row.NegativeCritiques,
			NeutralCritiques:  row.NeutralCritiques,
			Comments:          row.Comments,
		})
		items = append(items, toplistDto.TopItemResponse{
			ID:             row.ID,
			Title:          row.Title,
			AuthorUsername: row.AuthorUsername,
			PostType:       row.PostType,
			Score:          sc,
			CreatedAt:      row.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	sortTop(items)
	return items, nil
}

func (s *service) rankGalleries(ctx context.Context) ([]toplistDto.TopItemResponse, error) {
	rows, err := s.repo.ActiveGalleries(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]toplistDto.TopItemResponse, 0, len(rows))
	for _, row := range rows {
		sc := score.Global(row.CreatedAt, now, score.EngagementCounts{
			BronzeTrophies:  row.BronzeAwards,
			GoldenTrophies:  row.GoldenAwards,
			DiamondTrophies: row.DiamondAwards,
			Comments:        row.Comments,
		})
		items = append(items, toplistDto.TopItemResponse{
			ID:             row.ID,
			Title:          row.Title,
			AuthorUsername: row.AuthorUsername,
			Score:          sc,
			CreatedAt:      row.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	sortTop(items)
	return items, nil
}

func (s *service) cacheKey(itemKind string, limit int, postType string) string {
	if itemKind == entity.ItemKindGallery {
		return rankcache.GlobalTopGalleriesKey(limit)
	}
	return rankcache.GlobalTopPostsKey(limit, postType)
}

func (s *service) readCache(ctx context.Context, key string) ([]toplistDto.TopItemResponse, bool) {
	data, err := s.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var items []toplistDto.TopItemResponse
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (s *service) writeCache(ctx context.Context, key string, items []toplistDto.TopItemResponse, ttl time.Duration) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.redisClient.Set(ctx, key, payload, ttl).Err()
}

func sortTop(items []toplistDto.TopItemResponse) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].CreatedAt > items[j].CreatedAt
	})
}

func sliceTop(items []toplistDto.TopItemResponse, limit int) []toplistDto.TopItemResponse {
	if len(items) <= limit {
		return items
	}
	return items[:limit]
}
