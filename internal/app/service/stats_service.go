package service

import (
	"context"
	"errors"
	"time"

	"github.com/ikkim/reviewhub-backend/internal/app/model"
	"github.com/ikkim/reviewhub-backend/internal/app/repository"
	"github.com/ikkim/reviewhub-backend/pkg/logger"
	"github.com/ikkim/reviewhub-backend/pkg/redis"
)

const (
	statsCacheKey = "stats:dashboard"
	statsCacheTTL = 5 * time.Minute
	recentLimit   = 5
)

// Stats 관리자 대시보드 통계
type Stats struct {
	TotalReviews  int64          `json:"total_reviews"`
	TotalUsers    int64          `json:"total_users"`
	RecentReviews []model.Review `json:"recent_reviews"`
	GeneratedAt   time.Time      `json:"generated_at"`
}

// StatsCache는 통계 캐시 저장소 (redis 기반, 테스트 대체용)
type StatsCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type StatsService interface {
	GetStats(ctx context.Context) (*Stats, error)
	RefreshStats(ctx context.Context) (*Stats, error)
}

type statsService struct {
	userRepo   repository.UserRepository
	reviewRepo *repository.ReviewRepository
	cache      StatsCache
}

// NewStatsService creates a stats service. cache may be nil.
func NewStatsService(userRepo repository.UserRepository, reviewRepo *repository.ReviewRepository, cache StatsCache) StatsService {
	return &statsService{
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
		cache:      cache,
	}
}

// GetStats는 캐시된 통계를 반환하고, 캐시가 비어 있으면 새로 계산합니다.
func (s *statsService) GetStats(ctx context.Context) (*Stats, error) {
	if s.cache != nil {
		var cached Stats
		err := s.cache.GetJSON(ctx, statsCacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			// 캐시 장애 시 DB로 계산 (fail-open)
			logger.Warn("Stats cache read failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return s.RefreshStats(ctx)
}

// RefreshStats는 통계를 다시 계산하고 캐시를 갱신합니다.
func (s *statsService) RefreshStats(ctx context.Context) (*Stats, error) {
	totalReviews, err := s.reviewRepo.CountReviews()
	if err != nil {
		return nil, err
	}

	totalUsers, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}

	recent, err := s.reviewRepo.GetRecentReviews(recentLimit)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalReviews:  totalReviews,
		TotalUsers:    totalUsers,
		RecentReviews: recent,
		GeneratedAt:   time.Now(),
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, statsCacheKey, stats, statsCacheTTL); err != nil {
			logger.Warn("Stats cache write failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return stats, nil
}
