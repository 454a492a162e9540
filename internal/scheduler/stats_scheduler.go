package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/ikkim/reviewhub-backend/internal/app/service"
	"github.com/ikkim/reviewhub-backend/pkg/logger"
)

// StatsScheduler 대시보드 통계 캐시 주기 갱신 스케줄러
type StatsScheduler struct {
	cron         *cron.Cron
	statsService service.StatsService
}

// NewStatsScheduler 통계 스케줄러 생성
func NewStatsScheduler(statsService service.StatsService) *StatsScheduler {
	return &StatsScheduler{
		cron:         cron.New(),
		statsService: statsService,
	}
}

// Start 스케줄러 시작
func (s *StatsScheduler) Start() error {
	// 5분마다 통계 캐시 갱신 (관리자 대시보드 응답 속도 유지)
	_, err := s.cron.AddFunc("@every 5m", func() {
		logger.Info("Starting scheduled stats refresh", nil)

		if _, err := s.statsService.RefreshStats(context.Background()); err != nil {
			logger.Error("Failed to refresh stats from scheduler", err)
			return
		}

		logger.Info("Successfully refreshed stats from scheduler", nil)
	})

	if err != nil {
		logger.Error("Failed to add cron job for stats refresh", err)
		return err
	}

	s.cron.Start()
	logger.Info("Stats scheduler started successfully (every 5 minutes)", nil)

	return nil
}

// Stop 스케줄러 중지
func (s *StatsScheduler) Stop() {
	logger.Info("Stopping stats scheduler...", nil)
	s.cron.Stop()
	logger.Info("Stats scheduler stopped", nil)
}
