package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ikkim/reviewhub-backend/internal/app/service"
	apperrors "github.com/ikkim/reviewhub-backend/internal/errors"
	"github.com/ikkim/reviewhub-backend/internal/middleware"
)

// StatsController 관리자 대시보드 통계 API
type StatsController struct {
	statsService service.StatsService
}

func NewStatsController(statsService service.StatsService) *StatsController {
	return &StatsController{statsService: statsService}
}

// Get returns dashboard statistics (admin only)
// GET /api/stats
func (ctrl *StatsController) Get(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stats, err := ctrl.statsService.GetStats(c.Request.Context())
	if err != nil {
		log.Error("Failed to get stats", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_reviews":  stats.TotalReviews,
		"total_users":    stats.TotalUsers,
		"recent_reviews": stats.RecentReviews,
		"generated_at":   stats.GeneratedAt,
	})
}
