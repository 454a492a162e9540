package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/ikkim/reviewhub-backend/internal/app/service"
	apperrors "github.com/ikkim/reviewhub-backend/internal/errors"
	"github.com/ikkim/reviewhub-backend/internal/middleware"
)

// ReportController 관리자용 리뷰 현황 엑셀 내보내기
type ReportController struct {
	reviewService service.ReviewService
}

func NewReportController(reviewService service.ReviewService) *ReportController {
	return &ReportController{reviewService: reviewService}
}

var reportHeaders = []string{"ID", "제목", "작성자", "이메일", "평점", "좋아요", "댓글", "작성일"}

// ExportReviews streams an xlsx of all reviews (admin only)
// GET /api/admin/reports/reviews
func (ctrl *ReportController) ExportReviews(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	reviews, _, err := ctrl.reviewService.ListReviews(0, 0)
	if err != nil {
		log.Error("Failed to load reviews for report", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "export reviews")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Reviews"
	f.SetSheetName("Sheet1", sheet)

	for i, h := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, review := range reviews {
		values := []interface{}{
			review.ID,
			review.Title,
			review.User.Name,
			review.User.Email,
			review.Rating,
			review.LikeCount,
			review.CommentCount,
			review.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("reviews_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		log.Error("Failed to write report", err)
		return
	}

	log.Info("Review report exported", map[string]interface{}{
		"rows": len(reviews),
	})
}
