package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ikkim/reviewhub-backend/internal/app/model"
	"github.com/ikkim/reviewhub-backend/internal/app/service"
	apperrors "github.com/ikkim/reviewhub-backend/internal/errors"
	"github.com/ikkim/reviewhub-backend/internal/middleware"
	"github.com/ikkim/reviewhub-backend/internal/storage"
)

type ReviewController struct {
	reviewService service.ReviewService
	userService   service.UserService
	storage       storage.Storage
	validator     *storage.Validator
}

func NewReviewController(
	reviewService service.ReviewService,
	userService service.UserService,
	store storage.Storage,
	validator *storage.Validator,
) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
		userService:   userService,
		storage:       store,
		validator:     validator,
	}
}

type ReviewRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Rating   int    `json:"rating"`
	ImageURL string `json:"image_url"` // 수정 시 빈 값이면 기존 이미지 유지
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// bindReviewInput accepts either a JSON body or a multipart form
// (title, content, rating, image?). The multipart image is stored
// immediately and its URL returned.
func (ctrl *ReviewController) bindReviewInput(c *gin.Context) (title, content string, rating int, imageURL string, ok bool) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		title = c.PostForm("title")
		content = c.PostForm("content")
		rating, _ = strconv.Atoi(c.PostForm("rating"))
		if title == "" || content == "" {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "제목과 내용을 입력해주세요")
			return "", "", 0, "", false
		}

		imageURL, ok = storeOptionalFormImage(c, ctrl.storage, ctrl.validator)
		if !ok {
			return "", "", 0, "", false
		}
		return title, content, rating, imageURL, true
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "제목과 내용을 입력해주세요")
		return "", "", 0, "", false
	}
	return req.Title, req.Content, req.Rating, req.ImageURL, true
}

// loadActor loads the acting user from the auth context
func loadActor(c *gin.Context, userService service.UserService) (*model.User, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return nil, false
	}

	user, err := userService.GetUser(userID)
	if err != nil {
		apperrors.Unauthorized(c, "사용자 정보를 찾을 수 없습니다")
		return nil, false
	}
	return user, true
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 ID 형식입니다")
		return 0, false
	}
	return uint(id), true
}

func parsePagination(c *gin.Context) (offset, limit int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))
	if limit < 0 {
		limit = 0
	}
	return (page - 1) * limit, limit
}

// List returns all reviews, newest first
// GET /api/reviews
func (ctrl *ReviewController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	offset, limit := parsePagination(c)
	reviews, total, err := ctrl.reviewService.ListReviews(offset, limit)
	if err != nil {
		log.Error("Failed to list reviews", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   total,
	})
}

// Get returns a single review with counts
// GET /api/reviews/:id
func (ctrl *ReviewController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	review, err := ctrl.reviewService.GetReview(id)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			apperrors.NotFound(c, apperrors.ReviewNotFound, "리뷰를 찾을 수 없습니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get review")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"review": review,
	})
}

// Create creates a review
// POST /api/reviews
func (ctrl *ReviewController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	title, content, rating, imageURL, ok := ctrl.bindReviewInput(c)
	if !ok {
		return
	}

	review, err := ctrl.reviewService.CreateReview(userID, title, content, rating, imageURL)
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) {
			apperrors.BadRequest(c, apperrors.ReviewTitleMissing, "제목을 입력해주세요")
			return
		}
		if errors.Is(err, service.ErrContentRequired) {
			apperrors.BadRequest(c, apperrors.ReviewBodyMissing, "내용을 입력해주세요")
			return
		}
		if errors.Is(err, service.ErrRatingOutOfRange) {
			apperrors.BadRequest(c, apperrors.ReviewRatingInvalid, "평점은 1에서 5 사이여야 합니다")
			return
		}
		log.Error("Failed to create review", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create review")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review created successfully",
		"review":  review,
	})
}

// Update edits a review (owner or moderator)
// PUT /api/reviews/:id
func (ctrl *ReviewController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actor, ok := loadActor(c, ctrl.userService)
	if !ok {
		return
	}

	title, content, rating, imageURL, ok := ctrl.bindReviewInput(c)
	if !ok {
		return
	}

	review, err := ctrl.reviewService.UpdateReview(actor, id, title, content, rating, imageURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			apperrors.NotFound(c, apperrors.ReviewNotFound, "리뷰를 찾을 수 없습니다")
		case errors.Is(err, service.ErrPermissionDenied):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "본인이 작성한 리뷰만 수정할 수 있습니다")
		case errors.Is(err, service.ErrTitleRequired):
			apperrors.BadRequest(c, apperrors.ReviewTitleMissing, "제목을 입력해주세요")
		case errors.Is(err, service.ErrContentRequired):
			apperrors.BadRequest(c, apperrors.ReviewBodyMissing, "내용을 입력해주세요")
		case errors.Is(err, service.ErrRatingOutOfRange):
			apperrors.BadRequest(c, apperrors.ReviewRatingInvalid, "평점은 1에서 5 사이여야 합니다")
		default:
			log.Error("Failed to update review", err, map[string]interface{}{
				"review_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update review")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review updated successfully",
		"review":  review,
	})
}

// Delete removes a review with its likes and comments (owner or moderator)
// DELETE /api/reviews/:id
func (ctrl *ReviewController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actor, ok := loadActor(c, ctrl.userService)
	if !ok {
		return
	}

	if err := ctrl.reviewService.DeleteReview(actor, id); err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			apperrors.NotFound(c, apperrors.ReviewNotFound, "리뷰를 찾을 수 없습니다")
		case errors.Is(err, service.ErrPermissionDenied):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "본인이 작성한 리뷰만 삭제할 수 있습니다")
		default:
			log.Error("Failed to delete review", err, map[string]interface{}{
				"review_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete review")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review deleted successfully",
	})
}

// Like adds a like (idempotent)
// POST /api/reviews/:id/like
func (ctrl *ReviewController) Like(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	count, err := ctrl.reviewService.LikeReview(userID, id)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			apperrors.NotFound(c, apperrors.ReviewNotFound, "리뷰를 찾을 수 없습니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "like review")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Review liked",
		"like_count": count,
	})
}

// Unlike removes a like (idempotent)
// DELETE /api/reviews/:id/like
func (ctrl *ReviewController) Unlike(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	count, err := ctrl.reviewService.UnlikeReview(userID, id)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			apperrors.NotFound(c, apperrors.ReviewNotFound, "리뷰를 찾을 수 없습니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "unlike review")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Review unliked",
		"like_count": count,
	})
}

// ListComments returns a review's comments, oldest first
// GET /api/reviews/:id/comments
func (ctrl *ReviewController) ListComments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comments, err := ctrl.reviewService.ListComments(id)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			apperrors.NotFound(c, apperrors.ReviewNotFound, "리뷰를 찾을 수 없습니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
	})
}

// CreateComment adds a comment to a review
// POST /api/reviews/:id/comment
func (ctrl *ReviewController) CreateComment(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.CommentBodyMissing, "댓글 내용을 입력해주세요")
		return
	}

	comment, err := ctrl.reviewService.AddComment(userID, id, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			apperrors.NotFound(c, apperrors.ReviewNotFound, "리뷰를 찾을 수 없습니다")
		case errors.Is(err, service.ErrContentRequired):
			apperrors.BadRequest(c, apperrors.CommentBodyMissing, "댓글 내용을 입력해주세요")
		default:
			log.Error("Failed to create comment", err, map[string]interface{}{
				"review_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create comment")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment created successfully",
		"comment": comment,
	})
}

// DeleteComment removes a comment (owner or moderator)
// DELETE /api/comments/:id
func (ctrl *ReviewController) DeleteComment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actor, ok := loadActor(c, ctrl.userService)
	if !ok {
		return
	}

	if err := ctrl.reviewService.DeleteComment(actor, id); err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			apperrors.NotFound(c, apperrors.CommentNotFound, "댓글을 찾을 수 없습니다")
		case errors.Is(err, service.ErrPermissionDenied):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "본인이 작성한 댓글만 삭제할 수 있습니다")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete comment")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted successfully",
	})
}
