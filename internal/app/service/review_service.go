package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/ikkim/reviewhub-backend/internal/app/model"
	"github.com/ikkim/reviewhub-backend/internal/app/repository"
	"github.com/ikkim/reviewhub-backend/pkg/logger"
)

var (
	ErrReviewNotFound   = errors.New("review not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrContentRequired  = errors.New("content is required")
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
)

// FeedEvent 실시간 피드로 브로드캐스트되는 활동 이벤트
type FeedEvent struct {
	Type     string `json:"type"` // review_created, review_liked, comment_added
	ReviewID uint   `json:"review_id"`
	UserID   uint   `json:"user_id"`
	Title    string `json:"title,omitempty"`
}

// ActivityPublisher는 피드 이벤트 발행 (websocket hub가 구현)
type ActivityPublisher interface {
	Publish(event FeedEvent)
}

type ReviewService interface {
	CreateReview(userID uint, title, content string, rating int, imageURL string) (*model.Review, error)
	ListReviews(offset, limit int) ([]repository.ReviewWithCounts, int64, error)
	GetReview(id uint) (*repository.ReviewWithCounts, error)
	GetReviewsByUser(userID uint, offset, limit int) ([]repository.ReviewWithCounts, int64, error)
	UpdateReview(actor *model.User, id uint, title, content string, rating int, imageURL string) (*model.Review, error)
	DeleteReview(actor *model.User, id uint) error
	LikeReview(userID, reviewID uint) (int64, error)
	UnlikeReview(userID, reviewID uint) (int64, error)
	AddComment(userID, reviewID uint, content string) (*model.Comment, error)
	ListComments(reviewID uint) ([]model.Comment, error)
	DeleteComment(actor *model.User, commentID uint) error
}

type reviewService struct {
	reviewRepo *repository.ReviewRepository
	publisher  ActivityPublisher
}

// NewReviewService creates a review service. publisher may be nil.
func NewReviewService(reviewRepo *repository.ReviewRepository, publisher ActivityPublisher) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		publisher:  publisher,
	}
}

func (s *reviewService) CreateReview(userID uint, title, content string, rating int, imageURL string) (*model.Review, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	if title == "" {
		return nil, ErrTitleRequired
	}
	if content == "" {
		return nil, ErrContentRequired
	}
	if rating < 1 || rating > 5 {
		return nil, ErrRatingOutOfRange
	}

	review := &model.Review{
		UserID:   userID,
		Title:    title,
		Content:  content,
		Rating:   rating,
		ImageURL: imageURL,
	}

	if err := s.reviewRepo.CreateReview(review); err != nil {
		logger.Error("Failed to create review", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Review created", map[string]interface{}{
		"review_id": review.ID,
		"user_id":   userID,
	})

	s.publish(FeedEvent{
		Type:     "review_created",
		ReviewID: review.ID,
		UserID:   userID,
		Title:    review.Title,
	})

	return review, nil
}

func (s *reviewService) ListReviews(offset, limit int) ([]repository.ReviewWithCounts, int64, error) {
	return s.reviewRepo.ListReviews(offset, limit)
}

func (s *reviewService) GetReview(id uint) (*repository.ReviewWithCounts, error) {
	review, err := s.reviewRepo.GetReviewWithCounts(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) GetReviewsByUser(userID uint, offset, limit int) ([]repository.ReviewWithCounts, int64, error) {
	return s.reviewRepo.GetReviewsByUserID(userID, offset, limit)
}

// UpdateReview는 작성자 본인 또는 운영진만 수정할 수 있습니다.
// imageURL이 빈 값이면 기존 이미지를 유지합니다.
func (s *reviewService) UpdateReview(actor *model.User, id uint, title, content string, rating int, imageURL string) (*model.Review, error) {
	review, err := s.reviewRepo.GetReviewByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	if review.UserID != actor.ID && !actor.Role.CanModerate() {
		logger.Warn("Review update denied", map[string]interface{}{
			"review_id": id,
			"actor_id":  actor.ID,
			"owner_id":  review.UserID,
		})
		return nil, ErrPermissionDenied
	}

	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if content == "" {
		return nil, ErrContentRequired
	}
	if rating < 1 || rating > 5 {
		return nil, ErrRatingOutOfRange
	}

	review.Title = title
	review.Content = content
	review.Rating = rating
	if imageURL != "" {
		review.ImageURL = imageURL
	}

	if err := s.reviewRepo.UpdateReview(review); err != nil {
		logger.Error("Failed to update review", err, map[string]interface{}{
			"review_id": id,
		})
		return nil, err
	}

	logger.Info("Review updated", map[string]interface{}{
		"review_id": id,
		"actor_id":  actor.ID,
	})
	return review, nil
}

// DeleteReview는 작성자 본인 또는 운영진만 삭제할 수 있습니다.
// 좋아요/댓글을 포함해 하나의 트랜잭션으로 삭제합니다.
func (s *reviewService) DeleteReview(actor *model.User, id uint) error {
	review, err := s.reviewRepo.GetReviewByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if review.UserID != actor.ID && !actor.Role.CanModerate() {
		logger.Warn("Review delete denied", map[string]interface{}{
			"review_id": id,
			"actor_id":  actor.ID,
			"owner_id":  review.UserID,
		})
		return ErrPermissionDenied
	}

	if err := s.reviewRepo.DeleteReviewCascade(id); err != nil {
		logger.Error("Failed to delete review", err, map[string]interface{}{
			"review_id": id,
		})
		return err
	}

	logger.Info("Review deleted", map[string]interface{}{
		"review_id": id,
		"actor_id":  actor.ID,
	})
	return nil
}

// LikeReview는 좋아요를 등록하고 현재 좋아요 수를 반환합니다. 중복 호출은 멱등.
func (s *reviewService) LikeReview(userID, reviewID uint) (int64, error) {
	if _, err := s.GetReview(reviewID); err != nil {
		return 0, err
	}

	like := &model.ReviewLike{
		ReviewID: reviewID,
		UserID:   userID,
	}
	if err := s.reviewRepo.AddLike(like); err != nil {
		logger.Error("Failed to add like", err, map[string]interface{}{
			"review_id": reviewID,
			"user_id":   userID,
		})
		return 0, err
	}

	count, err := s.reviewRepo.CountLikes(reviewID)
	if err != nil {
		return 0, err
	}

	s.publish(FeedEvent{
		Type:     "review_liked",
		ReviewID: reviewID,
		UserID:   userID,
	})

	return count, nil
}

// UnlikeReview는 좋아요를 취소하고 현재 좋아요 수를 반환합니다. 멱등.
func (s *reviewService) UnlikeReview(userID, reviewID uint) (int64, error) {
	if _, err := s.GetReview(reviewID); err != nil {
		return 0, err
	}

	if err := s.reviewRepo.RemoveLike(reviewID, userID); err != nil {
		logger.Error("Failed to remove like", err, map[string]interface{}{
			"review_id": reviewID,
			"user_id":   userID,
		})
		return 0, err
	}

	return s.reviewRepo.CountLikes(reviewID)
}

func (s *reviewService) AddComment(userID, reviewID uint, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentRequired
	}

	if _, err := s.GetReview(reviewID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ReviewID: reviewID,
		UserID:   userID,
		Content:  content,
	}
	if err := s.reviewRepo.CreateComment(comment); err != nil {
		logger.Error("Failed to create comment", err, map[string]interface{}{
			"review_id": reviewID,
			"user_id":   userID,
		})
		return nil, err
	}

	s.publish(FeedEvent{
		Type:     "comment_added",
		ReviewID: reviewID,
		UserID:   userID,
	})

	return comment, nil
}

func (s *reviewService) ListComments(reviewID uint) ([]model.Comment, error) {
	if _, err := s.GetReview(reviewID); err != nil {
		return nil, err
	}
	return s.reviewRepo.GetCommentsByReviewID(reviewID)
}

// DeleteComment는 댓글 작성자 본인 또는 운영진만 삭제할 수 있습니다.
func (s *reviewService) DeleteComment(actor *model.User, commentID uint) error {
	comment, err := s.reviewRepo.GetCommentByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if comment.UserID != actor.ID && !actor.Role.CanModerate() {
		return ErrPermissionDenied
	}

	return s.reviewRepo.DeleteComment(commentID)
}

func (s *reviewService) publish(event FeedEvent) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(event)
}
