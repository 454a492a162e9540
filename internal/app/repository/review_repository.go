package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ikkim/reviewhub-backend/internal/app/model"
)

// ReviewWithCounts 리뷰 + 집계 (목록/상세 응답용)
type ReviewWithCounts struct {
	model.Review
	LikeCount    int64 `json:"like_count"`    // 좋아요 수
	CommentCount int64 `json:"comment_count"` // 댓글 수
}

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const countsSelect = "reviews.*, " +
	"(SELECT COUNT(*) FROM review_likes WHERE review_likes.review_id = reviews.id) AS like_count, " +
	"(SELECT COUNT(*) FROM comments WHERE comments.review_id = reviews.id) AS comment_count"

// CreateReview 리뷰 생성
func (r *ReviewRepository) CreateReview(review *model.Review) error {
	return r.db.Create(review).Error
}

// GetReviewByID ID로 리뷰 조회 (작성자 포함)
func (r *ReviewRepository) GetReviewByID(id uint) (*model.Review, error) {
	var review model.Review
	err := r.db.Preload("User").First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// GetReviewWithCounts ID로 리뷰 + 집계 조회
func (r *ReviewRepository) GetReviewWithCounts(id uint) (*ReviewWithCounts, error) {
	var review ReviewWithCounts
	err := r.db.Model(&model.Review{}).
		Select(countsSelect).
		Preload("User").
		Where("reviews.id = ?", id).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListReviews 전체 리뷰 목록 조회 (최신순, 좋아요/댓글 수 포함)
func (r *ReviewRepository) ListReviews(offset, limit int) ([]ReviewWithCounts, int64, error) {
	var reviews []ReviewWithCounts
	var total int64

	if err := r.db.Model(&model.Review{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.Model(&model.Review{}).
		Select(countsSelect).
		Preload("User").
		Order("reviews.created_at DESC, reviews.id DESC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}

	if err := query.Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// GetReviewsByUserID 사용자별 리뷰 목록 조회
func (r *ReviewRepository) GetReviewsByUserID(userID uint, offset, limit int) ([]ReviewWithCounts, int64, error) {
	var reviews []ReviewWithCounts
	var total int64

	if err := r.db.Model(&model.Review{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.Model(&model.Review{}).
		Select(countsSelect).
		Preload("User").
		Where("reviews.user_id = ?", userID).
		Order("reviews.created_at DESC, reviews.id DESC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}

	if err := query.Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// GetRecentReviews 최근 리뷰 N건 조회 (대시보드용)
func (r *ReviewRepository) GetRecentReviews(limit int) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.Preload("User").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// UpdateReview 리뷰 수정
func (r *ReviewRepository) UpdateReview(review *model.Review) error {
	return r.db.Save(review).Error
}

// DeleteReviewCascade 리뷰와 연결된 좋아요/댓글을 하나의 트랜잭션으로 삭제.
// 부분 삭제가 남지 않도록 전체가 성공하거나 전체가 롤백된다.
func (r *ReviewRepository) DeleteReviewCascade(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", id).Delete(&model.ReviewLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("review_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Review{}, id).Error
	})
}

// AddLike 좋아요 등록. 이미 누른 경우 아무것도 하지 않는다 (멱등).
func (r *ReviewRepository) AddLike(like *model.ReviewLike) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error
}

// RemoveLike 좋아요 취소. 없는 좋아요 취소도 오류가 아니다 (멱등).
func (r *ReviewRepository) RemoveLike(reviewID, userID uint) error {
	return r.db.Where("review_id = ? AND user_id = ?", reviewID, userID).
		Delete(&model.ReviewLike{}).Error
}

// CountLikes 리뷰 좋아요 수 조회
func (r *ReviewRepository) CountLikes(reviewID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.ReviewLike{}).Where("review_id = ?", reviewID).Count(&count).Error
	return count, err
}

// CreateComment 댓글 생성
func (r *ReviewRepository) CreateComment(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

// GetCommentByID ID로 댓글 조회
func (r *ReviewRepository) GetCommentByID(id uint) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Preload("User").First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByReviewID 리뷰 댓글 목록 조회 (작성순)
func (r *ReviewRepository) GetCommentsByReviewID(reviewID uint) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.Preload("User").
		Where("review_id = ?", reviewID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteComment 댓글 삭제
func (r *ReviewRepository) DeleteComment(id uint) error {
	return r.db.Delete(&model.Comment{}, id).Error
}

// CountReviews 전체 리뷰 수 조회
func (r *ReviewRepository) CountReviews() (int64, error) {
	var count int64
	err := r.db.Model(&model.Review{}).Count(&count).Error
	return count, err
}
