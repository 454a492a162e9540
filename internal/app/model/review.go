package model

import (
	"time"

	"gorm.io/gorm"
)

// Review 제품 리뷰 모델
type Review struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// 리뷰 기본 정보
	UserID  uint   `gorm:"not null;index" json:"user_id"`     // 작성자 ID
	User    User   `gorm:"foreignKey:UserID" json:"user"`     // 작성자 정보
	Title   string `gorm:"not null" json:"title"`             // 제목
	Content string `gorm:"type:text;not null" json:"content"` // 리뷰 내용
	Rating  int    `gorm:"not null;default:5" json:"rating"`  // 평점 (1~5)

	// 이미지
	ImageURL string `json:"image_url,omitempty"` // 리뷰 이미지 URL (단일, 선택)

	// 관계
	Likes    []ReviewLike `gorm:"foreignKey:ReviewID" json:"-"` // 좋아요 목록
	Comments []Comment    `gorm:"foreignKey:ReviewID" json:"-"` // 댓글 목록
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewLike 리뷰 좋아요 모델
// (review_id, user_id) 복합 유니크 — 한 사용자는 리뷰당 한 번만 좋아요 가능
type ReviewLike struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ReviewID uint `gorm:"not null;index:idx_review_likes_review_user,unique" json:"review_id"` // 리뷰 ID
	UserID   uint `gorm:"not null;index:idx_review_likes_review_user,unique" json:"user_id"`   // 사용자 ID

	Review Review `gorm:"foreignKey:ReviewID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
}

func (ReviewLike) TableName() string {
	return "review_likes"
}

// Comment 리뷰 댓글 모델
type Comment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ReviewID uint   `gorm:"not null;index" json:"review_id"`   // 리뷰 ID
	UserID   uint   `gorm:"not null;index" json:"user_id"`     // 작성자 ID
	User     User   `gorm:"foreignKey:UserID" json:"user"`     // 작성자 정보
	Content  string `gorm:"type:text;not null" json:"content"` // 댓글 내용

	Review Review `gorm:"foreignKey:ReviewID" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}
