package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // 사용자 권한 타입

const (
	RoleUser  UserRole = "user"  // 일반 사용자 권한
	RoleStaff UserRole = "staff" // 운영진 권한 (관리 기능 일부 접근)
	RoleAdmin UserRole = "admin" // 관리자 권한
)

// IsValid는 저장 가능한 역할 값인지 확인합니다.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleUser, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// CanModerate는 관리 기능(사용자 관리, 타인 리뷰 수정/삭제) 접근 가능 여부.
// 권한 비교는 반드시 이 메서드를 사용한다.
func (r UserRole) CanModerate() bool {
	return r == RoleAdmin || r == RoleStaff
}

type LoginMethod string // 가입/로그인 방식

const (
	LoginLocal  LoginMethod = "local"  // 이메일/비밀번호
	LoginGoogle LoginMethod = "google" // Google OAuth
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                 // 사용자 ID
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`                    // 이메일 (소문자 정규화)
	PasswordHash string         `json:"-"`                                                    // 비밀번호 해시 (소셜 계정은 빈 값)
	Name         string         `gorm:"not null" json:"name"`                                 // 이름
	ProfileImage string         `json:"profile_image"`                                        // 프로필 이미지 URL (빈 값 = 기본 이미지)
	Role         UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"`          // 권한
	LoginMethod  LoginMethod    `gorm:"type:varchar(20);default:'local'" json:"login_method"` // 가입 방식
	GoogleID     *string        `gorm:"uniqueIndex" json:"-"`                                 // Google 계정 ID
	CreatedAt    time.Time      `json:"created_at"`                                           // 생성 시각
	UpdatedAt    time.Time      `json:"updated_at"`                                           // 수정 시각
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                       // 삭제 시각(소프트 삭제)

	Reviews []Review `gorm:"foreignKey:UserID" json:"reviews,omitempty"` // 작성 리뷰 목록
}

func (User) TableName() string {
	return "users"
}
