package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ikkim/reviewhub-backend/internal/app/model"
	"github.com/ikkim/reviewhub-backend/internal/app/repository"
	"github.com/ikkim/reviewhub-backend/pkg/logger"
)

var (
	ErrInvalidRole      = errors.New("invalid role value")
	ErrPermissionDenied = errors.New("permission denied")
)

// UserService 사용자 관리 (목록/삭제는 관리자 전용, 수정은 본인 또는 운영진)
type UserService interface {
	ListUsers(offset, limit int) ([]model.User, int64, error)
	GetUser(id uint) (*model.User, error)
	UpdateUser(actor *model.User, id uint, name string, role model.UserRole, profileImage string) (*model.User, error)
	DeleteUser(id uint) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) ListUsers(offset, limit int) ([]model.User, int64, error) {
	return s.userRepo.List(offset, limit)
}

func (s *userService) GetUser(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateUser는 이름/권한/프로필 이미지를 수정합니다. 빈 값은 기존 값을 유지합니다.
// 본인 또는 운영진만 수정할 수 있으며, 권한 변경은 운영진만 가능합니다.
func (s *userService) UpdateUser(actor *model.User, id uint, name string, role model.UserRole, profileImage string) (*model.User, error) {
	if actor.ID != id && !actor.Role.CanModerate() {
		return nil, ErrPermissionDenied
	}

	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if role != "" && role != user.Role {
		if !actor.Role.CanModerate() {
			return nil, ErrPermissionDenied
		}
		if !role.IsValid() {
			return nil, ErrInvalidRole
		}
		user.Role = role
	}
	if profileImage != "" {
		user.ProfileImage = profileImage
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("User updated", map[string]interface{}{
		"user_id":  user.ID,
		"actor_id": actor.ID,
		"role":     user.Role,
	})
	return user, nil
}

// DeleteUser는 사용자를 소프트 삭제합니다.
// 작성한 리뷰는 함께 삭제하지 않습니다 (작성자 표시만 사라짐).
func (s *userService) DeleteUser(id uint) error {
	if _, err := s.GetUser(id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(id); err != nil {
		return err
	}

	logger.Info("User deleted by admin", map[string]interface{}{
		"user_id": id,
	})
	return nil
}
