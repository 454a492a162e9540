package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ikkim/reviewhub-backend/internal/app/model"
	"github.com/ikkim/reviewhub-backend/internal/app/service"
	apperrors "github.com/ikkim/reviewhub-backend/internal/errors"
	"github.com/ikkim/reviewhub-backend/internal/middleware"
	"github.com/ikkim/reviewhub-backend/internal/storage"
)

// UserController 사용자 관리 API
type UserController struct {
	userService service.UserService
	storage     storage.Storage
	validator   *storage.Validator
}

func NewUserController(userService service.UserService, store storage.Storage, validator *storage.Validator) *UserController {
	return &UserController{
		userService: userService,
		storage:     store,
		validator:   validator,
	}
}

type UpdateUserRequest struct {
	Name         string `json:"name"`
	Role         string `json:"role"` // user, staff, admin
	ProfileImage string `json:"profile_image"`
}

// List returns all users (admin only)
// GET /api/users
func (ctrl *UserController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	offset, limit := parsePagination(c)
	users, total, err := ctrl.userService.ListUsers(offset, limit)
	if err != nil {
		log.Error("Failed to list users", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
	})
}

// Get returns a single user (admin only)
// GET /api/users/:id
func (ctrl *UserController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := ctrl.userService.GetUser(id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "사용자를 찾을 수 없습니다")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// Update edits a user's name, role, or profile image.
// 본인 또는 운영진만 가능하며, 권한 변경은 운영진 전용.
// PUT /api/users/:id (JSON 또는 multipart: name, role, image?)
func (ctrl *UserController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actor, ok := loadActor(c, ctrl.userService)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		req.Name = c.PostForm("name")
		req.Role = c.PostForm("role")

		imageURL, ok := storeOptionalFormImage(c, ctrl.storage, ctrl.validator)
		if !ok {
			return
		}
		req.ProfileImage = imageURL
	} else if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	user, err := ctrl.userService.UpdateUser(actor, id, req.Name, model.UserRole(req.Role), req.ProfileImage)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.UserNotFound, "사용자를 찾을 수 없습니다")
		case errors.Is(err, service.ErrInvalidRole):
			apperrors.BadRequest(c, apperrors.AuthzInvalidRole, "올바르지 않은 역할 값입니다 (user, staff, admin)")
		case errors.Is(err, service.ErrPermissionDenied):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAccessDenied, "본인 계정만 수정할 수 있습니다")
		default:
			log.Error("Failed to update user", err, map[string]interface{}{
				"user_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update user")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    user,
	})
}

// Delete removes a user (admin only). The user's reviews are kept.
// DELETE /api/users/:id
func (ctrl *UserController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.userService.DeleteUser(id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "사용자를 찾을 수 없습니다")
			return
		}
		log.Error("Failed to delete user", err, map[string]interface{}{
			"user_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}
