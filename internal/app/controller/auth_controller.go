package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ikkim/reviewhub-backend/config"
	"github.com/ikkim/reviewhub-backend/internal/app/service"
	apperrors "github.com/ikkim/reviewhub-backend/internal/errors"
	"github.com/ikkim/reviewhub-backend/internal/middleware"
	"github.com/ikkim/reviewhub-backend/pkg/oauth/google"
)

const oauthStateCookie = "oauth_state"

type AuthController struct {
	authService service.AuthService
	oauthClient *google.Client
	session     config.SessionConfig
	frontendURL string
}

// NewAuthController creates the auth controller. oauthClient may be nil
// when Google login is not configured.
func NewAuthController(
	authService service.AuthService,
	oauthClient *google.Client,
	session config.SessionConfig,
	frontendURL string,
) *AuthController {
	return &AuthController{
		authService: authService,
		oauthClient: oauthClient,
		session:     session,
		frontendURL: frontendURL,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// setSessionCookie stores the access token in an HTTP-only cookie
func (ctrl *AuthController) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ctrl.session.CookieName, token, maxAge, "/", ctrl.session.CookieDomain, ctrl.session.Secure, true)
}

// Register handles user registration
// POST /api/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	user, tokens, err := ctrl.authService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			log.Warn("Registration failed: email already exists", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "이미 사용 중인 이메일입니다")
			return
		}
		if errors.Is(err, service.ErrPasswordTooShort) {
			apperrors.BadRequest(c, apperrors.AuthPasswordTooShort, "비밀번호는 8자 이상이어야 합니다")
			return
		}
		log.Error("Registration failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "register user")
		return
	}

	log.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	ctrl.setSessionCookie(c, tokens.AccessToken, 0)

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user": gin.H{
			"id":           user.ID,
			"email":        user.Email,
			"name":         user.Name,
			"role":         user.Role,
			"login_method": user.LoginMethod,
		},
		"tokens": tokens,
	})
}

// Login handles user login
// POST /api/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("Login failed: invalid credentials", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "이메일 또는 비밀번호가 올바르지 않습니다")
			return
		}
		if errors.Is(err, service.ErrNotLocalAccount) {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthLoginMethodLocal, "소셜 계정으로 가입된 이메일입니다. Google 로그인을 이용해주세요")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "login user")
		return
	}

	ctrl.setSessionCookie(c, tokens.AccessToken, 0)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user": gin.H{
			"id":           user.ID,
			"email":        user.Email,
			"name":         user.Name,
			"role":         user.Role,
			"login_method": user.LoginMethod,
		},
		"tokens": tokens,
	})
}

// ResetPassword replaces a local account's password after verifying the old one
// POST /api/reset-password
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	err := ctrl.authService.ResetPassword(req.Email, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrNotLocalAccount):
			apperrors.NotFound(c, apperrors.UserNotFound, "해당 이메일의 계정을 찾을 수 없습니다")
		case errors.Is(err, service.ErrInvalidCredentials):
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "기존 비밀번호가 올바르지 않습니다")
		case errors.Is(err, service.ErrPasswordTooShort):
			apperrors.BadRequest(c, apperrors.AuthPasswordTooShort, "비밀번호는 8자 이상이어야 합니다")
		default:
			log.Error("Password reset failed", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "reset password")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password reset successfully",
	})
}

// GoogleLogin redirects to Google's consent page
// GET /api/auth/google
func (ctrl *AuthController) GoogleLogin(c *gin.Context) {
	if ctrl.oauthClient == nil {
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.InternalConfigError, "Google 로그인이 설정되지 않았습니다")
		return
	}

	state := uuid.New().String()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/", ctrl.session.CookieDomain, ctrl.session.Secure, true)

	c.Redirect(http.StatusTemporaryRedirect, ctrl.oauthClient.AuthURL(state))
}

// GoogleCallback completes the OAuth flow
// GET /api/auth/google/callback
func (ctrl *AuthController) GoogleCallback(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	// CSRF 방지: state 쿠키 검증
	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		log.Warn("OAuth state mismatch", map[string]interface{}{
			"ip": c.ClientIP(),
		})
		apperrors.BadRequest(c, apperrors.AuthOAuthFailed, "잘못된 인증 요청입니다. 다시 시도해주세요")
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", ctrl.session.CookieDomain, ctrl.session.Secure, true)

	code := c.Query("code")
	if code == "" {
		apperrors.BadRequest(c, apperrors.AuthOAuthFailed, "인증 코드가 없습니다")
		return
	}

	user, tokens, err := ctrl.authService.LoginWithGoogle(c.Request.Context(), code)
	if err != nil {
		log.Error("Google login failed", err)
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthOAuthFailed, "Google 로그인에 실패했습니다")
		return
	}

	log.Info("Google login successful", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	ctrl.setSessionCookie(c, tokens.AccessToken, 0)

	// 프론트엔드로 복귀
	c.Redirect(http.StatusTemporaryRedirect, ctrl.frontendURL)
}

// Logout revokes the current session
// POST /api/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var token string
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}
	}
	if token == "" {
		token, _ = c.Cookie(ctrl.session.CookieName)
	}

	if token != "" {
		if err := ctrl.authService.Logout(c.Request.Context(), token); err != nil {
			log.Error("Logout failed", err)
			apperrors.InternalError(c, "")
			return
		}
	}

	ctrl.setSessionCookie(c, "", -1)

	c.JSON(http.StatusOK, gin.H{
		"message": "Logout successful",
	})
}

// Me returns the authenticated user's profile
// GET /api/me
func (ctrl *AuthController) Me(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
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
