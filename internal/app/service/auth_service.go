package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ikkim/reviewhub-backend/internal/app/model"
	"github.com/ikkim/reviewhub-backend/internal/app/repository"
	"github.com/ikkim/reviewhub-backend/pkg/logger"
	"github.com/ikkim/reviewhub-backend/pkg/oauth/google"
	"github.com/ikkim/reviewhub-backend/pkg/util"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrNotLocalAccount    = errors.New("account uses social login")
	ErrUserNotFound       = errors.New("user not found")
	ErrOAuthFailed        = errors.New("google authentication failed")
)

const minPasswordLength = 8

// GoogleOAuthClient는 Google 토큰 교환/프로필 조회 (테스트 대체용 인터페이스)
type GoogleOAuthClient interface {
	ExchangeCode(ctx context.Context, code string) (*google.TokenResponse, error)
	FetchUserInfo(ctx context.Context, accessToken string) (*google.UserInfo, error)
}

// TokenBlacklist는 로그아웃된 토큰 저장소 (redis 기반)
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, token string, ttl time.Duration) error
}

type AuthService interface {
	Register(email, password, name string) (*model.User, *util.TokenPair, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	ResetPassword(email, oldPassword, newPassword string) error
	LoginWithGoogle(ctx context.Context, code string) (*model.User, *util.TokenPair, error)
	Logout(ctx context.Context, token string) error
	GetUserByID(id uint) (*model.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	oauthClient   GoogleOAuthClient
	blacklist     TokenBlacklist
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	adminEmails   []string
}

func NewAuthService(
	userRepo repository.UserRepository,
	oauthClient GoogleOAuthClient,
	blacklist TokenBlacklist,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
	adminEmails []string,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		oauthClient:   oauthClient,
		blacklist:     blacklist,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
		adminEmails:   adminEmails,
	}
}

func (s *authService) Register(email, password, name string) (*model.User, *util.TokenPair, error) {
	email = normalizeEmail(email)

	logger.Info("Attempting user registration", map[string]interface{}{
		"email": email,
		"name":  name,
	})

	if len(password) < minPasswordLength {
		return nil, nil, ErrPasswordTooShort
	}

	// Check if user already exists
	existingUser, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}
	if existingUser != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrEmailAlreadyExists
	}

	// Hash password
	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	// Create user
	user := &model.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         name,
		Role:         model.RoleUser,
		LoginMethod:  model.LoginLocal,
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
		"role":    user.Role,
	})

	return user, tokens, nil
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	email = normalizeEmail(email)

	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	// 소셜 가입 계정은 비밀번호 로그인 불가
	if user.LoginMethod != model.LoginLocal {
		logger.Warn("Login failed: not a local account", map[string]interface{}{
			"email":        email,
			"login_method": user.LoginMethod,
		})
		return nil, nil, ErrNotLocalAccount
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"email":   email,
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Login successful", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
		"role":    user.Role,
	})

	return user, tokens, nil
}

// ResetPassword는 기존 비밀번호를 확인한 뒤 새 비밀번호로 교체합니다.
// 로컬 계정만 대상입니다.
func (s *authService) ResetPassword(email, oldPassword, newPassword string) error {
	email = normalizeEmail(email)

	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.LoginMethod != model.LoginLocal {
		return ErrNotLocalAccount
	}

	if !util.VerifyPassword(user.PasswordHash, oldPassword) {
		logger.Warn("Password reset failed: invalid old password", map[string]interface{}{
			"user_id": user.ID,
		})
		return ErrInvalidCredentials
	}

	hash, err := util.HashPassword(newPassword)
	if err != nil {
		logger.Error("Failed to hash new password", err)
		return err
	}

	user.PasswordHash = hash
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	logger.Info("Password reset", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}

// LoginWithGoogle은 authorization code를 교환하여 사용자를 조회하거나 생성합니다.
// 동일 이메일의 기존 계정이 있으면 Google 계정을 연결합니다.
func (s *authService) LoginWithGoogle(ctx context.Context, code string) (*model.User, *util.TokenPair, error) {
	tokenResp, err := s.oauthClient.ExchangeCode(ctx, code)
	if err != nil {
		logger.Error("Google code exchange failed", err)
		return nil, nil, ErrOAuthFailed
	}

	info, err := s.oauthClient.FetchUserInfo(ctx, tokenResp.AccessToken)
	if err != nil {
		logger.Error("Google userinfo fetch failed", err)
		return nil, nil, ErrOAuthFailed
	}

	email := normalizeEmail(info.Email)

	// 1. Google ID로 기존 사용자 조회
	user, err := s.userRepo.FindByGoogleID(info.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	if user == nil {
		// 2. 이메일로 기존 계정 조회 후 Google 계정 연결
		user, err = s.userRepo.FindByEmail(email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}

		if user != nil {
			googleID := info.ID
			user.GoogleID = &googleID
			if err := s.userRepo.Update(user); err != nil {
				return nil, nil, err
			}
			logger.Info("Linked google account to existing user", map[string]interface{}{
				"user_id": user.ID,
				"email":   email,
			})
		} else {
			// 3. 신규 사용자 생성 (허용 목록 이메일은 관리자)
			googleID := info.ID
			user = &model.User{
				Email:       email,
				Name:        info.Name,
				Role:        s.roleForEmail(email),
				LoginMethod: model.LoginGoogle,
				GoogleID:    &googleID,
			}
			if err := s.userRepo.Create(user); err != nil {
				return nil, nil, err
			}
			logger.Info("Created user from google login", map[string]interface{}{
				"user_id": user.ID,
				"email":   email,
				"role":    user.Role,
			})
		}
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

// Logout은 토큰을 만료 시각까지 블랙리스트에 등록합니다.
// Redis가 없으면 등록 없이 성공 처리합니다 (쿠키 삭제만으로 충분).
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		// 이미 만료되었거나 잘못된 토큰은 등록할 필요 없음
		return nil
	}

	if s.blacklist == nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.blacklist.BlacklistToken(ctx, token, ttl); err != nil {
		logger.Error("Failed to blacklist token", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		return err
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) issueTokens(user *model.User) (*util.TokenPair, error) {
	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
			"email":   user.Email,
		})
		return nil, err
	}
	return tokens, nil
}

func (s *authService) roleForEmail(email string) model.UserRole {
	for _, allowed := range s.adminEmails {
		if strings.EqualFold(allowed, email) {
			return model.RoleAdmin
		}
	}
	return model.RoleUser
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
