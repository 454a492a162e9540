package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikkim/reviewhub-backend/internal/app/model"
	"github.com/ikkim/reviewhub-backend/pkg/util"
)

const (
	testJWTSecret  = "test-jwt-secret-for-middleware"
	testCookieName = "session_token"
)

// fakeBlacklistChecker는 고정된 토큰 집합을 폐기된 것으로 취급합니다.
type fakeBlacklistChecker struct {
	revoked map[string]bool
	err     error
}

func (f *fakeBlacklistChecker) IsTokenBlacklisted(_ context.Context, token string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[token], nil
}

func setupMiddlewareTest(blacklist BlacklistChecker) (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	middleware := NewAuthMiddleware(testJWTSecret, testCookieName, blacklist)
	return router, middleware
}

func generateTestToken(t *testing.T, userID uint, email, role string) string {
	t.Helper()

	tokens, err := util.GenerateTokenPair(
		userID,
		email,
		role,
		testJWTSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
	require.NoError(t, err)
	return tokens.AccessToken
}

func identityHandler(c *gin.Context) {
	userID, _ := GetUserID(c)
	email, _ := GetUserEmail(c)
	role, _ := GetUserRole(c)

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"email":   email,
		"role":    role,
	})
}

func TestAuthMiddleware_Authenticate_TokenSources(t *testing.T) {
	token := generateTestToken(t, 1, "test@example.com", "user")

	tests := []struct {
		name       string
		setRequest func(req *http.Request)
		wantStatus int
	}{
		{
			name: "Bearer header",
			setRequest: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+token)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "Session cookie",
			setRequest: func(req *http.Request) {
				req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "Query parameter",
			setRequest: func(req *http.Request) {
				q := req.URL.Query()
				q.Set("token", token)
				req.URL.RawQuery = q.Encode()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "Missing credentials",
			setRequest: func(req *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "Malformed authorization header",
			setRequest: func(req *http.Request) {
				req.Header.Set("Authorization", "Token "+token)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "Invalid token",
			setRequest: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer not-a-token")
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, authMiddleware := setupMiddlewareTest(nil)
			router.GET("/test", authMiddleware.Authenticate(), identityHandler)

			req := httptest.NewRequest("GET", "/test", nil)
			tt.setRequest(req)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAuthMiddleware_Authenticate_ExpiredToken(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	router.GET("/test", authMiddleware.Authenticate(), identityHandler)

	tokens, err := util.GenerateTokenPair(1, "test@example.com", "user", testJWTSecret, -time.Minute, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_TOKEN_EXPIRED")
}

func TestAuthMiddleware_Authenticate_RevokedToken(t *testing.T) {
	token := generateTestToken(t, 1, "test@example.com", "user")

	blacklist := &fakeBlacklistChecker{revoked: map[string]bool{token: true}}
	router, authMiddleware := setupMiddlewareTest(blacklist)
	router.GET("/test", authMiddleware.Authenticate(), identityHandler)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_TOKEN_REVOKED")
}

func TestAuthMiddleware_Authenticate_BlacklistFailOpen(t *testing.T) {
	token := generateTestToken(t, 1, "test@example.com", "user")

	// 블랙리스트 조회 실패는 인증을 막지 않는다
	blacklist := &fakeBlacklistChecker{err: errors.New("redis down")}
	router, authMiddleware := setupMiddlewareTest(blacklist)
	router.GET("/test", authMiddleware.Authenticate(), identityHandler)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_Authenticate_SetsContext(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)

	var gotUserID uint
	var gotEmail string
	var gotRole model.UserRole
	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		gotUserID, _ = GetUserID(c)
		gotEmail, _ = GetUserEmail(c)
		gotRole, _ = GetUserRole(c)
		c.Status(http.StatusOK)
	})

	token := generateTestToken(t, 42, "ctx@example.com", "staff")
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(42), gotUserID)
	assert.Equal(t, "ctx@example.com", gotEmail)
	assert.Equal(t, model.RoleStaff, gotRole)
}

func TestAuthMiddleware_OptionalAuthenticate(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)

	router.GET("/test", authMiddleware.OptionalAuthenticate(), func(c *gin.Context) {
		if userID, ok := GetUserID(c); ok {
			c.JSON(http.StatusOK, gin.H{"user_id": userID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"guest": true})
	})

	// 토큰 없이 게스트로 통과
	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "guest")

	// 잘못된 토큰도 게스트로 통과
	req = httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "guest")

	// 유효한 토큰이면 사용자 정보 설정
	token := generateTestToken(t, 7, "opt@example.com", "user")
	req = httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user_id")
}

func TestAuthMiddleware_RequireModerator(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{name: "Admin allowed", role: "admin", wantStatus: http.StatusOK},
		{name: "Staff allowed", role: "staff", wantStatus: http.StatusOK},
		{name: "Regular user forbidden", role: "user", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, authMiddleware := setupMiddlewareTest(nil)
			router.GET("/admin", authMiddleware.Authenticate(), authMiddleware.RequireModerator(), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			token := generateTestToken(t, 1, "role@example.com", tt.role)
			req := httptest.NewRequest("GET", "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAuthMiddleware_RequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{name: "Admin allowed", role: "admin", wantStatus: http.StatusOK},
		{name: "Staff forbidden", role: "staff", wantStatus: http.StatusForbidden},
		{name: "Regular user forbidden", role: "user", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, authMiddleware := setupMiddlewareTest(nil)
			router.GET("/admin", authMiddleware.Authenticate(), authMiddleware.RequireAdmin(), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			token := generateTestToken(t, 1, "role@example.com", tt.role)
			req := httptest.NewRequest("GET", "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
