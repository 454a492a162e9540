package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikkim/reviewhub-backend/config"
	"github.com/ikkim/reviewhub-backend/internal/app/repository"
	"github.com/ikkim/reviewhub-backend/internal/app/service"
	"github.com/ikkim/reviewhub-backend/internal/db"
	"github.com/ikkim/reviewhub-backend/internal/middleware"
)

const testJWTSecret = "test-jwt-secret-for-controller"

func setupAuthControllerTest(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	testDB := db.SetupTestDB(t)
	userRepo := repository.NewUserRepository(testDB)
	authService := service.NewAuthService(
		userRepo,
		nil,
		nil,
		testJWTSecret,
		15*time.Minute,
		7*24*time.Hour,
		nil,
	)

	session := config.SessionConfig{CookieName: "reviewhub_token"}
	authController := NewAuthController(authService, nil, session, "http://localhost:3000")
	authMiddleware := middleware.NewAuthMiddleware(testJWTSecret, session.CookieName, nil)

	router := gin.New()
	api := router.Group("/api")
	{
		api.POST("/register", authController.Register)
		api.POST("/login", authController.Login)
		api.POST("/logout", authController.Logout)
		api.POST("/reset-password", authController.ResetPassword)
		api.GET("/me", authMiddleware.Authenticate(), authController.Me)
	}

	return router
}

func performJSONRequest(router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthController_Register(t *testing.T) {
	router := setupAuthControllerTest(t)

	tests := []struct {
		name       string
		body       gin.H
		wantStatus int
		wantCode   string
	}{
		{
			name: "Valid registration",
			body: gin.H{
				"email":    "new@example.com",
				"password": "password123",
				"name":     "New User",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "Duplicate email",
			body: gin.H{
				"email":    "new@example.com",
				"password": "password123",
				"name":     "Duplicate",
			},
			wantStatus: http.StatusConflict,
			wantCode:   "AUTH_EMAIL_EXISTS",
		},
		{
			name: "Password too short",
			body: gin.H{
				"email":    "short@example.com",
				"password": "1234567",
				"name":     "Short",
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "AUTH_PASSWORD_TOO_SHORT",
		},
		{
			name: "Invalid email format",
			body: gin.H{
				"email":    "not-an-email",
				"password": "password123",
				"name":     "Bad Email",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "Missing name",
			body: gin.H{
				"email":    "noname@example.com",
				"password": "password123",
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSONRequest(router, "POST", "/api/register", tt.body, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Contains(t, w.Body.String(), tt.wantCode)
			}
		})
	}
}

func TestAuthController_Register_ReturnsTokensAndCookie(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := performJSONRequest(router, "POST", "/api/register", gin.H{
		"email":    "cookie@example.com",
		"password": "password123",
		"name":     "Cookie User",
	}, nil)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		User struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
		Tokens struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cookie@example.com", resp.User.Email)
	assert.Equal(t, "user", resp.User.Role)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)

	// 세션 쿠키가 HTTP-only로 내려와야 함
	var sessionCookie *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "reviewhub_token" {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)
	assert.Equal(t, resp.Tokens.AccessToken, sessionCookie.Value)
}

func TestAuthController_Login(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := performJSONRequest(router, "POST", "/api/register", gin.H{
		"email":    "login@example.com",
		"password": "password123",
		"name":     "Login User",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		name       string
		body       gin.H
		wantStatus int
		wantCode   string
	}{
		{
			name: "Valid login",
			body: gin.H{
				"email":    "login@example.com",
				"password": "password123",
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "Wrong password",
			body: gin.H{
				"email":    "login@example.com",
				"password": "wrongpassword",
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "AUTH_INVALID_CREDENTIALS",
		},
		{
			name: "Unknown email",
			body: gin.H{
				"email":    "nobody@example.com",
				"password": "password123",
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "AUTH_INVALID_CREDENTIALS",
		},
		{
			name: "Missing password",
			body: gin.H{
				"email": "login@example.com",
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSONRequest(router, "POST", "/api/login", tt.body, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Contains(t, w.Body.String(), tt.wantCode)
			}
		})
	}
}

func TestAuthController_ResetPassword(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := performJSONRequest(router, "POST", "/api/register", gin.H{
		"email":    "reset@example.com",
		"password": "oldpassword",
		"name":     "Reset User",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		name       string
		body       gin.H
		wantStatus int
		wantCode   string
	}{
		{
			name: "Wrong old password",
			body: gin.H{
				"email":       "reset@example.com",
				"oldPassword": "wrongpassword",
				"newPassword": "newpassword",
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "AUTH_INVALID_CREDENTIALS",
		},
		{
			name: "Unknown email",
			body: gin.H{
				"email":       "nobody@example.com",
				"oldPassword": "oldpassword",
				"newPassword": "newpassword",
			},
			wantStatus: http.StatusNotFound,
			wantCode:   "USER_NOT_FOUND",
		},
		{
			name: "New password too short",
			body: gin.H{
				"email":       "reset@example.com",
				"oldPassword": "oldpassword",
				"newPassword": "1234567",
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "AUTH_PASSWORD_TOO_SHORT",
		},
		{
			name: "Missing new password",
			body: gin.H{
				"email":       "reset@example.com",
				"oldPassword": "oldpassword",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "Valid reset",
			body: gin.H{
				"email":       "reset@example.com",
				"oldPassword": "oldpassword",
				"newPassword": "newpassword",
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSONRequest(router, "POST", "/api/reset-password", tt.body, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Contains(t, w.Body.String(), tt.wantCode)
			}
		})
	}

	// 변경된 비밀번호로 로그인 확인
	w = performJSONRequest(router, "POST", "/api/login", gin.H{
		"email":    "reset@example.com",
		"password": "newpassword",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthController_Me(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := performJSONRequest(router, "POST", "/api/register", gin.H{
		"email":    "me@example.com",
		"password": "password123",
		"name":     "Me User",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Tokens struct {
			AccessToken string `json:"access_token"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// 인증된 요청
	w = performJSONRequest(router, "GET", "/api/me", nil, map[string]string{
		"Authorization": "Bearer " + resp.Tokens.AccessToken,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "me@example.com")
	// 비밀번호 해시는 응답에 포함되지 않아야 함
	assert.NotContains(t, w.Body.String(), "password_hash")

	// 토큰 없는 요청
	w = performJSONRequest(router, "GET", "/api/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthController_Logout(t *testing.T) {
	router := setupAuthControllerTest(t)

	w := performJSONRequest(router, "POST", "/api/register", gin.H{
		"email":    "logout@example.com",
		"password": "password123",
		"name":     "Logout User",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	// 토큰 없이도 로그아웃은 성공하며 세션 쿠키를 비운다
	w = performJSONRequest(router, "POST", "/api/logout", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var cleared *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "reviewhub_token" {
			cleared = cookie
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}
