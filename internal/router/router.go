package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ikkim/reviewhub-backend/config"
	"github.com/ikkim/reviewhub-backend/internal/app/controller"
	"github.com/ikkim/reviewhub-backend/internal/middleware"
)

const (
	loginRateMax      = 5
	registerRateMax   = 3
	authRateWindow    = 10 * time.Minute
)

type Router struct {
	authController   *controller.AuthController
	reviewController *controller.ReviewController
	userController   *controller.UserController
	statsController  *controller.StatsController
	reportController *controller.ReportController
	uploadController *controller.UploadController
	feedController   *controller.FeedController
	authMiddleware   *middleware.AuthMiddleware
	rateLimiter      *middleware.RateLimiter
	config           *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	reviewController *controller.ReviewController,
	userController *controller.UserController,
	statsController *controller.StatsController,
	reportController *controller.ReportController,
	uploadController *controller.UploadController,
	feedController *controller.FeedController,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:   authController,
		reviewController: reviewController,
		userController:   userController,
		statsController:  statsController,
		reportController: reportController,
		uploadController: uploadController,
		feedController:   feedController,
		authMiddleware:   authMiddleware,
		rateLimiter:      rateLimiter,
		config:           cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "REVIEWHUB API is running",
		})
	})

	// Serve static files from uploads directory (local storage driver)
	if r.config.Upload.Driver == "local" {
		router.Static(r.config.Upload.BaseURL, r.config.Upload.Dir)
	}

	api := router.Group("/api")
	{
		// 인증 (IP 기준 요청 제한)
		api.POST("/register",
			r.rateLimiter.Limit("register", registerRateMax, authRateWindow),
			r.authController.Register,
		)
		api.POST("/login",
			r.rateLimiter.Limit("login", loginRateMax, authRateWindow),
			r.authController.Login,
		)
		api.POST("/logout", r.authController.Logout)
		api.POST("/reset-password",
			r.rateLimiter.Limit("reset-password", loginRateMax, authRateWindow),
			r.authController.ResetPassword,
		)
		api.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)

		auth := api.Group("/auth")
		{
			auth.GET("/google", r.authController.GoogleLogin)
			auth.GET("/google/callback", r.authController.GoogleCallback)
		}

		// 리뷰
		reviews := api.Group("/reviews")
		{
			reviews.GET("/:id", r.reviewController.Get)
			reviews.GET("/:id/comments", r.reviewController.ListComments)

			reviews.GET("", r.authMiddleware.Authenticate(), r.reviewController.List)
			reviews.POST("", r.authMiddleware.Authenticate(), r.reviewController.Create)
			reviews.PUT("/:id", r.authMiddleware.Authenticate(), r.reviewController.Update)
			reviews.DELETE("/:id", r.authMiddleware.Authenticate(), r.reviewController.Delete)

			reviews.POST("/:id/like", r.authMiddleware.Authenticate(), r.reviewController.Like)
			reviews.DELETE("/:id/like", r.authMiddleware.Authenticate(), r.reviewController.Unlike)

			reviews.POST("/:id/comment", r.authMiddleware.Authenticate(), r.reviewController.CreateComment)
		}

		api.DELETE("/comments/:id", r.authMiddleware.Authenticate(), r.reviewController.DeleteComment)

		// 업로드
		api.POST("/upload/image", r.authMiddleware.Authenticate(), r.uploadController.UploadImage)

		// 회원 (수정은 본인 또는 관리자, 나머지는 관리자 전용)
		users := api.Group("/users", r.authMiddleware.Authenticate())
		{
			users.PUT("/:id", r.userController.Update)

			users.GET("", r.authMiddleware.RequireAdmin(), r.userController.List)
			users.GET("/:id", r.authMiddleware.RequireAdmin(), r.userController.Get)
			users.DELETE("/:id", r.authMiddleware.RequireAdmin(), r.userController.Delete)
		}

		api.GET("/stats",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireModerator(),
			r.statsController.Get,
		)

		api.GET("/admin/reports/reviews",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireModerator(),
			r.reportController.ExportReviews,
		)
	}

	// 실시간 활동 피드
	router.GET("/ws/feed", r.authMiddleware.Authenticate(), r.feedController.Connect)

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
