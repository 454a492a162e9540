package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ikkim/reviewhub-backend/config"
	"github.com/ikkim/reviewhub-backend/internal/app/controller"
	"github.com/ikkim/reviewhub-backend/internal/app/repository"
	"github.com/ikkim/reviewhub-backend/internal/app/service"
	"github.com/ikkim/reviewhub-backend/internal/db"
	"github.com/ikkim/reviewhub-backend/internal/middleware"
	"github.com/ikkim/reviewhub-backend/internal/realtime"
	"github.com/ikkim/reviewhub-backend/internal/router"
	"github.com/ikkim/reviewhub-backend/internal/scheduler"
	"github.com/ikkim/reviewhub-backend/internal/storage"
	"github.com/ikkim/reviewhub-backend/pkg/logger"
	"github.com/ikkim/reviewhub-backend/pkg/oauth/google"
	"github.com/ikkim/reviewhub-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting REVIEWHUB Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	database, err := db.New(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(database); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize redis (token blacklist, stats cache, rate limits)
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		logger.Warn("Redis unavailable - blacklist, cache and rate limits disabled", map[string]interface{}{
			"error": err.Error(),
		})
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Initialize Google OAuth client (optional)
	var oauthClient *google.Client
	if cfg.OAuth.Google.ClientID != "" {
		oauthClient, err = google.NewClient(google.Config{
			ClientID:     cfg.OAuth.Google.ClientID,
			ClientSecret: cfg.OAuth.Google.ClientSecret,
			RedirectURL:  cfg.OAuth.Google.RedirectURL,
		})
		if err != nil {
			logger.Fatal("Failed to initialize google oauth client", err)
		}
	} else {
		logger.Warn("Google OAuth not configured - social login disabled")
	}

	// Initialize storage driver
	var store storage.Storage
	if cfg.Upload.Driver == "s3" {
		store = storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		)
	} else {
		store, err = storage.NewLocalStorage(cfg.Upload.Dir, cfg.Upload.BaseURL)
		if err != nil {
			logger.Fatal("Failed to initialize local storage", err)
		}
	}
	uploadValidator := storage.NewValidator(cfg.Upload.MaxFileSize)

	// Initialize realtime feed hub
	hub := realtime.NewHub()
	go hub.Run()

	// Initialize repositories
	userRepo := repository.NewUserRepository(database)
	reviewRepo := repository.NewReviewRepository(database)

	// Initialize services
	var blacklist service.TokenBlacklist
	var statsCache service.StatsCache
	var counter middleware.WindowCounter
	var checker middleware.BlacklistChecker
	if redisClient != nil {
		blacklist = redisClient
		statsCache = redisClient
		counter = redisClient
		checker = redisClient
	}

	var oauth service.GoogleOAuthClient
	if oauthClient != nil {
		oauth = oauthClient
	}

	authService := service.NewAuthService(
		userRepo,
		oauth,
		blacklist,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
		cfg.OAuth.AdminEmails,
	)
	userService := service.NewUserService(userRepo)
	reviewService := service.NewReviewService(reviewRepo, hub)
	statsService := service.NewStatsService(userRepo, reviewRepo, statsCache)

	// Initialize controllers
	authController := controller.NewAuthController(authService, oauthClient, cfg.Session, cfg.Server.FrontendURL)
	reviewController := controller.NewReviewController(reviewService, userService, store, uploadValidator)
	userController := controller.NewUserController(userService, store, uploadValidator)
	statsController := controller.NewStatsController(statsService)
	reportController := controller.NewReportController(reviewService)
	uploadController := controller.NewUploadController(store, uploadValidator)
	feedController := controller.NewFeedController(hub, cfg.CORS.AllowedOrigins)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, cfg.Session.CookieName, checker)
	rateLimiter := middleware.NewRateLimiter(counter)

	// Start stats cache scheduler
	statsScheduler := scheduler.NewStatsScheduler(statsService)
	if err := statsScheduler.Start(); err != nil {
		logger.Error("Failed to start stats scheduler", err)
	}
	defer statsScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		reviewController,
		userController,
		statsController,
		reportController,
		uploadController,
		feedController,
		authMiddleware,
		rateLimiter,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
