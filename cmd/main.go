package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/postline/backend/config"
	"github.com/postline/backend/internal/handler"
	"github.com/postline/backend/internal/middleware"
	"github.com/postline/backend/internal/repository"
	"github.com/postline/backend/internal/router"
	"github.com/postline/backend/internal/service"
	"github.com/postline/backend/pkg/database"
	"github.com/postline/backend/pkg/logger"
	"github.com/postline/backend/pkg/redis"
	"github.com/postline/backend/pkg/storage"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize Zap logger
	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	db, err := database.NewPostgresDB(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	redisClient := redis.NewClient(redis.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Database,
		Enabled:      cfg.Redis.Enabled,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, logger.GetLogger())
	defer redisClient.Close()

	logger.GetLogger().Info("Redis client initialized",
		zap.Bool("enabled", redisClient.IsEnabled()),
	)

	files, err := storage.New(cfg.Storage.Dir)
	if err != nil {
		logger.GetLogger().Fatal("Failed to initialize file storage", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Services
	tokenService := service.NewTokenService(cfg.JWT)
	authService := service.NewAuthService(userRepo, tokenService)
	userService := service.NewUserService(userRepo)
	feedCache := service.NewFeedCache(redisClient)
	postService := service.NewPostService(postRepo, files, feedCache)
	commentService := service.NewCommentService(commentRepo, postRepo)
	searchService := service.NewSearchService(userRepo, postRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	postHandler := handler.NewPostHandler(postService, commentService)
	commentHandler := handler.NewCommentHandler(commentService)
	searchHandler := handler.NewSearchHandler(searchService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	authMiddleware := middleware.NewAuthMiddleware(tokenService, userRepo)

	r := router.NewRouter(
		authHandler,
		userHandler,
		postHandler,
		commentHandler,
		searchHandler,
		healthHandler,

		authMiddleware,
		cfg,
		files.Dir(),
	).SetupRoutes()

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", cfg.App.Port),
		)
		if err := r.Run(":" + cfg.App.Port); err != nil {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", cfg.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")
}
