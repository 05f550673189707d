package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/postline/backend/config"
	"github.com/postline/backend/internal/handler"
	"github.com/postline/backend/internal/middleware"
)

type Router struct {
	authHandler    *handler.AuthHandler
	userHandler    *handler.UserHandler
	postHandler    *handler.PostHandler
	commentHandler *handler.CommentHandler
	searchHandler  *handler.SearchHandler
	healthHandler  *handler.HealthHandler

	authMw *middleware.AuthMiddleware
	Config *config.Config

	// Base directory served under /storage for uploaded images.
	storageDir string
}

func NewRouter(
	auth *handler.AuthHandler,
	user *handler.UserHandler,
	post *handler.PostHandler,
	comment *handler.CommentHandler,
	search *handler.SearchHandler,
	health *handler.HealthHandler,

	authMw *middleware.AuthMiddleware,
	config *config.Config,
	storageDir string,
) *Router {
	return &Router{
		authHandler:    auth,
		userHandler:    user,
		postHandler:    post,
		commentHandler: comment,
		searchHandler:  search,
		healthHandler:  health,

		authMw:     authMw,
		Config:     config,
		storageDir: storageDir,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	registerValidators()

	router := gin.New()

	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())

	// Uploaded images are served as static files.
	router.Static("/storage", r.storageDir)

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.HealthCheck)

		v1 := api.Group("/v1")
		{
			v1.Use(middleware.RateLimit(r.Config.RateLimit.Request, time.Duration(r.Config.RateLimit.Duration)*time.Second))

			r.authRoutes(v1)
			r.userRoutes(v1)
			r.postRoutes(v1)
			r.commentRoutes(v1)
			r.searchRoutes(v1)
		}
	}

	return router
}

func (r *Router) searchRoutes(version *gin.RouterGroup) {
	version.GET("/search", r.authMw.RequireAuth(), r.searchHandler.Search)
}
