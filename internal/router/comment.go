package router

import "github.com/gin-gonic/gin"

func (r *Router) commentRoutes(version *gin.RouterGroup) {
	comments := version.Group("/comments")
	{
		// Reading comments is public
		comments.GET("", r.commentHandler.GetAll)
		comments.GET("/:id", r.commentHandler.GetByID)

		protected := comments.Group("")
		protected.Use(r.authMw.RequireAuth())
		{
			protected.POST("", r.commentHandler.Create)
			protected.PUT("/:id", r.commentHandler.Update)
			protected.DELETE("/:id", r.commentHandler.Delete)
		}
	}
}
