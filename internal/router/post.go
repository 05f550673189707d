package router

import "github.com/gin-gonic/gin"

func (r *Router) postRoutes(version *gin.RouterGroup) {
	posts := version.Group("/posts")
	{
		posts.Use(r.authMw.RequireAuth())
		{
			posts.GET("", r.postHandler.GetAll)
			posts.GET("/:id", r.postHandler.GetByID)
			posts.POST("", r.postHandler.Create)
			posts.PUT("/:id", r.postHandler.Update)
			posts.DELETE("/:id", r.postHandler.Delete)

			posts.POST("/:id/like", r.postHandler.Like)
			posts.POST("/:id/unlike", r.postHandler.Unlike)
			posts.GET("/:id/likes", r.postHandler.GetLikes)
			posts.GET("/:id/comments", r.postHandler.GetComments)
		}
	}
}
