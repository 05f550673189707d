package router

import "github.com/gin-gonic/gin"

func (r *Router) userRoutes(version *gin.RouterGroup) {
	users := version.Group("/users")
	{
		users.Use(r.authMw.RequireAuth())
		{
			// Own profile, email included
			users.GET("/me", r.userHandler.Me)

			// Public profile of any user
			users.GET("/:id", r.userHandler.GetByID)

			// Update username, profile picture, bio
			users.PUT("/me", r.userHandler.UpdateProfile)

			// Change username and/or password
			users.PUT("/me/credentials", r.userHandler.UpdateCredentials)
		}
	}
}
