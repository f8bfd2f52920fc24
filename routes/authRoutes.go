package routes

import (
	"github.com/Kariqs/tiendeo-api/controllers"
	"github.com/Kariqs/tiendeo-api/middlewares"
	"github.com/gin-gonic/gin"
)

func AuthRoutes(server *gin.Engine, jwtSecret string) {
	auth := server.Group("/auth")
	{
		auth.POST("/login", controllers.Login)
		auth.POST("/logout", controllers.Logout)
	}

	staff := server.Group("/api/:storeSlug/admin", middlewares.RequireAuth(jwtSecret), middlewares.RequireStoreStaff())
	staff.PATCH("/password", controllers.ChangePassword)
}
