package routes

import (
	"github.com/Kariqs/tiendeo-api/controllers"
	"github.com/Kariqs/tiendeo-api/middlewares"
	"github.com/gin-gonic/gin"
)

func StoreRoutes(server *gin.Engine, jwtSecret string) {
	admin := server.Group("/api/admin/stores", middlewares.RequireAuth(jwtSecret), middlewares.RequireSuperadmin())
	{
		admin.GET("", controllers.GetStores)
		admin.POST("", controllers.CreateStore)
		admin.GET("/:id", controllers.GetStore)
		admin.PATCH("/:id", controllers.UpdateStore)
	}

	staff := server.Group("/api/:storeSlug/admin/store", middlewares.RequireAuth(jwtSecret), middlewares.RequireStoreStaff())
	{
		staff.GET("", controllers.GetOwnStore)
		staff.PATCH("", controllers.UpdateOwnStore)
	}
}
