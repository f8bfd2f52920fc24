package routes

import (
	"github.com/Kariqs/tiendeo-api/controllers"
	"github.com/Kariqs/tiendeo-api/middlewares"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine, jwtSecret string) {
	storefront := server.Group("/api/:storeSlug/orders")
	{
		storefront.POST("", controllers.CreateOrder)
		storefront.GET("/:orderNumber", controllers.GetCustomerOrder)
	}

	staff := server.Group("/api/:storeSlug/admin/orders", middlewares.RequireAuth(jwtSecret), middlewares.RequireStoreStaff())
	{
		staff.GET("", controllers.GetStoreOrders)
		staff.PATCH("/:orderNumber/items/:itemId", controllers.UpdateOrderItemStatus)
		staff.PATCH("/:orderNumber/status", controllers.UpdateOrderStatus)
	}

	admin := server.Group("/api/admin/orders", middlewares.RequireAuth(jwtSecret), middlewares.RequireSuperadmin())
	{
		admin.GET("", controllers.GetOrders)
		admin.GET("/stats", controllers.GetOrderStats)
	}
}
