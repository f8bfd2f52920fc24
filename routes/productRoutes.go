package routes

import (
	"github.com/Kariqs/tiendeo-api/controllers"
	"github.com/gin-gonic/gin"
)

func ProductRoutes(server *gin.Engine) {
	server.GET("/api/:storeSlug/products", controllers.GetStoreProducts)
}
