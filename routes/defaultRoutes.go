package routes

import (
	"net/http"

	"github.com/Kariqs/tiendeo-api/controllers"
	"github.com/gin-gonic/gin"
)

func DefaultRoutes(server *gin.Engine, metricsHandler http.Handler) {
	server.GET("/", controllers.GetHome)
	server.GET("/health", controllers.GetHealth)
	if metricsHandler != nil {
		server.GET("/metrics", gin.WrapH(metricsHandler))
	}
}
