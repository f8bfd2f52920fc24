package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Register mounts every route group on the server.
func Register(server *gin.Engine, jwtSecret string, metricsHandler http.Handler) {
	DefaultRoutes(server, metricsHandler)
	AuthRoutes(server, jwtSecret)
	ProductRoutes(server)
	OrderRoutes(server, jwtSecret)
	StoreRoutes(server, jwtSecret)
}
