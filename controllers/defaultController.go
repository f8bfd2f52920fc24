package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to Tiendeo API. Enjoy seamless interaction with this API.

The following are the endpoints for this API:

AUTH
- POST "/auth/login" - Superadmin or store staff login
- POST "/auth/logout" - End the session

STOREFRONT
- GET "/api/:storeSlug/products" - Store catalog
- POST "/api/:storeSlug/orders" - Place an order
- GET "/api/:storeSlug/orders/:orderNumber?token=" - Track an order

STORE ADMIN
- GET "/api/:storeSlug/admin/orders?status=" - Store orders
- PATCH "/api/:storeSlug/admin/orders/:orderNumber/items/:itemId" - Update item status
- PATCH "/api/:storeSlug/admin/orders/:orderNumber/status" - Update order status
- GET/PATCH "/api/:storeSlug/admin/store" - Store profile
- PATCH "/api/:storeSlug/admin/password" - Change password

SUPERADMIN
- GET/POST "/api/admin/stores" - List or create stores
- GET/PATCH "/api/admin/stores/:id" - Read or update a store
- GET "/api/admin/orders" - Orders across stores
- GET "/api/admin/orders/stats" - Order statistics`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}

func GetHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
