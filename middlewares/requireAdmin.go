package middlewares

import (
	"net/http"

	"github.com/Kariqs/tiendeo-api/services"
	"github.com/gin-gonic/gin"
)

func RequireSuperadmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		auth := GetAuth(ctx)
		if !auth.Authenticated() {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not found in context"})
			return
		}
		if !auth.IsSuperadmin() {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Superadmin access required"})
			return
		}

		ctx.Next()
	}
}

// RequireStoreStaff admits only staff of the store named by the :storeSlug parameter.
func RequireStoreStaff() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		auth := GetAuth(ctx)
		if !auth.Authenticated() {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not found in context"})
			return
		}
		if auth.Role != services.RoleStoreOwner || auth.StoreSlug != ctx.Param("storeSlug") {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "You do not have access to this store"})
			return
		}

		ctx.Next()
	}
}
