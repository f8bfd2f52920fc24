package middlewares

import (
	"net/http"
	"strings"

	"github.com/Kariqs/tiendeo-api/services"
	"github.com/Kariqs/tiendeo-api/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const authContextKey = "auth"

const (
	sessionUserID    = "user_id"
	sessionEmail     = "email"
	sessionRole      = "role"
	sessionStoreID   = "store_id"
	sessionStoreSlug = "store_slug"
)

// RequireAuth resolves the caller from a bearer token, falling back to the
// session cookie, and rejects anonymous requests.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var auth services.AuthContext

		if header := ctx.GetHeader("Authorization"); header != "" {
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid authorization header"})
				return
			}
			claims, err := utils.ParseJWT(strings.TrimSpace(tokenString), secret)
			if err != nil {
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
				return
			}
			auth = services.AuthContext{
				UserID:    claims.UserID,
				Email:     claims.Email,
				Role:      services.Role(claims.Role),
				StoreID:   claims.StoreID,
				StoreSlug: claims.StoreSlug,
			}
		} else {
			auth = loadAuth(sessions.Default(ctx))
		}

		if !auth.Authenticated() {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}

		ctx.Set(authContextKey, auth)
		ctx.Next()
	}
}

// GetAuth returns the caller set by RequireAuth, or an anonymous caller.
func GetAuth(ctx *gin.Context) services.AuthContext {
	if v, ok := ctx.Get(authContextKey); ok {
		if auth, ok := v.(services.AuthContext); ok {
			return auth
		}
	}
	return services.AuthContext{}
}

func SaveAuth(session sessions.Session, auth services.AuthContext) {
	session.Set(sessionUserID, auth.UserID)
	session.Set(sessionEmail, auth.Email)
	session.Set(sessionRole, string(auth.Role))
	session.Set(sessionStoreID, auth.StoreID)
	session.Set(sessionStoreSlug, auth.StoreSlug)
}

func loadAuth(session sessions.Session) services.AuthContext {
	str := func(key string) string {
		v, _ := session.Get(key).(string)
		return v
	}
	return services.AuthContext{
		UserID:    str(sessionUserID),
		Email:     str(sessionEmail),
		Role:      services.Role(str(sessionRole)),
		StoreID:   str(sessionStoreID),
		StoreSlug: str(sessionStoreSlug),
	}
}
