package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Kariqs/tiendeo-api/metrics"
	"github.com/Kariqs/tiendeo-api/services"
	"github.com/Kariqs/tiendeo-api/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-secret"

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(sessions.Sessions("test_session", cookie.NewStore([]byte(secret))))

	engine.POST("/session", func(ctx *gin.Context) {
		session := sessions.Default(ctx)
		SaveAuth(session, services.AuthContext{
			UserID: "u-1", Email: "owner@fruver.test", Role: services.RoleStoreOwner,
			StoreID: "s-1", StoreSlug: "fruver",
		})
		_ = session.Save()
		ctx.Status(http.StatusNoContent)
	})
	engine.GET("/api/:storeSlug/admin", RequireAuth(secret), RequireStoreStaff(), func(ctx *gin.Context) {
		ctx.String(http.StatusOK, GetAuth(ctx).UserID)
	})
	engine.GET("/api/admin", RequireAuth(secret), RequireSuperadmin(), func(ctx *gin.Context) {
		ctx.String(http.StatusOK, GetAuth(ctx).Email)
	})
	return engine
}

func token(t *testing.T, claims utils.Claims) string {
	t.Helper()
	tok, err := utils.GenerateJWT(claims, secret, time.Hour)
	require.NoError(t, err)
	return tok
}

func get(engine *gin.Engine, path, authorization, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRequireAuthBearer(t *testing.T) {
	engine := newEngine()
	staff := token(t, utils.Claims{UserID: "u-1", Email: "owner@fruver.test", Role: "STORE_OWNER", StoreID: "s-1", StoreSlug: "fruver"})
	admin := token(t, utils.Claims{UserID: "u-9", Email: "admin@tiendeo.com", Role: "SUPERADMIN"})

	tests := []struct {
		name          string
		path          string
		authorization string
		want          int
	}{
		{"anonymous", "/api/fruver/admin", "", http.StatusUnauthorized},
		{"not bearer", "/api/fruver/admin", "Basic abc", http.StatusUnauthorized},
		{"bad token", "/api/fruver/admin", "Bearer abc", http.StatusUnauthorized},
		{"staff of store", "/api/fruver/admin", "Bearer " + staff, http.StatusOK},
		{"staff of other store", "/api/panaderia/admin", "Bearer " + staff, http.StatusForbidden},
		{"superadmin on store", "/api/fruver/admin", "Bearer " + admin, http.StatusForbidden},
		{"superadmin", "/api/admin", "Bearer " + admin, http.StatusOK},
		{"staff on superadmin", "/api/admin", "Bearer " + staff, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(engine, tt.path, tt.authorization, "")
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequireAuthExpiredToken(t *testing.T) {
	engine := newEngine()
	expired, err := utils.GenerateJWT(utils.Claims{UserID: "u-1", Role: "STORE_OWNER", StoreSlug: "fruver"}, secret, -time.Minute)
	require.NoError(t, err)

	w := get(engine, "/api/fruver/admin", "Bearer "+expired, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthSession(t *testing.T) {
	engine := newEngine()

	req := httptest.NewRequest(http.MethodPost, "/session", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	cookie, _, _ := strings.Cut(w.Header().Get("Set-Cookie"), ";")

	w = get(engine, "/api/fruver/admin", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1", w.Body.String())
}

func TestMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := metrics.NewServerMetrics(reg)

	engine := gin.New()
	engine.Use(Metrics(m))
	engine.GET("/api/:storeSlug/products", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	get(engine, "/api/fruver/products", "", "")
	get(engine, "/api/panaderia/products", "", "")
	get(engine, "/missing", "", "")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "/api/:storeSlug/products", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "unmatched", "404")))
}
