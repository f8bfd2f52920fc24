package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Kariqs/tiendeo-api/services"
	"github.com/gin-gonic/gin"
)

const (
	msgInvalidInput          = "invalid input"
	msgInternalServerError   = "Internal server error"
	msgFailedToGenerateToken = "failed to generate token"
	msgLoggedOut             = "logged out"
	msgPasswordChanged       = "password updated successfully"
)

// Dependencies are the services handlers delegate to.
type Dependencies struct {
	Orders    *services.OrderService
	Stores    *services.StoreService
	Catalog   *services.CatalogService
	Accounts  *services.AccountService
	JWTSecret string
	TokenTTL  time.Duration
}

var deps Dependencies

func Setup(d Dependencies) {
	deps = d
}

func sendJSONResponse(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrPrecondition), errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondWithError maps service error kinds to HTTP statuses and hides internal failures.
func respondWithError(ctx *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			"method", ctx.Request.Method,
			"path", ctx.FullPath(),
			"error", err.Error(),
		)
	}
	sendErrorResponse(ctx, status, services.Message(err, msgInternalServerError))
}
