package controllers

import (
	"log/slog"
	"net/http"

	"github.com/Kariqs/tiendeo-api/middlewares"
	"github.com/Kariqs/tiendeo-api/models"
	"github.com/Kariqs/tiendeo-api/services"
	"github.com/Kariqs/tiendeo-api/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Login authenticates a superadmin (no storeSlug) or store staff and issues
// both a bearer token and a session cookie.
func Login(ctx *gin.Context) {
	var loginData models.LoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	auth, err := deps.Accounts.Authenticate(ctx.Request.Context(), services.LoginInput{
		Email:     loginData.Email,
		Password:  loginData.Password,
		StoreSlug: loginData.StoreSlug,
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	tokenString, err := utils.GenerateJWT(utils.Claims{
		UserID:    auth.UserID,
		Email:     auth.Email,
		Role:      string(auth.Role),
		StoreID:   auth.StoreID,
		StoreSlug: auth.StoreSlug,
	}, deps.JWTSecret, deps.TokenTTL)
	if err != nil {
		slog.Error("JWT generation error", "error", err.Error())
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}

	session := sessions.Default(ctx)
	middlewares.SaveAuth(session, auth)
	if err := session.Save(); err != nil {
		slog.Error("failed to save session", "error", err.Error())
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"token": tokenString,
		"user": gin.H{
			"id":        auth.UserID,
			"email":     auth.Email,
			"role":      auth.Role,
			"storeId":   auth.StoreID,
			"storeSlug": auth.StoreSlug,
		},
	})
}

func Logout(ctx *gin.Context) {
	session := sessions.Default(ctx)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		slog.Error("failed to clear session", "error", err.Error())
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgLoggedOut})
}

// ChangePassword lets store staff replace their own password.
func ChangePassword(ctx *gin.Context) {
	var body struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	err := deps.Accounts.ChangePassword(ctx.Request.Context(), middlewares.GetAuth(ctx), ctx.Param("storeSlug"), body.CurrentPassword, body.NewPassword)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgPasswordChanged})
}
