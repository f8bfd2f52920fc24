package controllers

import (
	"net/http"

	"github.com/Kariqs/tiendeo-api/middlewares"
	"github.com/Kariqs/tiendeo-api/services"
	"github.com/gin-gonic/gin"
)

func GetStores(ctx *gin.Context) {
	stores, err := deps.Stores.List(ctx.Request.Context(), middlewares.GetAuth(ctx))
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, stores)
}

func CreateStore(ctx *gin.Context) {
	var input services.CreateStoreInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	store, err := deps.Stores.Create(ctx.Request.Context(), middlewares.GetAuth(ctx), input)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, store)
}

func GetStore(ctx *gin.Context) {
	store, err := deps.Stores.Get(ctx.Request.Context(), middlewares.GetAuth(ctx), ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, store)
}

func UpdateStore(ctx *gin.Context) {
	var input services.UpdateStoreInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	store, err := deps.Stores.Update(ctx.Request.Context(), middlewares.GetAuth(ctx), ctx.Param("id"), input)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, store)
}

// GetOwnStore returns the store profile for its staff.
func GetOwnStore(ctx *gin.Context) {
	store, err := deps.Stores.GetOwn(ctx.Request.Context(), middlewares.GetAuth(ctx), ctx.Param("storeSlug"))
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, store)
}

func UpdateOwnStore(ctx *gin.Context) {
	var body struct {
		Name string `json:"name" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	store, err := deps.Stores.Rename(ctx.Request.Context(), middlewares.GetAuth(ctx), ctx.Param("storeSlug"), body.Name)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, store)
}
