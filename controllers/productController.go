package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetStoreProducts returns the public catalog of a store grouped by category.
func GetStoreProducts(ctx *gin.Context) {
	categories, err := deps.Catalog.ListProducts(ctx.Request.Context(), ctx.Param("storeSlug"))
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, categories)
}
