package controllers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/Kariqs/tiendeo-api/middlewares"
	"github.com/Kariqs/tiendeo-api/services"
	"github.com/gin-gonic/gin"
)

// CreateOrder places an order for the store in the URL. No session is needed.
func CreateOrder(ctx *gin.Context) {
	var input services.CreateOrderInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := deps.Orders.Create(ctx.Request.Context(), ctx.Param("storeSlug"), input)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, result)
}

// GetCustomerOrder is the token-gated order view customers poll after checkout.
func GetCustomerOrder(ctx *gin.Context) {
	order, err := deps.Orders.GetForCustomer(ctx.Request.Context(), ctx.Param("storeSlug"), ctx.Param("orderNumber"), ctx.Query("token"))
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, order)
}

func GetStoreOrders(ctx *gin.Context) {
	orders, err := deps.Orders.ListForStore(ctx.Request.Context(), middlewares.GetAuth(ctx), ctx.Param("storeSlug"), ctx.Query("status"))
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, orders)
}

func UpdateOrderItemStatus(ctx *gin.Context) {
	var body struct {
		ItemStatus string `json:"itemStatus" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	result, err := deps.Orders.UpdateItemStatus(ctx.Request.Context(), middlewares.GetAuth(ctx),
		ctx.Param("storeSlug"), ctx.Param("orderNumber"), ctx.Param("itemId"), body.ItemStatus)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, result)
}

func UpdateOrderStatus(ctx *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse request body")
		return
	}

	order, err := deps.Orders.UpdateStatus(ctx.Request.Context(), middlewares.GetAuth(ctx),
		ctx.Param("storeSlug"), ctx.Param("orderNumber"), body.Status)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, order)
}

// GetOrders lists orders across stores for the superadmin.
func GetOrders(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 15
	}

	orders, count, err := deps.Orders.ListAll(ctx.Request.Context(), middlewares.GetAuth(ctx), services.OrderFilter{
		StoreID: ctx.Query("storeId"),
		Status:  ctx.Query("status"),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	previousPage := page - 1
	nextPage := page + 1
	totalPages := math.Ceil(float64(count) / float64(limit))

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"orders": orders,
		"metadata": gin.H{
			"total":        count,
			"currentPage":  page,
			"limit":        limit,
			"hasPrevPage":  previousPage > 0,
			"hasNextPage":  int(totalPages) > page,
			"previousPage": previousPage,
			"nextPage":     nextPage,
		},
	})
}

func GetOrderStats(ctx *gin.Context) {
	stats, err := deps.Orders.Stats(ctx.Request.Context(), middlewares.GetAuth(ctx), ctx.Query("storeId"))
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, stats)
}
