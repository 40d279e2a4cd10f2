package handlers

import (
	"errors"
	"net/http"

	"tableorder_backend/internal/middleware"
	"tableorder_backend/internal/repositories"
	"tableorder_backend/internal/services"
	"tableorder_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderHandler holds the order and table services.
type OrderHandler struct {
	orderService services.OrderService
	tableService services.TableService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(os services.OrderService, ts services.TableService) *OrderHandler {
	return &OrderHandler{orderService: os, tableService: ts}
}

type submitOrderRequest struct {
	TableSlug string              `json:"table_slug" binding:"required"`
	Items     []services.CartLine `json:"items" binding:"required"`
}

// SubmitOrder creates a new order from the device's cart. PIN-protected
// tables require the device to have unlocked the table first.
func (h *OrderHandler) SubmitOrder(c *gin.Context) {
	device := middleware.DeviceToken(c)

	var req submitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload.", err.Error()))
		return
	}

	table, err := h.tableService.GetTableBySlug(req.TableSlug)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to resolve table.", "Internal error"))
		return
	}

	if err := h.tableService.CanOrder(device, table.ID); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodePinRequired, "This table requires a PIN.", ""))
		return
	}

	order, err := h.orderService.SubmitOrder(device, table, req.Items)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		} else {
			utils.LogError(err, "SubmitOrder: error from orderService")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to submit order.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, order)
}

// MyOrders returns the calling device's own orders for a table.
func (h *OrderHandler) MyOrders(c *gin.Context) {
	device := middleware.DeviceToken(c)

	slug := c.Query("table")
	if slug == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Query parameter 'table' is required.", ""))
		return
	}

	table, err := h.tableService.GetTableBySlug(slug)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to resolve table.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, h.orderService.MyOrders(device, table.ID))
}

// GetOrder returns one order with its line items.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid order ID.", err.Error()))
		return
	}

	order, err := h.orderService.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order not found.", ""))
		} else {
			utils.LogError(err, "GetOrder: error from orderService")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to get order.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, order)
}
