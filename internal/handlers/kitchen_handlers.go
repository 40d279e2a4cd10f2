package handlers

import (
	"errors"
	"net/http"

	"tableorder_backend/internal/repositories"
	"tableorder_backend/internal/services"
	"tableorder_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// KitchenHandler holds the kitchen service.
type KitchenHandler struct {
	kitchenService services.KitchenService
}

// NewKitchenHandler creates a new KitchenHandler.
func NewKitchenHandler(ks services.KitchenService) *KitchenHandler {
	return &KitchenHandler{kitchenService: ks}
}

// ListQueue returns pending and preparing orders for the kitchen display,
// oldest first. With ?all=true it returns every active order instead,
// optionally filtered by table_id.
func (h *KitchenHandler) ListQueue(c *gin.Context) {
	var orders interface{}
	var err error

	if c.Query("all") == "true" {
		var tableID *int64
		if tableIDStr := c.Query("table_id"); tableIDStr != "" {
			id, parseErr := utils.StrToInt64(tableIDStr)
			if parseErr != nil {
				utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid table_id format.", parseErr.Error()))
				return
			}
			tableID = &id
		}
		orders, err = h.kitchenService.ListActiveOrders(tableID)
	} else {
		orders, err = h.kitchenService.ListQueue()
	}

	if err != nil {
		utils.LogError(err, "ListQueue: error from kitchenService")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to list kitchen orders.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, orders)
}

// AdvanceOrder moves an order one step forward in the kitchen flow.
func (h *KitchenHandler) AdvanceOrder(c *gin.Context) {
	orderID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid order ID.", err.Error()))
		return
	}

	order, err := h.kitchenService.AdvanceOrder(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order not found.", ""))
		} else {
			utils.LogError(err, "AdvanceOrder: error from kitchenService")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to advance order.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, order)
}
