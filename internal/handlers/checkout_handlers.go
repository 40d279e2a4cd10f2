package handlers

import (
	"errors"
	"net/http"

	"tableorder_backend/internal/middleware"
	"tableorder_backend/internal/services"
	"tableorder_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CheckoutHandler holds the checkout and table services.
type CheckoutHandler struct {
	checkoutService services.CheckoutService
	tableService    services.TableService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(cs services.CheckoutService, ts services.TableService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: cs, tableService: ts}
}

// PreviewBill returns the aggregated bill for a table without finalizing.
func (h *CheckoutHandler) PreviewBill(c *gin.Context) {
	device := middleware.DeviceToken(c)

	table, err := h.tableService.GetTableBySlug(c.Param("slug"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to resolve table.", "Internal error"))
		return
	}

	bill, err := h.checkoutService.PreviewBill(device, table)
	if err != nil {
		utils.LogError(err, "PreviewBill: error from checkoutService")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build bill.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, bill)
}

// FinalizeCheckout records the bill as a sales record and resets the table.
func (h *CheckoutHandler) FinalizeCheckout(c *gin.Context) {
	device := middleware.DeviceToken(c)

	table, err := h.tableService.GetTableBySlug(c.Param("slug"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to resolve table.", "Internal error"))
		return
	}

	bill, err := h.checkoutService.FinalizeCheckout(device, table)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		} else {
			utils.LogError(err, "FinalizeCheckout: error from checkoutService")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to finalize checkout.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, bill)
}

// GetSalesRecords returns the sales history, newest first.
func (h *CheckoutHandler) GetSalesRecords(c *gin.Context) {
	records, err := h.checkoutService.GetSalesRecords()
	if err != nil {
		utils.LogError(err, "GetSalesRecords: error from checkoutService")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to list sales records.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetSalesSummary returns the order count and income totals.
func (h *CheckoutHandler) GetSalesSummary(c *gin.Context) {
	summary, err := h.checkoutService.GetSalesSummary()
	if err != nil {
		utils.LogError(err, "GetSalesSummary: error from checkoutService")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build sales summary.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ClearSalesHistory deletes the entire sales log.
func (h *CheckoutHandler) ClearSalesHistory(c *gin.Context) {
	if err := h.checkoutService.ClearSalesHistory(); err != nil {
		utils.LogError(err, "ClearSalesHistory: error from checkoutService")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to clear sales history.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}
