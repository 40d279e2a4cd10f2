package handlers

import (
	"errors"
	"net/http"

	"tableorder_backend/internal/middleware"
	"tableorder_backend/internal/models"
	"tableorder_backend/internal/services"
	"tableorder_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TableHandler holds the table service.
type TableHandler struct {
	tableService services.TableService
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(ts services.TableService) *TableHandler {
	return &TableHandler{tableService: ts}
}

// ListTables returns the table grid with the status each table has for the
// calling device.
func (h *TableHandler) ListTables(c *gin.Context) {
	device := middleware.DeviceToken(c)

	tables, err := h.tableService.ListTables(device)
	if err != nil {
		utils.LogError(err, "ListTables: error from tableService")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to list tables.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, tables)
}

// GetTableBySlug returns one table with its status for the calling device.
func (h *TableHandler) GetTableBySlug(c *gin.Context) {
	device := middleware.DeviceToken(c)

	table, err := h.tableService.GetTableBySlug(c.Param("slug"))
	if err != nil {
		utils.LogError(err, "GetTableBySlug: error from tableService")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to resolve table.", "Internal error"))
		return
	}

	view := models.TableView{Table: *table, Status: h.tableService.ResolveStatus(device, table.ID)}
	c.JSON(http.StatusOK, view)
}

type pinAuthRequest struct {
	Pin string `json:"pin" binding:"required"`
}

// AuthenticatePin verifies a customer-entered PIN for a table and records
// the device's grant.
func (h *TableHandler) AuthenticatePin(c *gin.Context) {
	device := middleware.DeviceToken(c)

	var req pinAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload.", err.Error()))
		return
	}

	table, err := h.tableService.GetTableBySlug(c.Param("slug"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to resolve table.", "Internal error"))
		return
	}

	if err := h.tableService.AuthenticatePin(device, table.ID, req.Pin); err != nil {
		if errors.Is(err, services.ErrPinMismatch) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodePinMismatch, "Wrong PIN.", ""))
			return
		}
		utils.LogError(err, "AuthenticatePin: error from tableService")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to verify PIN.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"table_id": table.ID, "authenticated": true})
}

type overrideRequest struct {
	Status models.TableStatus `json:"status" binding:"required"`
}

// SetOverride records a staff manual status for a table.
func (h *TableHandler) SetOverride(c *gin.Context) {
	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload.", err.Error()))
		return
	}

	table, err := h.tableService.GetTableBySlug(c.Param("slug"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to resolve table.", "Internal error"))
		return
	}

	if err := h.tableService.SetOverride(table.ID, req.Status); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{"table_id": table.ID, "status": req.Status})
}

// ClearOverride removes the staff manual status for a table.
func (h *TableHandler) ClearOverride(c *gin.Context) {
	table, err := h.tableService.GetTableBySlug(c.Param("slug"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to resolve table.", "Internal error"))
		return
	}

	h.tableService.ClearOverride(table.ID)
	c.JSON(http.StatusOK, gin.H{"table_id": table.ID, "status": nil})
}

type pinConfigRequest struct {
	Pin string `json:"pin" binding:"required"`
}

// ConfigurePin sets or replaces the table's PIN. The response reports
// whether the write reached the central store or only the local cache.
func (h *TableHandler) ConfigurePin(c *gin.Context) {
	var req pinConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload.", err.Error()))
		return
	}

	table, err := h.tableService.GetTableBySlug(c.Param("slug"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to resolve table.", "Internal error"))
		return
	}

	source, err := h.tableService.ConfigurePin(table.ID, req.Pin)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{"table_id": table.ID, "source": source})
}

// RemovePin clears the table's PIN.
func (h *TableHandler) RemovePin(c *gin.Context) {
	table, err := h.tableService.GetTableBySlug(c.Param("slug"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to resolve table.", "Internal error"))
		return
	}

	h.tableService.RemovePin(table.ID)
	c.JSON(http.StatusOK, gin.H{"table_id": table.ID, "pin": nil})
}
