package handlers

import (
	"errors"
	"net/http"

	"tableorder_backend/internal/models"
	"tableorder_backend/internal/repositories"
	"tableorder_backend/internal/services"
	"tableorder_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MenuHandler holds the menu service.
type MenuHandler struct {
	menuService services.MenuService
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(ms services.MenuService) *MenuHandler {
	return &MenuHandler{menuService: ms}
}

// GetMenu returns the available menu items.
func (h *MenuHandler) GetMenu(c *gin.Context) {
	items, err := h.menuService.GetMenu()
	if err != nil {
		utils.LogError(err, "GetMenu: error from menuService")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to load menu.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateMenuItem adds a new dish to the catalog.
func (h *MenuHandler) CreateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload.", err.Error()))
		return
	}

	if _, err := h.menuService.CreateMenuItem(&item); err != nil {
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
		} else if errors.Is(err, repositories.ErrDuplicateKey) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Menu item already exists.", err.Error()))
		} else {
			utils.LogError(err, "CreateMenuItem: error from menuService")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create menu item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, item)
}
