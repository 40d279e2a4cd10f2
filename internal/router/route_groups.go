package router

import (
	"tableorder_backend/internal/handlers"
	"tableorder_backend/internal/middleware"
	"tableorder_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(middleware.AuthMiddleware())
		{
			authRequiredRoutes.GET("/me", authHandler.Me)
		}
	}
}

// SetupTableRoutes sets up the table grid, PIN and checkout routes.
func SetupTableRoutes(authenticatedGroup *gin.RouterGroup, tableHandler *handlers.TableHandler, checkoutHandler *handlers.CheckoutHandler) {
	tableRoutes := authenticatedGroup.Group("/tables")
	{
		tableRoutes.GET("", tableHandler.ListTables)
		tableRoutes.GET("/:slug", tableHandler.GetTableBySlug)
		tableRoutes.POST("/:slug/pin", tableHandler.AuthenticatePin)
		tableRoutes.GET("/:slug/bill", checkoutHandler.PreviewBill)

		ownerRoutes := tableRoutes.Group("")
		ownerRoutes.Use(middleware.RoleAuthMiddleware(models.RoleOwner))
		{
			ownerRoutes.POST("/:slug/checkout", checkoutHandler.FinalizeCheckout)
			ownerRoutes.PUT("/:slug/override", tableHandler.SetOverride)
			ownerRoutes.DELETE("/:slug/override", tableHandler.ClearOverride)
			ownerRoutes.PUT("/:slug/pin-config", tableHandler.ConfigurePin)
			ownerRoutes.DELETE("/:slug/pin-config", tableHandler.RemovePin)
		}
	}
}

// SetupMenuRoutes sets up the menu catalog routes.
func SetupMenuRoutes(authenticatedGroup *gin.RouterGroup, menuHandler *handlers.MenuHandler) {
	menuRoutes := authenticatedGroup.Group("/menu-items")
	{
		menuRoutes.GET("", menuHandler.GetMenu)
		menuRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleOwner), menuHandler.CreateMenuItem)
	}
}

// SetupOrderRoutes sets up the customer ordering routes.
func SetupOrderRoutes(authenticatedGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	orderRoutes := authenticatedGroup.Group("/orders")
	{
		orderRoutes.POST("", orderHandler.SubmitOrder)
		orderRoutes.GET("/mine", orderHandler.MyOrders)
		orderRoutes.GET("/:id", orderHandler.GetOrder)
	}
}

// SetupKitchenRoutes sets up the kitchen display routes.
func SetupKitchenRoutes(authenticatedGroup *gin.RouterGroup, kitchenHandler *handlers.KitchenHandler) {
	kitchenRoutes := authenticatedGroup.Group("/kitchen")
	kitchenRoutes.Use(middleware.RoleAuthMiddleware(models.RoleOwner))
	{
		kitchenRoutes.GET("/orders", kitchenHandler.ListQueue)
		kitchenRoutes.POST("/orders/:id/advance", kitchenHandler.AdvanceOrder)
	}
}

// SetupSalesRoutes sets up the sales history routes.
func SetupSalesRoutes(authenticatedGroup *gin.RouterGroup, checkoutHandler *handlers.CheckoutHandler) {
	salesRoutes := authenticatedGroup.Group("/sales")
	salesRoutes.Use(middleware.RoleAuthMiddleware(models.RoleOwner))
	{
		salesRoutes.GET("", checkoutHandler.GetSalesRecords)
		salesRoutes.GET("/summary", checkoutHandler.GetSalesSummary)
		salesRoutes.DELETE("", checkoutHandler.ClearSalesHistory)
	}
}
