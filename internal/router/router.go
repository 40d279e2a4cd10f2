package router

import (
	"database/sql"

	"tableorder_backend/internal/events"
	"tableorder_backend/internal/handlers"
	"tableorder_backend/internal/middleware"
	"tableorder_backend/internal/repositories"
	"tableorder_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup wires repositories, services and handlers and registers all routes.
// A nil db selects the in-memory store: local-only mode with the seeded
// tables and house menu, used for development and degraded operation.
func Setup(engine *gin.Engine, db *sql.DB, publisher events.Publisher) {
	// Initialize Repositories
	var (
		tableRepo repositories.TableRepository
		orderRepo repositories.OrderRepository
		pinRepo   repositories.PinRepository
		menuRepo  repositories.MenuRepository
		salesRepo repositories.SalesRepository
		authRepo  repositories.AuthRepository
	)
	if db == nil {
		mem := repositories.NewMemoryStore()
		tableRepo, orderRepo, pinRepo, menuRepo, salesRepo, authRepo = mem, mem, mem, mem, mem, mem
	} else {
		tableRepo = repositories.NewTableRepository(db)
		orderRepo = repositories.NewOrderRepository(db)
		pinRepo = repositories.NewPinRepository(db)
		menuRepo = repositories.NewMenuRepository(db)
		salesRepo = repositories.NewSalesRepository(db)
		authRepo = repositories.NewAuthRepository(db)
	}

	// Shared in-process state
	ledger := services.NewSessionLedger()
	overrides := services.NewOverrideStore()

	// Initialize Services
	pinService := services.NewPinService(pinRepo)
	menuService := services.NewMenuService(menuRepo)
	tableService := services.NewTableService(tableRepo, orderRepo, pinService, ledger, overrides)
	orderService := services.NewOrderService(db, orderRepo, menuService, ledger, overrides, publisher)
	checkoutService := services.NewCheckoutService(db, orderRepo, salesRepo, ledger, overrides, publisher)
	kitchenService := services.NewKitchenService(db, orderRepo, tableRepo, publisher)
	authService := services.NewAuthService(db, authRepo)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	tableHandler := handlers.NewTableHandler(tableService)
	menuHandler := handlers.NewMenuHandler(menuService)
	orderHandler := handlers.NewOrderHandler(orderService, tableService)
	kitchenHandler := handlers.NewKitchenHandler(kitchenService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, tableService)

	apiV1 := engine.Group("/api/v1")
	apiV1.Use(middleware.DeviceMiddleware(services.NewDeviceToken))

	SetupAuthRoutes(apiV1, authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupTableRoutes(authenticated, tableHandler, checkoutHandler)
		SetupMenuRoutes(authenticated, menuHandler)
		SetupOrderRoutes(authenticated, orderHandler)
		SetupKitchenRoutes(authenticated, kitchenHandler)
		SetupSalesRoutes(authenticated, checkoutHandler)
	}
}
