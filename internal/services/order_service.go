package services

import (
	"database/sql"
	"fmt"
	"time"

	"tableorder_backend/internal/events"
	"tableorder_backend/internal/models"
	"tableorder_backend/internal/repositories"
	"tableorder_backend/pkg/utils"
)

// CartLine is one requested line of a new order as submitted by the client.
type CartLine struct {
	MenuItemID int64   `json:"menu_item_id" binding:"required"`
	Quantity   int     `json:"quantity" binding:"required,gt=0"`
	Notes      *string `json:"notes,omitempty"`
}

// OrderService owns the order submission pipeline: validate the cart,
// snapshot unit prices from the menu, write the order and its lines in one
// transaction, then record the order in the device's session ledger and
// flip the table's status.
type OrderService interface {
	SubmitOrder(device string, table *models.Table, cart []CartLine) (*models.Order, error)
	// MyOrders returns the device's own orders for a table, oldest first.
	MyOrders(device string, tableID int64) []models.SessionEntry
	GetOrderByID(orderID int64) (*models.Order, error)
}

type orderService struct {
	db        *sql.DB // nil in local-only mode
	orderRepo repositories.OrderRepository
	menu      MenuService
	ledger    *SessionLedger
	overrides *OverrideStore
	publisher events.Publisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	db *sql.DB,
	orderRepo repositories.OrderRepository,
	menu MenuService,
	ledger *SessionLedger,
	overrides *OverrideStore,
	publisher events.Publisher,
) OrderService {
	return &orderService{
		db:        db,
		orderRepo: orderRepo,
		menu:      menu,
		ledger:    ledger,
		overrides: overrides,
		publisher: publisher,
	}
}

func (s *orderService) SubmitOrder(device string, table *models.Table, cart []CartLine) (*models.Order, error) {
	if len(cart) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}
	for i, line := range cart {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line %d has non-positive quantity", ErrValidation, i)
		}
	}

	// Snapshot unit prices before opening the transaction. A menu edit
	// after this point does not touch the submitted order.
	items := make([]models.OrderItem, 0, len(cart))
	for _, line := range cart {
		menuItem, err := s.menu.ResolveItem(line.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown menu item %d", ErrValidation, line.MenuItemID)
		}
		items = append(items, models.OrderItem{
			MenuItemID: menuItem.ID,
			Quantity:   line.Quantity,
			UnitPrice:  menuItem.Price,
			Notes:      line.Notes,
			MenuItem:   menuItem,
		})
	}

	order := &models.Order{
		TableID: table.ID,
		Status:  models.OrderStatusPending,
	}

	err := runInTx(s.db, func(executor repositories.SQLExecutor) error {
		if _, err := s.orderRepo.CreateOrder(executor, order); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
			if _, err := s.orderRepo.CreateOrderItem(executor, &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit order for table %d: %w", table.ID, err)
	}
	order.Items = items

	// Only after the durable write: the device's receipt and the grid flip.
	s.ledger.Append(device, models.SessionEntry{
		OrderID:   order.ID,
		TableID:   table.ID,
		Items:     items,
		CreatedAt: order.CreatedAt,
	})
	s.overrides.Set(table.ID, models.StatusOccupied)

	s.publisher.PublishOrderEvent(events.KeyOrderCreated, events.OrderEvent{
		OrderID:   order.ID,
		TableID:   table.ID,
		TableName: table.Name,
		Status:    order.Status,
		Items:     events.ItemsToMsg(items),
		Timestamp: time.Now(),
	})

	utils.LogInfo("order submitted", map[string]interface{}{
		"order_id": order.ID, "table_id": table.ID, "lines": len(items),
	})
	return order, nil
}

func (s *orderService) MyOrders(device string, tableID int64) []models.SessionEntry {
	return s.ledger.Entries(device, tableID)
}

func (s *orderService) GetOrderByID(orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.orderRepo.GetOrderItemsByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}
