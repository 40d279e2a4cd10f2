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

// KitchenService backs the kitchen display: the queue of tickets still being
// worked and the one-way status progression pending -> preparing -> ready.
type KitchenService interface {
	// ListQueue returns pending and preparing orders, oldest first, with
	// their line items attached.
	ListQueue() ([]models.Order, error)
	// ListActiveOrders returns every active order (including ready), used
	// by the staff table detail view.
	ListActiveOrders(tableID *int64) ([]models.Order, error)
	// AdvanceOrder moves the order one step forward. Advancing a ready
	// order is a no-op; backwards moves do not exist.
	AdvanceOrder(orderID int64) (*models.Order, error)
}

type kitchenService struct {
	db        *sql.DB
	orderRepo repositories.OrderRepository
	tableRepo repositories.TableRepository
	publisher events.Publisher
}

// NewKitchenService creates a new KitchenService.
func NewKitchenService(db *sql.DB, orderRepo repositories.OrderRepository, tableRepo repositories.TableRepository, publisher events.Publisher) KitchenService {
	return &kitchenService{db: db, orderRepo: orderRepo, tableRepo: tableRepo, publisher: publisher}
}

func (s *kitchenService) ListQueue() ([]models.Order, error) {
	return s.listWithItems(models.OrderFilters{
		Statuses: []string{models.OrderStatusPending, models.OrderStatusPreparing},
	})
}

func (s *kitchenService) ListActiveOrders(tableID *int64) ([]models.Order, error) {
	return s.listWithItems(models.OrderFilters{
		TableID:  tableID,
		Statuses: models.ActiveOrderStatuses,
	})
}

func (s *kitchenService) listWithItems(filters models.OrderFilters) ([]models.Order, error) {
	orders, err := s.orderRepo.GetOrders(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	for i := range orders {
		items, err := s.orderRepo.GetOrderItemsByOrderID(orders[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load items for order %d: %w", orders[i].ID, err)
		}
		// A ticket with no lines still renders; the kitchen sees the
		// header and an empty body.
		orders[i].Items = items
	}
	return orders, nil
}

func (s *kitchenService) AdvanceOrder(orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}

	next, ok := nextOrderStatus(order.Status)
	if !ok {
		// Already ready. Idempotent by contract: repeated taps on the
		// kitchen display must not error.
		return order, nil
	}

	now := time.Now()
	err = runInTx(s.db, func(executor repositories.SQLExecutor) error {
		return s.orderRepo.UpdateOrderStatus(executor, orderID, next, now)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to advance order %d: %w", orderID, err)
	}
	order.Status = next
	order.UpdatedAt = now

	items, err := s.orderRepo.GetOrderItemsByOrderID(orderID)
	if err == nil {
		order.Items = items
	}

	event := events.OrderEvent{
		OrderID:   order.ID,
		TableID:   order.TableID,
		Status:    order.Status,
		Items:     events.ItemsToMsg(order.Items),
		Timestamp: now,
	}
	// Table name is display metadata on the event; a failed lookup just
	// leaves it empty.
	if table, err := s.tableRepo.GetTableByID(order.TableID); err == nil {
		event.TableName = table.Name
	}
	s.publisher.PublishOrderEvent(events.KeyOrderStatusChanged, event)

	utils.LogInfo("order advanced", map[string]interface{}{
		"order_id": order.ID, "status": order.Status,
	})
	return order, nil
}

// nextOrderStatus returns the successor status, or ok=false when the order
// is already at the end of the line.
func nextOrderStatus(status string) (string, bool) {
	switch status {
	case models.OrderStatusPending:
		return models.OrderStatusPreparing, true
	case models.OrderStatusPreparing:
		return models.OrderStatusReady, true
	default:
		return "", false
	}
}
