package services

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"tableorder_backend/internal/events"
	"tableorder_backend/internal/models"
	"tableorder_backend/internal/repositories"
	"tableorder_backend/pkg/utils"

	"github.com/google/uuid"
)

// Bill is the aggregated bill for one table sitting, shown at checkout and
// persisted as a SalesRecord on finalize.
type Bill struct {
	BillID    string             `json:"bill_id"`
	TableID   int64              `json:"table_id"`
	TableName string             `json:"table_name"`
	Items     []models.SalesItem `json:"items"`
	Total     float64            `json:"total"`
}

// CheckoutService builds and finalizes bills. The bill merges every order of
// the sitting into per-dish lines; finalize appends the immutable sales
// record and clears the table's working state in one transaction.
type CheckoutService interface {
	PreviewBill(device string, table *models.Table) (*Bill, error)
	FinalizeCheckout(device string, table *models.Table) (*Bill, error)
	GetSalesRecords() ([]models.SalesRecord, error)
	GetSalesSummary() (*models.SalesSummary, error)
	ClearSalesHistory() error
}

type checkoutService struct {
	db        *sql.DB
	orderRepo repositories.OrderRepository
	salesRepo repositories.SalesRepository
	ledger    *SessionLedger
	overrides *OverrideStore
	publisher events.Publisher
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	db *sql.DB,
	orderRepo repositories.OrderRepository,
	salesRepo repositories.SalesRepository,
	ledger *SessionLedger,
	overrides *OverrideStore,
	publisher events.Publisher,
) CheckoutService {
	return &checkoutService{
		db:        db,
		orderRepo: orderRepo,
		salesRepo: salesRepo,
		ledger:    ledger,
		overrides: overrides,
		publisher: publisher,
	}
}

// PreviewBill aggregates the sitting's orders into the bill the staff shows
// the table. The device's session ledger is the primary source; when it is
// empty (staff checking out a table they did not order from) the active
// orders on record for the table are billed instead.
func (s *checkoutService) PreviewBill(device string, table *models.Table) (*Bill, error) {
	items, err := s.collectBillableItems(device, table.ID)
	if err != nil {
		return nil, err
	}

	bill := &Bill{
		BillID:    uuid.NewString(),
		TableID:   table.ID,
		TableName: table.Name,
		Items:     mergeBillItems(items),
	}
	for _, item := range bill.Items {
		bill.Total += item.UnitPrice * float64(item.Quantity)
	}
	return bill, nil
}

// FinalizeCheckout persists the bill as a sales record and deletes the
// sitting's orders, both in a single transaction. Only after the commit does
// it clear the device ledger and the manual status, so a failed write leaves
// the table fully intact.
func (s *checkoutService) FinalizeCheckout(device string, table *models.Table) (*Bill, error) {
	bill, err := s.PreviewBill(device, table)
	if err != nil {
		return nil, err
	}
	if len(bill.Items) == 0 {
		return nil, fmt.Errorf("%w: nothing to bill for table %d", ErrValidation, table.ID)
	}

	record := &models.SalesRecord{
		ID:        bill.BillID,
		TableID:   bill.TableID,
		TableName: bill.TableName,
		Total:     bill.Total,
		CreatedAt: time.Now(),
		Items:     bill.Items,
	}

	err = runInTx(s.db, func(executor repositories.SQLExecutor) error {
		if err := s.salesRepo.CreateSalesRecord(executor, record); err != nil {
			return err
		}
		if _, err := s.orderRepo.DeleteOrderItemsByTableID(executor, table.ID); err != nil {
			return err
		}
		if _, err := s.orderRepo.DeleteOrdersByTableID(executor, table.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to finalize checkout for table %d: %w", table.ID, err)
	}

	s.ledger.ClearTable(table.ID)
	s.overrides.Clear(table.ID)

	s.publisher.PublishCheckoutEvent(events.CheckoutEvent{
		BillID:    bill.BillID,
		TableID:   bill.TableID,
		TableName: bill.TableName,
		Total:     bill.Total,
		Timestamp: record.CreatedAt,
	})

	utils.LogInfo("checkout finalized", map[string]interface{}{
		"bill_id": bill.BillID, "table_id": bill.TableID, "total": bill.Total,
	})
	return bill, nil
}

func (s *checkoutService) GetSalesRecords() ([]models.SalesRecord, error) {
	return s.salesRepo.GetSalesRecords()
}

func (s *checkoutService) GetSalesSummary() (*models.SalesSummary, error) {
	return s.salesRepo.GetSummary()
}

func (s *checkoutService) ClearSalesHistory() error {
	return s.salesRepo.DeleteAll()
}

func (s *checkoutService) collectBillableItems(device string, tableID int64) ([]models.OrderItem, error) {
	entries := s.ledger.Entries(device, tableID)
	if len(entries) > 0 {
		var items []models.OrderItem
		for _, e := range entries {
			items = append(items, e.Items...)
		}
		return items, nil
	}

	orders, err := s.orderRepo.GetOrders(models.OrderFilters{
		TableID:  &tableID,
		Statuses: models.ActiveOrderStatuses,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load orders for table %d: %w", tableID, err)
	}
	var items []models.OrderItem
	for _, o := range orders {
		orderItems, err := s.orderRepo.GetOrderItemsByOrderID(o.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load items for order %d: %w", o.ID, err)
		}
		items = append(items, orderItems...)
	}
	return items, nil
}

// mergeBillItems folds order lines into one bill line per menu item, summing
// quantities. Merging is order-independent; lines are returned sorted by
// menu item ID for a stable bill layout.
func mergeBillItems(items []models.OrderItem) []models.SalesItem {
	byItem := map[int64]*models.SalesItem{}
	for _, item := range items {
		if line, ok := byItem[item.MenuItemID]; ok {
			line.Quantity += item.Quantity
			continue
		}
		line := &models.SalesItem{
			MenuItemID: item.MenuItemID,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
		}
		if item.MenuItem != nil {
			line.Name = item.MenuItem.Name
		}
		byItem[item.MenuItemID] = line
	}

	merged := make([]models.SalesItem, 0, len(byItem))
	for _, line := range byItem {
		merged = append(merged, *line)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].MenuItemID < merged[j].MenuItemID })
	return merged
}
