package services

import (
	"errors"
	"testing"

	"tableorder_backend/internal/events"
	"tableorder_backend/internal/models"
	"tableorder_backend/internal/repositories"
)

func newOrderServiceFixture(t *testing.T) (*repositories.MemoryStore, OrderService, *SessionLedger, *OverrideStore) {
	t.Helper()
	store := repositories.NewMemoryStore()
	ledger := NewSessionLedger()
	overrides := NewOverrideStore()
	svc := NewOrderService(nil, store, NewMenuService(store), ledger, overrides, events.NoopPublisher{})
	return store, svc, ledger, overrides
}

func TestSubmitOrder(t *testing.T) {
	store, svc, ledger, overrides := newOrderServiceFixture(t)
	device := NewDeviceToken()
	table := &models.Table{ID: 3, Slug: "table-3", Name: "Table 3"}

	order, err := svc.SubmitOrder(device, table, []CartLine{
		{MenuItemID: 1, Quantity: 2}, // Kinilaw, 180 each
	})
	if err != nil {
		t.Fatalf("SubmitOrder returned error: %v", err)
	}
	if order.ID == 0 {
		t.Error("SubmitOrder returned order with zero ID")
	}
	if order.Status != models.OrderStatusPending {
		t.Errorf("new order status = %q, want %q", order.Status, models.OrderStatusPending)
	}
	if len(order.Items) != 1 {
		t.Fatalf("new order has %d items, want 1", len(order.Items))
	}
	if order.Items[0].UnitPrice != 180 {
		t.Errorf("unit price snapshot = %v, want 180", order.Items[0].UnitPrice)
	}

	// Exactly one ledger entry mirroring the cart.
	entries := ledger.Entries(device, table.ID)
	if len(entries) != 1 {
		t.Fatalf("ledger has %d entries, want 1", len(entries))
	}
	if entries[0].OrderID != order.ID {
		t.Errorf("ledger entry order ID = %d, want %d", entries[0].OrderID, order.ID)
	}
	if len(entries[0].Items) != 1 || entries[0].Items[0].Quantity != 2 {
		t.Errorf("ledger entry items = %+v, want one line with quantity 2", entries[0].Items)
	}

	// The grid flips to occupied.
	if got := overrides.Get(table.ID); got != models.StatusOccupied {
		t.Errorf("override after submit = %q, want %q", got, models.StatusOccupied)
	}

	// The order is on record for the kitchen.
	stored, err := store.GetOrderByID(order.ID)
	if err != nil {
		t.Fatalf("GetOrderByID after submit: %v", err)
	}
	if stored.TableID != table.ID {
		t.Errorf("stored order table ID = %d, want %d", stored.TableID, table.ID)
	}
}

func TestSubmitOrderPriceSnapshotSurvivesMenuEdit(t *testing.T) {
	store, svc, _, _ := newOrderServiceFixture(t)
	device := NewDeviceToken()
	table := &models.Table{ID: 1, Slug: "table-1", Name: "Table 1"}

	order, err := svc.SubmitOrder(device, table, []CartLine{{MenuItemID: 2, Quantity: 1}})
	if err != nil {
		t.Fatalf("SubmitOrder returned error: %v", err)
	}

	// Re-read through the repository: the stored line keeps its own price.
	items, err := store.GetOrderItemsByOrderID(order.ID)
	if err != nil {
		t.Fatalf("GetOrderItemsByOrderID: %v", err)
	}
	if len(items) != 1 || items[0].UnitPrice != 200 {
		t.Errorf("stored items = %+v, want one line priced 200", items)
	}
}

func TestSubmitOrderRejectsBadCarts(t *testing.T) {
	_, svc, ledger, overrides := newOrderServiceFixture(t)
	device := NewDeviceToken()
	table := &models.Table{ID: 2, Slug: "table-2", Name: "Table 2"}

	tests := []struct {
		name string
		cart []CartLine
	}{
		{"empty cart", nil},
		{"zero quantity", []CartLine{{MenuItemID: 1, Quantity: 0}}},
		{"negative quantity", []CartLine{{MenuItemID: 1, Quantity: -1}}},
		{"unknown menu item", []CartLine{{MenuItemID: 9999, Quantity: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitOrder(device, table, tt.cart)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("SubmitOrder(%s) error = %v, want ErrValidation", tt.name, err)
			}
		})
	}

	// Nothing local changed on any rejected submission.
	if ledger.HasSession(device, table.ID) {
		t.Error("ledger gained an entry from a rejected submission")
	}
	if got := overrides.Get(table.ID); got != "" {
		t.Errorf("override after rejected submissions = %q, want unset", got)
	}
}

// failingOrderRepo wraps a real repository and fails item writes, standing in
// for a database falling over mid-submission.
type failingOrderRepo struct {
	repositories.OrderRepository
}

func (f *failingOrderRepo) CreateOrderItem(executor repositories.SQLExecutor, item *models.OrderItem) (int64, error) {
	return 0, repositories.ErrDatabaseError
}

func TestSubmitOrderFailedWriteLeavesNoLocalTrace(t *testing.T) {
	store := repositories.NewMemoryStore()
	ledger := NewSessionLedger()
	overrides := NewOverrideStore()
	svc := NewOrderService(nil, &failingOrderRepo{OrderRepository: store}, NewMenuService(store), ledger, overrides, events.NoopPublisher{})

	device := NewDeviceToken()
	table := &models.Table{ID: 4, Slug: "table-4", Name: "Table 4"}

	if _, err := svc.SubmitOrder(device, table, []CartLine{{MenuItemID: 1, Quantity: 1}}); err == nil {
		t.Fatal("SubmitOrder succeeded despite failing item write")
	}

	if ledger.HasSession(device, table.ID) {
		t.Error("ledger gained an entry from a failed submission")
	}
	if got := overrides.Get(table.ID); got != "" {
		t.Errorf("override after failed submission = %q, want unset", got)
	}
}

func TestMyOrdersScopedToDevice(t *testing.T) {
	_, svc, _, _ := newOrderServiceFixture(t)
	deviceA := NewDeviceToken()
	deviceB := NewDeviceToken()
	table := &models.Table{ID: 6, Slug: "table-6", Name: "Table 6"}

	if _, err := svc.SubmitOrder(deviceA, table, []CartLine{{MenuItemID: 4, Quantity: 1}}); err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}

	if got := svc.MyOrders(deviceA, table.ID); len(got) != 1 {
		t.Errorf("MyOrders(deviceA) returned %d entries, want 1", len(got))
	}
	if got := svc.MyOrders(deviceB, table.ID); len(got) != 0 {
		t.Errorf("MyOrders(deviceB) returned %d entries, want 0", len(got))
	}
}
