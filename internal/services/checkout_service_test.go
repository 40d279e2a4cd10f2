package services

import (
	"errors"
	"testing"

	"tableorder_backend/internal/events"
	"tableorder_backend/internal/models"
	"tableorder_backend/internal/repositories"
)

type checkoutFixture struct {
	store     *repositories.MemoryStore
	orders    OrderService
	checkout  CheckoutService
	ledger    *SessionLedger
	overrides *OverrideStore
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	store := repositories.NewMemoryStore()
	ledger := NewSessionLedger()
	overrides := NewOverrideStore()
	return &checkoutFixture{
		store:     store,
		orders:    NewOrderService(nil, store, NewMenuService(store), ledger, overrides, events.NoopPublisher{}),
		checkout:  NewCheckoutService(nil, store, store, ledger, overrides, events.NoopPublisher{}),
		ledger:    ledger,
		overrides: overrides,
	}
}

func TestPreviewBillMergesAcrossOrders(t *testing.T) {
	f := newCheckoutFixture(t)
	device := NewDeviceToken()
	table := &models.Table{ID: 3, Slug: "table-3", Name: "Table 3"}

	// Two separate submissions of one Kinilaw each: the bill shows one
	// line with quantity 2 and total 360.
	for i := 0; i < 2; i++ {
		if _, err := f.orders.SubmitOrder(device, table, []CartLine{{MenuItemID: 1, Quantity: 1}}); err != nil {
			t.Fatalf("SubmitOrder %d: %v", i, err)
		}
	}

	bill, err := f.checkout.PreviewBill(device, table)
	if err != nil {
		t.Fatalf("PreviewBill: %v", err)
	}
	if bill.BillID == "" {
		t.Error("bill has empty ID")
	}
	if bill.TableName != "Table 3" {
		t.Errorf("bill table name = %q, want %q", bill.TableName, "Table 3")
	}
	if len(bill.Items) != 1 {
		t.Fatalf("bill has %d lines, want 1 merged line", len(bill.Items))
	}
	line := bill.Items[0]
	if line.Name != "Kinilaw" || line.Quantity != 2 || line.UnitPrice != 180 {
		t.Errorf("merged line = %+v, want Kinilaw x2 at 180", line)
	}
	if bill.Total != 360 {
		t.Errorf("bill total = %v, want 360", bill.Total)
	}
}

func TestMergeBillItemsOrderInsensitive(t *testing.T) {
	a := models.OrderItem{MenuItemID: 1, Quantity: 2, UnitPrice: 180, MenuItem: &models.MenuItem{ID: 1, Name: "Kinilaw"}}
	b := models.OrderItem{MenuItemID: 3, Quantity: 1, UnitPrice: 280, MenuItem: &models.MenuItem{ID: 3, Name: "Grilled Fish"}}
	c := models.OrderItem{MenuItemID: 1, Quantity: 1, UnitPrice: 180, MenuItem: &models.MenuItem{ID: 1, Name: "Kinilaw"}}

	permutations := [][]models.OrderItem{
		{a, b, c},
		{c, b, a},
		{b, a, c},
		{c, a, b},
	}

	want := []models.SalesItem{
		{MenuItemID: 1, Name: "Kinilaw", UnitPrice: 180, Quantity: 3},
		{MenuItemID: 3, Name: "Grilled Fish", UnitPrice: 280, Quantity: 1},
	}

	for i, perm := range permutations {
		got := mergeBillItems(perm)
		if len(got) != len(want) {
			t.Fatalf("permutation %d: merged to %d lines, want %d", i, len(got), len(want))
		}
		for j := range want {
			if got[j] != want[j] {
				t.Errorf("permutation %d line %d = %+v, want %+v", i, j, got[j], want[j])
			}
		}
	}
}

func TestFinalizeCheckoutRoundTrip(t *testing.T) {
	f := newCheckoutFixture(t)
	device := NewDeviceToken()
	table := &models.Table{ID: 3, Slug: "table-3", Name: "Table 3"}

	if _, err := f.orders.SubmitOrder(device, table, []CartLine{{MenuItemID: 1, Quantity: 2}}); err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}

	bill, err := f.checkout.FinalizeCheckout(device, table)
	if err != nil {
		t.Fatalf("FinalizeCheckout: %v", err)
	}
	if bill.Total != 360 {
		t.Errorf("finalized bill total = %v, want 360", bill.Total)
	}

	// The sitting is fully reset: no ledger entries, no override, no
	// active orders.
	if f.ledger.HasSession(device, table.ID) {
		t.Error("ledger still has entries after finalize")
	}
	if got := f.overrides.Get(table.ID); got != "" {
		t.Errorf("override after finalize = %q, want unset", got)
	}
	active, err := f.store.ActiveTableIDs()
	if err != nil {
		t.Fatalf("ActiveTableIDs: %v", err)
	}
	if active[table.ID] {
		t.Error("table still has active orders after finalize")
	}

	// The sale is on the books.
	records, err := f.checkout.GetSalesRecords()
	if err != nil {
		t.Fatalf("GetSalesRecords: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("sales log has %d records, want 1", len(records))
	}
	if records[0].ID != bill.BillID || records[0].Total != 360 || records[0].TableName != "Table 3" {
		t.Errorf("sales record = %+v, want bill %s total 360 for Table 3", records[0], bill.BillID)
	}

	summary, err := f.checkout.GetSalesSummary()
	if err != nil {
		t.Fatalf("GetSalesSummary: %v", err)
	}
	if summary.TotalOrders != 1 || summary.TotalIncome != 360 {
		t.Errorf("summary = %+v, want 1 order, 360 income", summary)
	}
}

func TestFinalizeCheckoutNothingToBill(t *testing.T) {
	f := newCheckoutFixture(t)
	device := NewDeviceToken()
	table := &models.Table{ID: 2, Slug: "table-2", Name: "Table 2"}

	if _, err := f.checkout.FinalizeCheckout(device, table); !errors.Is(err, ErrValidation) {
		t.Errorf("FinalizeCheckout on empty table: error = %v, want ErrValidation", err)
	}
}

func TestPreviewBillFallsBackToRemoteOrders(t *testing.T) {
	f := newCheckoutFixture(t)
	customer := NewDeviceToken()
	staff := NewDeviceToken()
	table := &models.Table{ID: 5, Slug: "table-5", Name: "Table 5"}

	if _, err := f.orders.SubmitOrder(customer, table, []CartLine{{MenuItemID: 3, Quantity: 1}}); err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}

	// The staff device has no ledger entries for the table; the bill is
	// built from the orders on record instead.
	bill, err := f.checkout.PreviewBill(staff, table)
	if err != nil {
		t.Fatalf("PreviewBill from staff device: %v", err)
	}
	if len(bill.Items) != 1 || bill.Items[0].Name != "Grilled Fish" {
		t.Fatalf("bill items = %+v, want one Grilled Fish line", bill.Items)
	}
	if bill.Total != 280 {
		t.Errorf("bill total = %v, want 280", bill.Total)
	}

	// Finalizing from the staff device also works and clears the orders.
	if _, err := f.checkout.FinalizeCheckout(staff, table); err != nil {
		t.Fatalf("FinalizeCheckout from staff device: %v", err)
	}
	active, _ := f.store.ActiveTableIDs()
	if active[table.ID] {
		t.Error("table still has active orders after staff finalize")
	}
}

func TestStaffFinalizeEndsCustomerSession(t *testing.T) {
	f := newCheckoutFixture(t)
	customer := NewDeviceToken()
	staff := NewDeviceToken()
	table := &models.Table{ID: 4, Slug: "table-4", Name: "Table 4"}

	if _, err := f.orders.SubmitOrder(customer, table, []CartLine{{MenuItemID: 1, Quantity: 1}}); err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	if _, err := f.checkout.FinalizeCheckout(staff, table); err != nil {
		t.Fatalf("FinalizeCheckout from staff device: %v", err)
	}

	// The billed sitting is gone for the customer device too: no ledger
	// entries, and the table reads available again.
	if f.ledger.HasSession(customer, table.ID) {
		t.Error("customer ledger still holds entries after staff finalize")
	}
	got := ResolveTableStatus(StatusInputs{
		HasLocalSession: f.ledger.HasSession(customer, table.ID),
		Override:        f.overrides.Get(table.ID),
	})
	if got != models.StatusAvailable {
		t.Errorf("customer status after staff finalize = %q, want %q", got, models.StatusAvailable)
	}
}

func TestClearSalesHistory(t *testing.T) {
	f := newCheckoutFixture(t)
	device := NewDeviceToken()
	table := &models.Table{ID: 1, Slug: "table-1", Name: "Table 1"}

	if _, err := f.orders.SubmitOrder(device, table, []CartLine{{MenuItemID: 4, Quantity: 1}}); err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	if _, err := f.checkout.FinalizeCheckout(device, table); err != nil {
		t.Fatalf("FinalizeCheckout: %v", err)
	}

	if err := f.checkout.ClearSalesHistory(); err != nil {
		t.Fatalf("ClearSalesHistory: %v", err)
	}
	records, err := f.checkout.GetSalesRecords()
	if err != nil {
		t.Fatalf("GetSalesRecords: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("sales log has %d records after clear, want 0", len(records))
	}
}
