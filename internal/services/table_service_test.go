package services

import (
	"errors"
	"testing"

	"tableorder_backend/internal/events"
	"tableorder_backend/internal/models"
	"tableorder_backend/internal/repositories"
)

type tableFixture struct {
	store  *repositories.MemoryStore
	tables TableService
	orders OrderService
	ledger *SessionLedger
}

func newTableFixture(t *testing.T) *tableFixture {
	t.Helper()
	store := repositories.NewMemoryStore()
	ledger := NewSessionLedger()
	overrides := NewOverrideStore()
	pins := NewPinService(store)
	return &tableFixture{
		store:  store,
		tables: NewTableService(store, store, pins, ledger, overrides),
		orders: NewOrderService(nil, store, NewMenuService(store), ledger, overrides, events.NoopPublisher{}),
		ledger: ledger,
	}
}

func TestGetTableBySlug(t *testing.T) {
	f := newTableFixture(t)

	table, err := f.tables.GetTableBySlug("table-3")
	if err != nil {
		t.Fatalf("GetTableBySlug(table-3): %v", err)
	}
	if table.ID != 3 || table.Name != "Table 3" {
		t.Errorf("table = %+v, want ID 3 named Table 3", table)
	}
}

func TestGetTableBySlugMockFallback(t *testing.T) {
	f := newTableFixture(t)

	// table-9 is not in the seeded catalog: the slug still resolves to a
	// deterministic placeholder.
	table, err := f.tables.GetTableBySlug("table-9")
	if err != nil {
		t.Fatalf("GetTableBySlug(table-9): %v", err)
	}
	if table.ID != 9 || table.Name != "Table 9" {
		t.Errorf("mock table = %+v, want ID 9 named Table 9", table)
	}

	// A slug without a trailing number resolves to the same ID every time.
	first, err := f.tables.GetTableBySlug("patio")
	if err != nil {
		t.Fatalf("GetTableBySlug(patio): %v", err)
	}
	second, _ := f.tables.GetTableBySlug("patio")
	if first.ID == 0 || first.ID != second.ID {
		t.Errorf("mock IDs for patio = %d, %d; want stable non-zero", first.ID, second.ID)
	}
}

func TestListTablesStatusesPerDevice(t *testing.T) {
	f := newTableFixture(t)
	deviceA := NewDeviceToken()
	deviceB := NewDeviceToken()

	table, _ := f.tables.GetTableBySlug("table-2")
	if _, err := f.orders.SubmitOrder(deviceA, table, []CartLine{{MenuItemID: 1, Quantity: 1}}); err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}

	statusFor := func(device string) map[string]models.TableStatus {
		views, err := f.tables.ListTables(device)
		if err != nil {
			t.Fatalf("ListTables: %v", err)
		}
		out := map[string]models.TableStatus{}
		for _, v := range views {
			out[v.Slug] = v.Status
		}
		return out
	}

	forA := statusFor(deviceA)
	if forA["table-2"] != models.StatusMySession {
		t.Errorf("table-2 for ordering device = %q, want %q", forA["table-2"], models.StatusMySession)
	}
	if forA["table-1"] != models.StatusAvailable {
		t.Errorf("table-1 for ordering device = %q, want %q", forA["table-1"], models.StatusAvailable)
	}

	forB := statusFor(deviceB)
	if forB["table-2"] != models.StatusOccupied {
		t.Errorf("table-2 for other device = %q, want %q", forB["table-2"], models.StatusOccupied)
	}
}

func TestPinAuthentication(t *testing.T) {
	f := newTableFixture(t)
	device := NewDeviceToken()

	// table-5 carries PIN 42.
	if _, err := f.tables.ConfigurePin(5, "42"); err != nil {
		t.Fatalf("ConfigurePin: %v", err)
	}

	if f.tables.ResolveStatus(device, 5) != models.StatusPinProtected {
		t.Errorf("status with PIN set = %q, want %q", f.tables.ResolveStatus(device, 5), models.StatusPinProtected)
	}
	if err := f.tables.CanOrder(device, 5); !errors.Is(err, ErrPinRequired) {
		t.Errorf("CanOrder before unlock: error = %v, want ErrPinRequired", err)
	}

	if err := f.tables.AuthenticatePin(device, 5, "41"); !errors.Is(err, ErrPinMismatch) {
		t.Errorf("AuthenticatePin with 41: error = %v, want ErrPinMismatch", err)
	}
	if err := f.tables.CanOrder(device, 5); !errors.Is(err, ErrPinRequired) {
		t.Errorf("CanOrder after wrong PIN: error = %v, want ErrPinRequired", err)
	}

	if err := f.tables.AuthenticatePin(device, 5, "42"); err != nil {
		t.Fatalf("AuthenticatePin with 42: %v", err)
	}
	if err := f.tables.CanOrder(device, 5); err != nil {
		t.Errorf("CanOrder after unlock: %v", err)
	}
}

func TestConfigurePinRevokesOldUnlocks(t *testing.T) {
	f := newTableFixture(t)
	device := NewDeviceToken()

	f.tables.ConfigurePin(5, "42")
	if err := f.tables.AuthenticatePin(device, 5, "42"); err != nil {
		t.Fatalf("AuthenticatePin: %v", err)
	}

	// Changing the PIN locks everyone out again.
	f.tables.ConfigurePin(5, "77")
	if err := f.tables.CanOrder(device, 5); !errors.Is(err, ErrPinRequired) {
		t.Errorf("CanOrder after PIN change: error = %v, want ErrPinRequired", err)
	}
}

func TestRemovePinOpensTable(t *testing.T) {
	f := newTableFixture(t)
	device := NewDeviceToken()

	f.tables.ConfigurePin(4, "10")
	f.tables.RemovePin(4)

	if got := f.tables.ResolveStatus(device, 4); got != models.StatusAvailable {
		t.Errorf("status after RemovePin = %q, want %q", got, models.StatusAvailable)
	}
	if err := f.tables.CanOrder(device, 4); err != nil {
		t.Errorf("CanOrder after RemovePin: %v", err)
	}
}

func TestConfigurePinValidation(t *testing.T) {
	f := newTableFixture(t)

	tests := []struct {
		name string
		pin  string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"non-numeric", "abcd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.tables.ConfigurePin(1, tt.pin); !errors.Is(err, ErrValidation) {
				t.Errorf("ConfigurePin(%q) error = %v, want ErrValidation", tt.pin, err)
			}
		})
	}
}

func TestSetOverrideValidation(t *testing.T) {
	f := newTableFixture(t)
	device := NewDeviceToken()

	if err := f.tables.SetOverride(1, models.StatusOccupied); err != nil {
		t.Fatalf("SetOverride(occupied): %v", err)
	}
	if got := f.tables.ResolveStatus(device, 1); got != models.StatusOccupied {
		t.Errorf("status after manual occupied = %q, want %q", got, models.StatusOccupied)
	}

	if err := f.tables.SetOverride(1, models.StatusMySession); !errors.Is(err, ErrValidation) {
		t.Errorf("SetOverride(my_session) error = %v, want ErrValidation", err)
	}

	f.tables.ClearOverride(1)
	if got := f.tables.ResolveStatus(device, 1); got != models.StatusAvailable {
		t.Errorf("status after ClearOverride = %q, want %q", got, models.StatusAvailable)
	}
}
