package services

import (
	"errors"
	"testing"

	"tableorder_backend/internal/models"
	"tableorder_backend/internal/repositories"
)

// downMenuRepo simulates an unreachable catalog store.
type downMenuRepo struct{}

func (downMenuRepo) GetAvailableItems() ([]models.MenuItem, error) {
	return nil, repositories.ErrDatabaseError
}

func (downMenuRepo) GetItemByID(itemID int64) (*models.MenuItem, error) {
	return nil, repositories.ErrDatabaseError
}

func (downMenuRepo) CreateItem(item *models.MenuItem) (int64, error) {
	return 0, repositories.ErrDatabaseError
}

func TestGetMenuFallsBackToHouseMenu(t *testing.T) {
	svc := NewMenuService(downMenuRepo{})

	items, err := svc.GetMenu()
	if err != nil {
		t.Fatalf("GetMenu with store down: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("fallback menu has %d items, want 4", len(items))
	}
	if items[0].Name != "Kinilaw" || items[0].Price != 180 {
		t.Errorf("fallback menu starts with %+v, want Kinilaw at 180", items[0])
	}
}

func TestResolveItemFallsBackToHouseMenu(t *testing.T) {
	svc := NewMenuService(downMenuRepo{})

	item, err := svc.ResolveItem(2)
	if err != nil {
		t.Fatalf("ResolveItem(2) with store down: %v", err)
	}
	if item.Name != "Pork Sisig" || item.Price != 200 {
		t.Errorf("resolved item = %+v, want Pork Sisig at 200", item)
	}

	// An ID outside the house menu cannot be resolved during an outage.
	if _, err := svc.ResolveItem(9999); err == nil {
		t.Error("ResolveItem(9999) with store down succeeded, want error")
	}
}

func TestResolveItemNotFoundIsNotMasked(t *testing.T) {
	store := repositories.NewMemoryStore()
	svc := NewMenuService(store)

	// With a healthy store an unknown ID is NotFound, never the fallback.
	if _, err := svc.ResolveItem(9999); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("ResolveItem(9999) error = %v, want ErrNotFound", err)
	}
}

func TestCreateMenuItem(t *testing.T) {
	store := repositories.NewMemoryStore()
	svc := NewMenuService(store)

	item := &models.MenuItem{Name: "Lechon Kawali", Price: 250, Category: "Pulutan", IsAvailable: true}
	id, err := svc.CreateMenuItem(item)
	if err != nil {
		t.Fatalf("CreateMenuItem: %v", err)
	}

	got, err := svc.ResolveItem(id)
	if err != nil {
		t.Fatalf("ResolveItem after create: %v", err)
	}
	if got.Name != "Lechon Kawali" || got.Price != 250 {
		t.Errorf("created item = %+v, want Lechon Kawali at 250", got)
	}
}

func TestCreateMenuItemValidation(t *testing.T) {
	svc := NewMenuService(repositories.NewMemoryStore())

	tests := []struct {
		name string
		item models.MenuItem
	}{
		{"missing name", models.MenuItem{Price: 100, Category: "Main"}},
		{"zero price", models.MenuItem{Name: "Water", Category: "Drinks"}},
		{"negative price", models.MenuItem{Name: "Water", Price: -1, Category: "Drinks"}},
		{"missing category", models.MenuItem{Name: "Water", Price: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := tt.item
			if _, err := svc.CreateMenuItem(&item); !errors.Is(err, ErrValidation) {
				t.Errorf("CreateMenuItem(%s) error = %v, want ErrValidation", tt.name, err)
			}
		})
	}
}
