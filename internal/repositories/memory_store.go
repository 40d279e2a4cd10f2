package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"tableorder_backend/internal/models"
	"tableorder_backend/pkg/utils"
)

// MemoryStore is the local-only storage adapter: a mutex-guarded in-process
// store implementing every repository interface. It backs the degraded mode
// when no central database is configured, and doubles as the test double for
// the service layer. Seeded with the same deterministic tables and menu the
// customer pages fall back to when the catalog is unreachable.
type MemoryStore struct {
	mu sync.Mutex

	tables    []models.Table
	menuItems []models.MenuItem
	orders    map[int64]*models.Order
	items     map[int64][]models.OrderItem // keyed by order ID
	pins      map[int64]string
	sales     []models.SalesRecord
	users     map[int64]*models.User

	orderSeq int64
	itemSeq  int64
	menuSeq  int64
	userSeq  int64
}

var (
	_ TableRepository = (*MemoryStore)(nil)
	_ OrderRepository = (*MemoryStore)(nil)
	_ PinRepository   = (*MemoryStore)(nil)
	_ MenuRepository  = (*MemoryStore)(nil)
	_ SalesRepository = (*MemoryStore)(nil)
	_ AuthRepository  = (*MemoryStore)(nil)
)

// NewMemoryStore creates a seeded MemoryStore.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		orders: map[int64]*models.Order{},
		items:  map[int64][]models.OrderItem{},
		pins:   map[int64]string{},
		users:  map[int64]*models.User{},
	}
	s.seed()
	return s
}

func (s *MemoryStore) seed() {
	now := time.Now()
	for i := int64(1); i <= 6; i++ {
		s.tables = append(s.tables, models.Table{
			ID:        i,
			Slug:      fmt.Sprintf("table-%d", i),
			Name:      fmt.Sprintf("Table %d", i),
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	seedMenu := []struct {
		name, description, category string
		price                       float64
	}{
		{"Kinilaw", "Fresh tuna ceviche with local citrus.", "Pulutan", 180},
		{"Pork Sisig", "Sizzling pork sisig with crispy edges.", "Pulutan", 200},
		{"Grilled Fish", "Fresh catch of the day, perfectly grilled.", "Main", 280},
		{"Coconut Shake", "Fresh buko shake, refreshingly tropical.", "Drinks", 120},
	}
	for _, m := range seedMenu {
		s.menuSeq++
		s.menuItems = append(s.menuItems, models.MenuItem{
			ID:          s.menuSeq,
			Name:        m.name,
			Description: utils.NewNullString(m.description),
			Price:       m.price,
			Category:    m.category,
			IsAvailable: true,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
}

// --- TableRepository ---

func (s *MemoryStore) GetActiveTables() ([]models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Table, 0, len(s.tables))
	for _, t := range s.tables {
		if t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *MemoryStore) GetTableBySlug(slug string) (*models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tables {
		if t.Slug == slug {
			cp := t
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetTableByID(tableID int64) (*models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tables {
		if t.ID == tableID {
			cp := t
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// --- OrderRepository ---

func (s *MemoryStore) CreateOrder(_ SQLExecutor, order *models.Order) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderSeq++
	order.ID = s.orderSeq
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = order.CreatedAt
	}
	cp := *order
	cp.Items = nil
	s.orders[order.ID] = &cp
	return order.ID, nil
}

func (s *MemoryStore) GetOrderByID(orderID int64) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *MemoryStore) GetOrders(filters models.OrderFilters) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Order{}
	for _, o := range s.orders {
		if filters.TableID != nil && o.TableID != *filters.TableID {
			continue
		}
		if len(filters.Statuses) > 0 && !containsStatus(filters.Statuses, o.Status) {
			continue
		}
		cp := *o
		if t := s.tableByIDLocked(o.TableID); t != nil {
			cp.Table = t
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) UpdateOrderStatus(_ SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return ErrNotFound
	}
	o.Status = newStatus
	o.UpdatedAt = updatedAt
	return nil
}

func (s *MemoryStore) DeleteOrdersByTableID(_ SQLExecutor, tableID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, o := range s.orders {
		if o.TableID == tableID {
			delete(s.orders, id)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) ActiveTableIDs() (map[int64]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := map[int64]bool{}
	for _, o := range s.orders {
		if containsStatus(models.ActiveOrderStatuses, o.Status) {
			ids[o.TableID] = true
		}
	}
	return ids, nil
}

func (s *MemoryStore) CreateOrderItem(_ SQLExecutor, item *models.OrderItem) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[item.OrderID]; !ok {
		return 0, fmt.Errorf("%w: creating order item: order %d does not exist", ErrDatabaseError, item.OrderID)
	}
	s.itemSeq++
	item.ID = s.itemSeq
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	s.items[item.OrderID] = append(s.items[item.OrderID], *item)
	return item.ID, nil
}

func (s *MemoryStore) GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]models.OrderItem, len(s.items[orderID]))
	copy(items, s.items[orderID])
	for i := range items {
		if m := s.menuItemByIDLocked(items[i].MenuItemID); m != nil {
			items[i].MenuItem = m
		}
	}
	return items, nil
}

func (s *MemoryStore) DeleteOrderItemsByTableID(_ SQLExecutor, tableID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for orderID, o := range s.orders {
		if o.TableID == tableID {
			n += int64(len(s.items[orderID]))
			delete(s.items, orderID)
		}
	}
	return n, nil
}

// --- PinRepository ---

func (s *MemoryStore) GetAllPins() (map[int64]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]string, len(s.pins))
	for k, v := range s.pins {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) UpsertPin(tableID int64, pin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pins[tableID] = pin
	return nil
}

func (s *MemoryStore) DeletePin(tableID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pins, tableID)
	return nil
}

// --- MenuRepository ---

func (s *MemoryStore) GetAvailableItems() ([]models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.MenuItem{}
	for _, m := range s.menuItems {
		if m.IsAvailable {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *MemoryStore) GetItemByID(itemID int64) (*models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m := s.menuItemByIDLocked(itemID); m != nil {
		return m, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateItem(item *models.MenuItem) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menuSeq++
	item.ID = s.menuSeq
	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = now
	}
	s.menuItems = append(s.menuItems, *item)
	return item.ID, nil
}

// --- SalesRepository ---

func (s *MemoryStore) CreateSalesRecord(_ SQLExecutor, record *models.SalesRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	s.sales = append(s.sales, *record)
	return nil
}

func (s *MemoryStore) GetSalesRecords() ([]models.SalesRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SalesRecord, len(s.sales))
	copy(out, s.sales)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) GetSummary() (*models.SalesSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary := &models.SalesSummary{TotalOrders: len(s.sales)}
	for _, rec := range s.sales {
		summary.TotalIncome += rec.Total
	}
	return summary, nil
}

func (s *MemoryStore) DeleteAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = nil
	return nil
}

// --- AuthRepository ---

func (s *MemoryStore) CreateUser(_ SQLExecutor, user *models.User, hashedPassword string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return 0, fmt.Errorf("%w (constraint: users_email_key)", ErrDuplicateKey)
		}
	}
	s.userSeq++
	user.ID = s.userSeq
	now := time.Now()
	cp := *user
	cp.PasswordHash = hashedPassword
	cp.IsActive = true
	cp.CreatedAt = now
	cp.UpdatedAt = now
	s.users[user.ID] = &cp
	return user.ID, nil
}

func (s *MemoryStore) FindUserByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindUserByID(userID int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// --- helpers (callers must hold s.mu) ---

func (s *MemoryStore) tableByIDLocked(tableID int64) *models.Table {
	for _, t := range s.tables {
		if t.ID == tableID {
			cp := t
			return &cp
		}
	}
	return nil
}

func (s *MemoryStore) menuItemByIDLocked(itemID int64) *models.MenuItem {
	for _, m := range s.menuItems {
		if m.ID == itemID {
			cp := m
			return &cp
		}
	}
	return nil
}

func containsStatus(statuses []string, status string) bool {
	for _, st := range statuses {
		if st == status {
			return true
		}
	}
	return false
}
