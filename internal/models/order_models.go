package models

import "time"

// Order statuses. An order is "active" while pending, preparing or ready.
// Billing is not an order status: checkout removes the order from the active
// set and records an immutable SalesRecord instead.
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
)

// ActiveOrderStatuses is the set of statuses counted as "active" when
// resolving table occupancy and building the kitchen queue.
var ActiveOrderStatuses = []string{OrderStatusPending, OrderStatusPreparing, OrderStatusReady}

// Order is a single kitchen ticket. Line items are immutable after creation;
// adding dishes to a sitting means creating another order for the same table.
type Order struct {
	ID        int64       `json:"id" db:"id"`
	TableID   int64       `json:"table_id" db:"table_id"`
	Status    string      `json:"status" db:"status"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
	Items     []OrderItem `json:"items,omitempty"`
	Table     *Table      `json:"table,omitempty"`
}

// OrderItem is one line of an order. UnitPrice is snapshotted from the menu
// at submission time so later menu edits do not rewrite history.
type OrderItem struct {
	ID         int64     `json:"id" db:"id"`
	OrderID    int64     `json:"order_id" db:"order_id"`
	MenuItemID int64     `json:"menu_item_id" db:"menu_item_id"`
	Quantity   int       `json:"quantity" db:"quantity"`
	UnitPrice  float64   `json:"unit_price" db:"unit_price"`
	Notes      *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time `json:"created_at,omitempty" db:"created_at"`
	MenuItem   *MenuItem `json:"menu_item,omitempty"`
}

// OrderFilters narrows order queries. Statuses is an OR filter.
type OrderFilters struct {
	TableID  *int64
	Statuses []string
}
