package models

import "time"

// SalesRecord is an immutable finalized bill, the only durable historical
// artifact of a table sitting. Appended at checkout finalize; never updated.
type SalesRecord struct {
	ID        string      `json:"id" db:"id"` // bill identifier (uuid)
	TableID   int64       `json:"table_id" db:"table_id"`
	TableName string      `json:"table_name" db:"table_name"` // snapshot, survives table renames
	Total     float64     `json:"total" db:"total"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	Items     []SalesItem `json:"items"`
}

// SalesItem is one aggregated bill line: quantities summed across every order
// of the sitting, keyed by menu item.
type SalesItem struct {
	MenuItemID int64   `json:"menu_item_id" db:"menu_item_id"`
	Name       string  `json:"name" db:"name"`
	UnitPrice  float64 `json:"unit_price" db:"unit_price"`
	Quantity   int     `json:"quantity" db:"quantity"`
}

// SalesSummary backs the owner dashboard: count and income over the log.
type SalesSummary struct {
	TotalOrders int     `json:"total_orders"`
	TotalIncome float64 `json:"total_income"`
}
