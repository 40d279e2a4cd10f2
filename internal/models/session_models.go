package models

import "time"

// SessionEntry is one order recorded in a device's session ledger: the
// device's private receipt that this order belongs to its sitting. Entries
// for a table are appended on successful submission and removed together at
// checkout finalize.
type SessionEntry struct {
	OrderID   int64       `json:"order_id"`
	TableID   int64       `json:"table_id"`
	Items     []OrderItem `json:"items"`
	CreatedAt time.Time   `json:"created_at"`
}
