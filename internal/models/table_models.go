package models

import "time"

// TableStatus is the status of a dining table as shown on the table grid.
// It is derived per device; two devices may see different statuses for the
// same table (see services.ResolveTableStatus).
type TableStatus string

const (
	StatusAvailable    TableStatus = "available"
	StatusOccupied     TableStatus = "occupied"
	StatusMySession    TableStatus = "my_session"
	StatusPinProtected TableStatus = "pin_protected"
)

// Table represents a dining table. Slug is the routable identifier used in
// URLs and QR codes; ID is the join key against orders, pins and sales.
type Table struct {
	ID        int64     `json:"id" db:"id"`
	Slug      string    `json:"slug" db:"slug"`
	Name      string    `json:"name" db:"name"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// TablePin maps a table to its access PIN. Persisted centrally in table_pins;
// mirrored in an in-process cache so staff workflows survive central outages.
type TablePin struct {
	TableID int64  `json:"table_id" db:"table_id"`
	Pin     string `json:"pin" db:"pin"`
}

// TableView is a Table decorated with the status resolved for the requesting
// device. This is what the table-selection grid renders.
type TableView struct {
	Table
	Status TableStatus `json:"status"`
}
