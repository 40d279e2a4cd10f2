package repositories

import (
	"database/sql"
	"fmt"
)

// PinRepository is the central store for table PINs. The service layer wraps
// it with an in-process cache and degrades to the cache when central reads
// fail, so implementations should return honest errors rather than masking
// outages.
type PinRepository interface {
	GetAllPins() (map[int64]string, error)
	UpsertPin(tableID int64, pin string) error
	DeletePin(tableID int64) error
}

type pinRepository struct {
	db *sql.DB
}

// NewPinRepository creates a new Postgres-backed PinRepository.
func NewPinRepository(db *sql.DB) PinRepository {
	return &pinRepository{db: db}
}

func (r *pinRepository) GetAllPins() (map[int64]string, error) {
	query := `SELECT table_id, pin FROM table_pins`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying table pins: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	pins := map[int64]string{}
	for rows.Next() {
		var tableID int64
		var pin string
		if err := rows.Scan(&tableID, &pin); err != nil {
			return nil, fmt.Errorf("%w: scanning table pin: %v", ErrDatabaseError, err)
		}
		pins[tableID] = pin
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating table pin rows: %v", ErrDatabaseError, err)
	}
	return pins, nil
}

func (r *pinRepository) UpsertPin(tableID int64, pin string) error {
	query := `INSERT INTO table_pins (table_id, pin)
	          VALUES ($1, $2)
	          ON CONFLICT (table_id) DO UPDATE SET pin = EXCLUDED.pin`
	if _, err := r.db.Exec(query, tableID, pin); err != nil {
		return fmt.Errorf("%w: upserting pin for table ID %d: %v", ErrDatabaseError, tableID, err)
	}
	return nil
}

func (r *pinRepository) DeletePin(tableID int64) error {
	query := `DELETE FROM table_pins WHERE table_id = $1`
	if _, err := r.db.Exec(query, tableID); err != nil {
		return fmt.Errorf("%w: deleting pin for table ID %d: %v", ErrDatabaseError, tableID, err)
	}
	return nil
}
