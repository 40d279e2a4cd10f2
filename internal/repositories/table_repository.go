package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tableorder_backend/internal/models"
)

// TableRepository defines the interface for dining-table lookups.
type TableRepository interface {
	GetActiveTables() ([]models.Table, error)
	GetTableBySlug(slug string) (*models.Table, error)
	GetTableByID(tableID int64) (*models.Table, error)
}

type tableRepository struct {
	db *sql.DB
}

// NewTableRepository creates a new Postgres-backed TableRepository.
func NewTableRepository(db *sql.DB) TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) GetActiveTables() ([]models.Table, error) {
	tables := []models.Table{}
	query := `SELECT id, slug, name, is_active, created_at, updated_at
	          FROM tables
	          WHERE is_active = TRUE
	          ORDER BY id`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying active tables: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Table
		if err := rows.Scan(&t.ID, &t.Slug, &t.Name, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning table: %v", ErrDatabaseError, err)
		}
		tables = append(tables, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating table rows: %v", ErrDatabaseError, err)
	}
	return tables, nil
}

func (r *tableRepository) GetTableBySlug(slug string) (*models.Table, error) {
	return r.getTable(`SELECT id, slug, name, is_active, created_at, updated_at
	                   FROM tables WHERE slug = $1`, slug)
}

func (r *tableRepository) GetTableByID(tableID int64) (*models.Table, error) {
	return r.getTable(`SELECT id, slug, name, is_active, created_at, updated_at
	                   FROM tables WHERE id = $1`, tableID)
}

func (r *tableRepository) getTable(query string, arg interface{}) (*models.Table, error) {
	t := &models.Table{}
	err := r.db.QueryRow(query, arg).Scan(&t.ID, &t.Slug, &t.Name, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting table: %v", ErrDatabaseError, err)
	}
	return t, nil
}

// touchTimestamps fills zero timestamps before inserts. Shared by the write
// paths of the order and menu repositories.
func touchTimestamps(createdAt, updatedAt *time.Time) {
	now := time.Now()
	if createdAt.IsZero() {
		*createdAt = now
	}
	if updatedAt.IsZero() {
		*updatedAt = now
	}
}
