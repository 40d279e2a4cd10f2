package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"tableorder_backend/internal/models"

	"github.com/lib/pq"
)

// MenuRepository defines read access to the menu catalog plus creation of
// custom items (the owner's "add new dish" flow).
type MenuRepository interface {
	GetAvailableItems() ([]models.MenuItem, error)
	GetItemByID(itemID int64) (*models.MenuItem, error)
	CreateItem(item *models.MenuItem) (int64, error)
}

type menuRepository struct {
	db *sql.DB
}

// NewMenuRepository creates a new Postgres-backed MenuRepository.
func NewMenuRepository(db *sql.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) GetAvailableItems() ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	query := `SELECT id, name, description, price, category, image_url, is_available, created_at, updated_at
	          FROM menu_items
	          WHERE is_available = TRUE
	          ORDER BY category, name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying menu items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.MenuItem
		err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.Category,
			&m.ImageURL, &m.IsAvailable, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning menu item: %v", ErrDatabaseError, err)
		}
		items = append(items, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating menu item rows: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *menuRepository) GetItemByID(itemID int64) (*models.MenuItem, error) {
	m := &models.MenuItem{}
	query := `SELECT id, name, description, price, category, image_url, is_available, created_at, updated_at
	          FROM menu_items
	          WHERE id = $1`
	err := r.db.QueryRow(query, itemID).Scan(&m.ID, &m.Name, &m.Description, &m.Price,
		&m.Category, &m.ImageURL, &m.IsAvailable, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting menu item by ID %d: %v", ErrDatabaseError, itemID, err)
	}
	return m, nil
}

func (r *menuRepository) CreateItem(item *models.MenuItem) (int64, error) {
	query := `INSERT INTO menu_items (name, description, price, category, image_url, is_available, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`
	touchTimestamps(&item.CreatedAt, &item.UpdatedAt)

	err := r.db.QueryRow(query,
		item.Name, item.Description, item.Price, item.Category, item.ImageURL,
		item.IsAvailable, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, fmt.Errorf("%w (constraint: %s)", ErrDuplicateKey, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating menu item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}
