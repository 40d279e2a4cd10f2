package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"tableorder_backend/internal/models"
)

// SalesRepository is the append-only sales log. Records are inserted at
// checkout finalize and never updated; DeleteAll exists only for the owner's
// explicit "clear sales history" action.
type SalesRepository interface {
	CreateSalesRecord(executor SQLExecutor, record *models.SalesRecord) error
	GetSalesRecords() ([]models.SalesRecord, error)
	GetSummary() (*models.SalesSummary, error)
	DeleteAll() error
}

type salesRepository struct {
	db *sql.DB
}

// NewSalesRepository creates a new Postgres-backed SalesRepository.
func NewSalesRepository(db *sql.DB) SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) CreateSalesRecord(executor SQLExecutor, record *models.SalesRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	query := `INSERT INTO sales_records (id, table_id, table_name, total, created_at)
	          VALUES ($1, $2, $3, $4, $5)`
	if _, err := executor.Exec(query, record.ID, record.TableID, record.TableName, record.Total, record.CreatedAt); err != nil {
		return fmt.Errorf("%w: creating sales record %s: %v", ErrDatabaseError, record.ID, err)
	}

	itemQuery := `INSERT INTO sales_record_items (record_id, menu_item_id, name, unit_price, quantity)
	              VALUES ($1, $2, $3, $4, $5)`
	for _, item := range record.Items {
		if _, err := executor.Exec(itemQuery, record.ID, item.MenuItemID, item.Name, item.UnitPrice, item.Quantity); err != nil {
			return fmt.Errorf("%w: creating sales record item (menu_item_id: %d): %v", ErrDatabaseError, item.MenuItemID, err)
		}
	}
	return nil
}

func (r *salesRepository) GetSalesRecords() ([]models.SalesRecord, error) {
	query := `SELECT id, table_id, table_name, total, created_at
	          FROM sales_records
	          ORDER BY created_at DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying sales records: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	records := []models.SalesRecord{}
	for rows.Next() {
		var rec models.SalesRecord
		if err := rows.Scan(&rec.ID, &rec.TableID, &rec.TableName, &rec.Total, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning sales record: %v", ErrDatabaseError, err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sales record rows: %v", ErrDatabaseError, err)
	}

	for i := range records {
		items, err := r.getRecordItems(records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Items = items
	}
	return records, nil
}

func (r *salesRepository) getRecordItems(recordID string) ([]models.SalesItem, error) {
	query := `SELECT menu_item_id, name, unit_price, quantity
	          FROM sales_record_items
	          WHERE record_id = $1
	          ORDER BY name`
	rows, err := r.db.Query(query, recordID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying sales record items for %s: %v", ErrDatabaseError, recordID, err)
	}
	defer rows.Close()

	items := []models.SalesItem{}
	for rows.Next() {
		var item models.SalesItem
		if err := rows.Scan(&item.MenuItemID, &item.Name, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, fmt.Errorf("%w: scanning sales record item for %s: %v", ErrDatabaseError, recordID, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sales record item rows for %s: %v", ErrDatabaseError, recordID, err)
	}
	return items, nil
}

func (r *salesRepository) GetSummary() (*models.SalesSummary, error) {
	summary := &models.SalesSummary{}
	query := `SELECT COUNT(*), COALESCE(SUM(total), 0) FROM sales_records`
	if err := r.db.QueryRow(query).Scan(&summary.TotalOrders, &summary.TotalIncome); err != nil {
		return nil, fmt.Errorf("%w: querying sales summary: %v", ErrDatabaseError, err)
	}
	return summary, nil
}

func (r *salesRepository) DeleteAll() error {
	if _, err := r.db.Exec(`DELETE FROM sales_record_items`); err != nil {
		return fmt.Errorf("%w: clearing sales record items: %v", ErrDatabaseError, err)
	}
	if _, err := r.db.Exec(`DELETE FROM sales_records`); err != nil {
		return fmt.Errorf("%w: clearing sales records: %v", ErrDatabaseError, err)
	}
	return nil
}
