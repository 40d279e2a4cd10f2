package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableorder_backend/internal/models"

	"github.com/lib/pq" // For pq.Error and pq.Array
)

// OrderRepository defines the interface for order-related database operations.
type OrderRepository interface {
	// Order methods
	CreateOrder(executor SQLExecutor, order *models.Order) (int64, error)
	GetOrderByID(orderID int64) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, error)
	UpdateOrderStatus(executor SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error
	DeleteOrdersByTableID(executor SQLExecutor, tableID int64) (int64, error)

	// OrderItem methods
	CreateOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error)
	GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error)
	DeleteOrderItemsByTableID(executor SQLExecutor, tableID int64) (int64, error)

	// ActiveTableIDs returns the set of table IDs that have at least one
	// order whose status is in models.ActiveOrderStatuses.
	ActiveTableIDs() (map[int64]bool, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new Postgres-backed OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// --- Order Methods ---

func (r *orderRepository) CreateOrder(executor SQLExecutor, order *models.Order) (int64, error) {
	query := `INSERT INTO orders (table_id, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`

	touchTimestamps(&order.CreatedAt, &order.UpdatedAt)

	err := executor.QueryRow(query,
		order.TableID, order.Status, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating order: %v", ErrDatabaseError, err)
	}
	return order.ID, nil
}

func (r *orderRepository) GetOrderByID(orderID int64) (*models.Order, error) {
	order := &models.Order{}
	query := `SELECT id, table_id, status, created_at, updated_at
	          FROM orders
	          WHERE id = $1`
	err := r.db.QueryRow(query, orderID).Scan(
		&order.ID, &order.TableID, &order.Status, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return order, nil
}

func (r *orderRepository) GetOrders(filters models.OrderFilters) ([]models.Order, error) {
	orders := []models.Order{}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
        SELECT
            o.id, o.table_id, o.status, o.created_at, o.updated_at,
            t.slug as table_slug, t.name as table_name
        FROM orders o
        LEFT JOIN tables t ON o.table_id = t.id
    `)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.TableID != nil {
		conditions = append(conditions, fmt.Sprintf("o.table_id = $%d", argCounter))
		args = append(args, *filters.TableID)
		argCounter++
	}
	if len(filters.Statuses) > 0 {
		conditions = append(conditions, fmt.Sprintf("o.status = ANY($%d)", argCounter))
		args = append(args, pq.Array(filters.Statuses))
		argCounter++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY o.created_at ASC")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Order
		var tableSlug, tableName sql.NullString

		err := rows.Scan(&o.ID, &o.TableID, &o.Status, &o.CreatedAt, &o.UpdatedAt, &tableSlug, &tableName)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		if tableSlug.Valid || tableName.Valid {
			o.Table = &models.Table{ID: o.TableID, Slug: tableSlug.String, Name: tableName.String}
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	return orders, nil
}

func (r *orderRepository) UpdateOrderStatus(executor SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error {
	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, newStatus, updatedAt, orderID)
	if err != nil {
		return fmt.Errorf("%w: updating order status for ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for order status update ID %d: %v", ErrDatabaseError, orderID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) DeleteOrdersByTableID(executor SQLExecutor, tableID int64) (int64, error) {
	query := `DELETE FROM orders WHERE table_id = $1`
	result, err := executor.Exec(query, tableID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting orders for table ID %d: %v", ErrDatabaseError, tableID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting orders for table ID %d: %v", ErrDatabaseError, tableID, err)
	}
	return rowsAffected, nil
}

func (r *orderRepository) ActiveTableIDs() (map[int64]bool, error) {
	query := `SELECT DISTINCT table_id FROM orders WHERE status = ANY($1)`
	rows, err := r.db.Query(query, pq.Array(models.ActiveOrderStatuses))
	if err != nil {
		return nil, fmt.Errorf("%w: querying active table IDs: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	ids := map[int64]bool{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: scanning active table ID: %v", ErrDatabaseError, err)
		}
		ids[id] = true
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating active table ID rows: %v", ErrDatabaseError, err)
	}
	return ids, nil
}

// --- OrderItem Methods ---

func (r *orderRepository) CreateOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error) {
	query := `INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price, notes, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		item.OrderID, item.MenuItemID, item.Quantity, item.UnitPrice, item.Notes, item.CreatedAt,
	).Scan(&item.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return 0, fmt.Errorf("%w: creating order item (constraint: %s): %v", ErrDatabaseError, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating order item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *orderRepository) GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	query := `
		SELECT
		    oi.id, oi.order_id, oi.menu_item_id, oi.quantity, oi.unit_price,
		    oi.notes, oi.created_at,
		    mi.name as item_name, mi.category as item_category
		FROM order_items oi
		JOIN menu_items mi ON oi.menu_item_id = mi.id
		WHERE oi.order_id = $1
		ORDER BY oi.id`

	rows, err := r.db.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying order items for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		var itemName, itemCategory sql.NullString

		err := rows.Scan(
			&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.UnitPrice,
			&item.Notes, &item.CreatedAt,
			&itemName, &itemCategory,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning order item for order ID %d: %v", ErrDatabaseError, orderID, err)
		}

		menuItem := &models.MenuItem{ID: item.MenuItemID, Price: item.UnitPrice}
		if itemName.Valid {
			menuItem.Name = itemName.String
		}
		if itemCategory.Valid {
			menuItem.Category = itemCategory.String
		}
		item.MenuItem = menuItem

		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order item rows for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return items, nil
}

func (r *orderRepository) DeleteOrderItemsByTableID(executor SQLExecutor, tableID int64) (int64, error) {
	query := `DELETE FROM order_items
	          WHERE order_id IN (SELECT id FROM orders WHERE table_id = $1)`
	result, err := executor.Exec(query, tableID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting order items for table ID %d: %v", ErrDatabaseError, tableID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting order items for table ID %d: %v", ErrDatabaseError, tableID, err)
	}
	return rowsAffected, nil
}
