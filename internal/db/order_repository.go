package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/minishop/minishop/internal/models"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(database *PostgresDB) *OrderRepository {
	return &OrderRepository{db: database.Conn}
}

// Create persists an order and its detail lines in one transaction. The
// order date is always stamped here; whatever the caller put in OrderDate
// is overwritten. A detail line referencing an unknown product id makes the
// foreign key fire, which rolls back the whole aggregate.
func (r *OrderRepository) Create(order *models.Order) error {
	order.OrderDate = time.Now().UTC()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO orders (ship_addr, order_date)
		VALUES ($1, $2)
		RETURNING id
	`
	err = tx.QueryRow(orderQuery, order.ShipAddr, order.OrderDate).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	detailQuery := `
		INSERT INTO order_details (order_id, product_id, quantity, discount)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	for i := range order.Details {
		order.Details[i].OrderID = order.ID
		err = tx.QueryRow(detailQuery,
			order.ID,
			order.Details[i].ProductID,
			order.Details[i].Quantity,
			order.Details[i].Discount,
		).Scan(&order.Details[i].ID)
		if err != nil {
			return fmt.Errorf("failed to insert order detail: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetAll returns every order with its detail lines expanded. Details are
// loaded in one extra query and grouped in memory rather than per order.
func (r *OrderRepository) GetAll() ([]models.Order, error) {
	query := "SELECT id, ship_addr, order_date FROM orders ORDER BY id"

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		err := rows.Scan(&o.ID, &o.ShipAddr, &o.OrderDate)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	details, err := r.getAllDetails()
	if err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].Details = details[orders[i].ID]
	}

	return orders, nil
}

func (r *OrderRepository) getAllDetails() (map[int][]models.OrderDetail, error) {
	query := "SELECT id, order_id, product_id, quantity, discount FROM order_details ORDER BY id"

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query order details: %w", err)
	}
	defer rows.Close()

	byOrder := make(map[int][]models.OrderDetail)
	for rows.Next() {
		var d models.OrderDetail
		err := rows.Scan(&d.ID, &d.OrderID, &d.ProductID, &d.Quantity, &d.Discount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order detail: %w", err)
		}
		byOrder[d.OrderID] = append(byOrder[d.OrderID], d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order details: %w", err)
	}

	return byOrder, nil
}
