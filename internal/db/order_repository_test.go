package db_test

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minishop/minishop/internal/db"
	"github.com/minishop/minishop/internal/models"
)

// anyTime matches any time.Time argument, for querying against the
// server-stamped order date.
type anyTime struct{}

func (anyTime) Match(v driver.Value) bool {
	_, ok := v.(time.Time)
	return ok
}

func newOrderRepo(t *testing.T) (*db.OrderRepository, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return db.NewOrderRepository(&db.PostgresDB{Conn: conn}), mock
}

var (
	insertOrderQuery  = regexp.QuoteMeta("INSERT INTO orders (ship_addr, order_date) VALUES ($1, $2) RETURNING id")
	insertDetailQuery = regexp.QuoteMeta("INSERT INTO order_details (order_id, product_id, quantity, discount) VALUES ($1, $2, $3, $4) RETURNING id")
)

func TestOrderRepositoryCreate(t *testing.T) {
	t.Run("Persists the order and its details in one transaction", func(t *testing.T) {
		repo, mock := newOrderRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(insertOrderQuery).
			WithArgs("123 Main St", anyTime{}).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery(insertDetailQuery).
			WithArgs(7, 1, 2, 0.0).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
		mock.ExpectQuery(insertDetailQuery).
			WithArgs(7, 2, 1, 0.1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
		mock.ExpectCommit()

		order := models.Order{
			ShipAddr: "123 Main St",
			Details: []models.OrderDetail{
				{ProductID: 1, Quantity: 2},
				{ProductID: 2, Quantity: 1, Discount: 0.1},
			},
		}

		require.NoError(t, repo.Create(&order))

		assert.Equal(t, 7, order.ID)
		assert.Equal(t, 11, order.Details[0].ID)
		assert.Equal(t, 12, order.Details[1].ID)
		assert.Equal(t, 7, order.Details[0].OrderID)
		assert.Equal(t, 7, order.Details[1].OrderID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Stamps the order date, overwriting whatever the caller set", func(t *testing.T) {
		repo, mock := newOrderRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(insertOrderQuery).
			WithArgs("", anyTime{}).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		order := models.Order{
			OrderDate: time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC),
		}

		require.NoError(t, repo.Create(&order))

		assert.WithinDuration(t, time.Now().UTC(), order.OrderDate, 5*time.Second)
	})

	t.Run("Rolls back the aggregate when a detail insert fails", func(t *testing.T) {
		repo, mock := newOrderRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(insertOrderQuery).
			WithArgs("456 Oak Ave", anyTime{}).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))
		mock.ExpectQuery(insertDetailQuery).
			WithArgs(8, 99, 1, 0.0).
			WillReturnError(errors.New(`pq: insert or update on table "order_details" violates foreign key constraint`))
		mock.ExpectRollback()

		order := models.Order{
			ShipAddr: "456 Oak Ave",
			Details:  []models.OrderDetail{{ProductID: 99, Quantity: 1}},
		}

		err := repo.Create(&order)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to insert order detail")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepositoryGetAll(t *testing.T) {
	ordersQuery := regexp.QuoteMeta("SELECT id, ship_addr, order_date FROM orders ORDER BY id")
	detailsQuery := regexp.QuoteMeta("SELECT id, order_id, product_id, quantity, discount FROM order_details ORDER BY id")

	t.Run("Groups detail lines under their orders", func(t *testing.T) {
		repo, mock := newOrderRepo(t)

		placed := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
		mock.ExpectQuery(ordersQuery).
			WillReturnRows(sqlmock.NewRows([]string{"id", "ship_addr", "order_date"}).
				AddRow(1, "123 Main St", placed).
				AddRow(2, "456 Oak Ave", placed))
		mock.ExpectQuery(detailsQuery).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "discount"}).
				AddRow(10, 1, 3, 2, 0.0).
				AddRow(11, 1, 4, 1, 0.25).
				AddRow(12, 2, 3, 5, 0.0))

		orders, err := repo.GetAll()

		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Len(t, orders[0].Details, 2)
		assert.Len(t, orders[1].Details, 1)
		assert.Equal(t, 4, orders[0].Details[1].ProductID)
		assert.Equal(t, 0.25, orders[0].Details[1].Discount)
	})

	t.Run("Leaves details empty for an order whose lines were cascade deleted", func(t *testing.T) {
		repo, mock := newOrderRepo(t)

		placed := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
		mock.ExpectQuery(ordersQuery).
			WillReturnRows(sqlmock.NewRows([]string{"id", "ship_addr", "order_date"}).
				AddRow(1, "123 Main St", placed))
		mock.ExpectQuery(detailsQuery).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "discount"}))

		orders, err := repo.GetAll()

		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Empty(t, orders[0].Details)
	})

	t.Run("Skips the detail query when there are no orders", func(t *testing.T) {
		repo, mock := newOrderRepo(t)

		mock.ExpectQuery(ordersQuery).
			WillReturnRows(sqlmock.NewRows([]string{"id", "ship_addr", "order_date"}))

		orders, err := repo.GetAll()

		require.NoError(t, err)
		assert.Empty(t, orders)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
