package db_test

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minishop/minishop/internal/db"
	"github.com/minishop/minishop/internal/models"
)

func newProductRepo(t *testing.T) (*db.ProductRepository, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return db.NewProductRepository(&db.PostgresDB{Conn: conn}), mock
}

func productColumns() []string {
	return []string{"id", "name", "price", "color"}
}

func TestProductRepositoryCreate(t *testing.T) {
	insertQuery := regexp.QuoteMeta("INSERT INTO products (name, price, color) VALUES ($1, $2, $3) RETURNING id, name, price, color")

	t.Run("Returns the row with its generated id", func(t *testing.T) {
		repo, mock := newProductRepo(t)

		mock.ExpectQuery(insertQuery).
			WithArgs("Desk", 100.0, "black").
			WillReturnRows(sqlmock.NewRows(productColumns()).AddRow(1, "Desk", 100.0, "black"))

		product, err := repo.Create(models.CreateProductRequest{Name: "Desk", Price: 100, Color: "black"})

		require.NoError(t, err)
		assert.Equal(t, 1, product.ID)
		assert.Equal(t, "Desk", product.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Stores a negative price and empty fields verbatim", func(t *testing.T) {
		repo, mock := newProductRepo(t)

		mock.ExpectQuery(insertQuery).
			WithArgs("", -50.0, "").
			WillReturnRows(sqlmock.NewRows(productColumns()).AddRow(2, "", -50.0, ""))

		product, err := repo.Create(models.CreateProductRequest{Price: -50})

		require.NoError(t, err)
		assert.Equal(t, -50.0, product.Price)
		assert.Equal(t, "", product.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepositoryGetByID(t *testing.T) {
	selectQuery := regexp.QuoteMeta("SELECT id, name, price, color FROM products WHERE id = $1")

	t.Run("Returns the product", func(t *testing.T) {
		repo, mock := newProductRepo(t)

		mock.ExpectQuery(selectQuery).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows(productColumns()).AddRow(1, "Desk", 100.0, "black"))

		product, err := repo.GetByID(1)

		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, "Desk", product.Name)
	})

	t.Run("Returns nil without an error when the id is unknown", func(t *testing.T) {
		repo, mock := newProductRepo(t)

		mock.ExpectQuery(selectQuery).
			WithArgs(99).
			WillReturnRows(sqlmock.NewRows(productColumns()))

		product, err := repo.GetByID(99)

		assert.NoError(t, err)
		assert.Nil(t, product)
	})
}

func TestProductRepositoryUpdate(t *testing.T) {
	updateQuery := regexp.QuoteMeta("UPDATE products SET name = $1, price = $2, color = $3 WHERE id = $4 RETURNING id, name, price, color")

	t.Run("Rewrites the row named by the entity id", func(t *testing.T) {
		repo, mock := newProductRepo(t)

		mock.ExpectQuery(updateQuery).
			WithArgs("Standing Desk", 150.0, "white", 1).
			WillReturnRows(sqlmock.NewRows(productColumns()).AddRow(1, "Standing Desk", 150.0, "white"))

		updated, err := repo.Update(&models.Product{ID: 1, Name: "Standing Desk", Price: 150, Color: "white"})

		require.NoError(t, err)
		assert.Equal(t, "Standing Desk", updated.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Reports ErrNotFound when no row matches", func(t *testing.T) {
		repo, mock := newProductRepo(t)

		mock.ExpectQuery(updateQuery).
			WithArgs("Ghost", 1.0, "", 99).
			WillReturnRows(sqlmock.NewRows(productColumns()))

		_, err := repo.Update(&models.Product{ID: 99, Name: "Ghost", Price: 1})

		assert.ErrorIs(t, err, db.ErrNotFound)
	})
}

func TestProductRepositoryDelete(t *testing.T) {
	deleteQuery := regexp.QuoteMeta("DELETE FROM products WHERE id = $1")

	t.Run("Deletes the row", func(t *testing.T) {
		repo, mock := newProductRepo(t)

		mock.ExpectExec(deleteQuery).
			WithArgs(1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(1))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Reports ErrNotFound when nothing was deleted", func(t *testing.T) {
		repo, mock := newProductRepo(t)

		mock.ExpectExec(deleteQuery).
			WithArgs(99).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(99), db.ErrNotFound)
	})
}

func TestProductRepositoryGetAll(t *testing.T) {
	t.Run("Returns every product in id order", func(t *testing.T) {
		repo, mock := newProductRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, price, color FROM products ORDER BY id")).
			WillReturnRows(sqlmock.NewRows(productColumns()).
				AddRow(1, "Desk", 100.0, "black").
				AddRow(2, "Chair", 45.5, "gray"))

		products, err := repo.GetAll()

		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "Desk", products[0].Name)
		assert.Equal(t, "Chair", products[1].Name)
	})
}
