package db

import (
	"database/sql"
	"fmt"

	"github.com/minishop/minishop/internal/models"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(database *PostgresDB) *ProductRepository {
	return &ProductRepository{db: database.Conn}
}

// GetAll returns every product, unfiltered and unpaginated.
func (r *ProductRepository) GetAll() ([]models.Product, error) {
	query := "SELECT id, name, price, color FROM products ORDER BY id"

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Color)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	return products, nil
}

// GetByID returns a single product, or (nil, nil) when the id is unknown.
func (r *ProductRepository) GetByID(id int) (*models.Product, error) {
	query := "SELECT id, name, price, color FROM products WHERE id = $1"

	var p models.Product
	err := r.db.QueryRow(query, id).Scan(&p.ID, &p.Name, &p.Price, &p.Color)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &p, nil
}

// Create inserts a new product. The request is stored exactly as sent.
func (r *ProductRepository) Create(req models.CreateProductRequest) (*models.Product, error) {
	query := `
		INSERT INTO products (name, price, color)
		VALUES ($1, $2, $3)
		RETURNING id, name, price, color
	`

	var p models.Product
	err := r.db.QueryRow(query, req.Name, req.Price, req.Color).
		Scan(&p.ID, &p.Name, &p.Price, &p.Color)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &p, nil
}

// Update replaces every column of the row keyed by the entity's own id.
// There is no version column: concurrent updates race and the last writer
// wins.
func (r *ProductRepository) Update(product *models.Product) (*models.Product, error) {
	query := `
		UPDATE products
		SET name = $1, price = $2, color = $3
		WHERE id = $4
		RETURNING id, name, price, color
	`

	var p models.Product
	err := r.db.QueryRow(query, product.Name, product.Price, product.Color, product.ID).
		Scan(&p.ID, &p.Name, &p.Price, &p.Color)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return &p, nil
}

// Delete removes a product. The order_details rows referencing it go with
// it through ON DELETE CASCADE, order history included.
func (r *ProductRepository) Delete(id int) error {
	query := "DELETE FROM products WHERE id = $1"

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
