package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ken-Jasadapon/Midterm/internal/models"
)

// productRepository implements product data access
type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB) *productRepository {
	return &productRepository{
		db: db,
	}
}

// List retrieves all products
func (r *productRepository) List(ctx context.Context) ([]models.Product, error) {
	query := `
		SELECT product_id, product_name, description, price, quantity
		FROM products
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var product models.Product
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, nil
}

// GetByID retrieves a product by ID
func (r *productRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	query := `
		SELECT product_id, product_name, description, price, quantity
		FROM products
		WHERE product_id = ?
	`

	product := &models.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Quantity,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// Create inserts a new product
func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (product_name, description, price, quantity)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, product.Name, product.Description, product.Price, product.Quantity)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	product.ID = int(id)
	return nil
}

// Update replaces a product's fields
func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET product_name = ?, description = ?, price = ?, quantity = ?
		WHERE product_id = ?
	`

	result, err := r.db.ExecContext(ctx, query, product.Name, product.Description, product.Price, product.Quantity, product.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	return requireAffected(result, models.ErrProductNotFound)
}

// Delete removes a product
func (r *productRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM products WHERE product_id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return requireAffected(result, models.ErrProductNotFound)
}

// Exists checks if a product exists with the given ID
func (r *productRepository) Exists(ctx context.Context, id int) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM products WHERE product_id = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}

	return exists, nil
}
