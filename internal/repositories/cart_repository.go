package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Ken-Jasadapon/Midterm/internal/models"
)

// cartRepository implements cart and cart-item data access
type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *sql.DB) *cartRepository {
	return &cartRepository{
		db: db,
	}
}

// Create inserts a new cart for the user and returns its ID
func (r *cartRepository) Create(ctx context.Context, userID int) (int, error) {
	query := `INSERT INTO carts (user_id) VALUES (?)`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to create cart: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return int(id), nil
}

// Exists checks if a cart exists with the given ID
func (r *cartRepository) Exists(ctx context.Context, cartID int) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM carts WHERE cart_id = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, cartID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check cart existence: %w", err)
	}

	return exists, nil
}

// AddItem inserts a product into the cart
func (r *cartRepository) AddItem(ctx context.Context, cartID, productID, quantity int) error {
	query := `INSERT INTO cart_items (cart_id, product_id, quantity) VALUES (?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, cartID, productID, quantity); err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	return nil
}

// ItemExists checks if an item exists in the cart
func (r *cartRepository) ItemExists(ctx context.Context, cartID, itemID int) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM cart_items WHERE cart_id = ? AND item_id = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, cartID, itemID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check cart item existence: %w", err)
	}

	return exists, nil
}

// UpdateItemQuantity changes the quantity of a cart item
func (r *cartRepository) UpdateItemQuantity(ctx context.Context, cartID, itemID, quantity int) error {
	query := `UPDATE cart_items SET quantity = ? WHERE cart_id = ? AND item_id = ?`

	result, err := r.db.ExecContext(ctx, query, quantity, cartID, itemID)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	return requireAffected(result, models.ErrCartItemNotFound)
}

// DeleteItem removes an item from the cart
func (r *cartRepository) DeleteItem(ctx context.Context, cartID, itemID int) error {
	query := `DELETE FROM cart_items WHERE cart_id = ? AND item_id = ?`

	result, err := r.db.ExecContext(ctx, query, cartID, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	return requireAffected(result, models.ErrCartItemNotFound)
}

// ListItems retrieves the cart's items joined with their product data
func (r *cartRepository) ListItems(ctx context.Context, cartID int) ([]models.CartItemView, error) {
	query := `
		SELECT p.product_name, ci.quantity, p.price
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.product_id
		WHERE ci.cart_id = ?
	`

	rows, err := r.db.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	items := []models.CartItemView{}
	for rows.Next() {
		var item models.CartItemView
		if err := rows.Scan(&item.ProductName, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return items, nil
}
