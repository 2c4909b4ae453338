package services

import (
	"context"
	"errors"

	"github.com/Ken-Jasadapon/Midterm/internal/models"
)

// CartRepository is the interface that wraps methods for cart and cart-item data access
type CartRepository interface {
	// Method Create inserts a new cart for the user and returns its ID.
	Create(ctx context.Context, userID int) (int, error)
	// Method Exists checks if a cart exists with the given ID.
	Exists(ctx context.Context, cartID int) (bool, error)
	// Method AddItem inserts a product into the cart.
	AddItem(ctx context.Context, cartID, productID, quantity int) error
	// Method ItemExists checks if an item exists in the cart.
	ItemExists(ctx context.Context, cartID, itemID int) (bool, error)
	// Method UpdateItemQuantity changes the quantity of a cart item.
	UpdateItemQuantity(ctx context.Context, cartID, itemID, quantity int) error
	// Method DeleteItem removes an item from the cart.
	//
	// If no such item exists in the cart, models.ErrCartItemNotFound will be returned.
	DeleteItem(ctx context.Context, cartID, itemID int) error
	// Method ListItems retrieves the cart's items joined with their product data.
	ListItems(ctx context.Context, cartID int) ([]models.CartItemView, error)
}

// CartProductRepository is the slice of product data access the cart service needs
type CartProductRepository interface {
	Exists(ctx context.Context, id int) (bool, error)
}

// cartService implements shopping cart operations
type cartService struct {
	cartRepo    CartRepository
	productRepo CartProductRepository
}

// NewCartService creates a new cart service
func NewCartService(cartRepo CartRepository, productRepo CartProductRepository) *cartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// CreateCart creates an empty cart owned by the user
func (s *cartService) CreateCart(ctx context.Context, userID int) (int, error) {
	return s.cartRepo.Create(ctx, userID)
}

// AddItem adds a product to the cart after checking both exist
func (s *cartService) AddItem(ctx context.Context, cartID int, req *models.AddCartItemRequest) error {
	if err := s.requireCart(ctx, cartID); err != nil {
		return err
	}

	exists, err := s.productRepo.Exists(ctx, req.ProductID)
	if err != nil {
		return err
	}
	if !exists {
		return models.ErrProductNotFound
	}

	return s.cartRepo.AddItem(ctx, cartID, req.ProductID, req.Quantity)
}

// UpdateItem changes a cart item's quantity
func (s *cartService) UpdateItem(ctx context.Context, cartID, itemID, quantity int) error {
	if err := s.requireCart(ctx, cartID); err != nil {
		return err
	}

	exists, err := s.cartRepo.ItemExists(ctx, cartID, itemID)
	if err != nil {
		return err
	}
	if !exists {
		return models.ErrCartItemNotFound
	}

	// A write that leaves the quantity unchanged affects zero rows, so the
	// existence check above is what distinguishes no-op from missing
	err = s.cartRepo.UpdateItemQuantity(ctx, cartID, itemID, quantity)
	if err != nil && !errors.Is(err, models.ErrCartItemNotFound) {
		return err
	}
	return nil
}

// DeleteItem removes an item from the cart
func (s *cartService) DeleteItem(ctx context.Context, cartID, itemID int) error {
	if err := s.requireCart(ctx, cartID); err != nil {
		return err
	}

	return s.cartRepo.DeleteItem(ctx, cartID, itemID)
}

// ListItems retrieves the cart's contents
func (s *cartService) ListItems(ctx context.Context, cartID int) ([]models.CartItemView, error) {
	if err := s.requireCart(ctx, cartID); err != nil {
		return nil, err
	}

	return s.cartRepo.ListItems(ctx, cartID)
}

func (s *cartService) requireCart(ctx context.Context, cartID int) error {
	exists, err := s.cartRepo.Exists(ctx, cartID)
	if err != nil {
		return err
	}
	if !exists {
		return models.ErrCartNotFound
	}
	return nil
}
