package services

import (
	"context"
	"fmt"

	"github.com/Ken-Jasadapon/Midterm/internal/mailer"
	"github.com/Ken-Jasadapon/Midterm/internal/models"
	"go.uber.org/zap"
)

// ProductRepository is the interface that wraps methods for Product table data access
type ProductRepository interface {
	// Method List retrieves all products.
	List(ctx context.Context) ([]models.Product, error)
	// Method Create inserts a new product and fills in its ID.
	Create(ctx context.Context, product *models.Product) error
	// Method Update replaces a product's fields.
	//
	// If no product with such ID exists, models.ErrProductNotFound will be returned.
	Update(ctx context.Context, product *models.Product) error
	// Method Delete removes a product.
	//
	// If no product with such ID exists, models.ErrProductNotFound will be returned.
	Delete(ctx context.Context, id int) error
	// Method Exists checks if a product exists with the given ID.
	Exists(ctx context.Context, id int) (bool, error)
}

// SubscriberRepository lists users who opted into new-product emails
type SubscriberRepository interface {
	ListNotificationEnabled(ctx context.Context) ([]models.User, error)
}

// productService implements the product catalog
type productService struct {
	productRepo ProductRepository
	subscribers SubscriberRepository
	mailer      mailer.Mailer
	logger      *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(
	productRepo ProductRepository,
	subscribers SubscriberRepository,
	mailer mailer.Mailer,
	logger *zap.Logger,
) *productService {
	return &productService{
		productRepo: productRepo,
		subscribers: subscribers,
		mailer:      mailer,
		logger:      logger,
	}
}

// List retrieves all products
func (s *productService) List(ctx context.Context) ([]models.Product, error) {
	return s.productRepo.List(ctx)
}

// Create inserts a new product and notifies subscribed users by email.
// Notification failures are logged and never fail the request; the product
// row is already committed.
func (s *productService) Create(ctx context.Context, req *models.ProductRequest) (*models.Product, error) {
	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.notifySubscribers(ctx, product)

	return product, nil
}

// Update replaces a product's fields
func (s *productService) Update(ctx context.Context, id int, req *models.ProductRequest) (*models.Product, error) {
	product := &models.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Delete removes a product
func (s *productService) Delete(ctx context.Context, id int) error {
	return s.productRepo.Delete(ctx, id)
}

func (s *productService) notifySubscribers(ctx context.Context, product *models.Product) {
	users, err := s.subscribers.ListNotificationEnabled(ctx)
	if err != nil {
		s.logger.Error("failed to list notification subscribers", zap.Error(err))
		return
	}

	body := fmt.Sprintf("A new product is available: %s. Price: %.2f", product.Name, product.Price)
	for _, user := range users {
		if err := s.mailer.Send(user.Email, "New Product Alert!", body); err != nil {
			s.logger.Warn("failed to send product notification",
				zap.Int("userId", user.ID),
				zap.Int("productId", product.ID),
				zap.Error(err))
		}
	}
}
