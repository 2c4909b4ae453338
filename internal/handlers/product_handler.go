package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Ken-Jasadapon/Midterm/internal/models"
	"github.com/Ken-Jasadapon/Midterm/internal/validate"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductService is the interface that wraps methods for product catalog business logic.
type ProductService interface {
	// Method List retrieves all products.
	List(ctx context.Context) ([]models.Product, error)
	// Method Create inserts a new product and notifies subscribed users.
	Create(ctx context.Context, req *models.ProductRequest) (*models.Product, error)
	// Method Update replaces a product's fields.
	//
	// If no product with such ID exists, models.ErrProductNotFound will be returned.
	Update(ctx context.Context, id int, req *models.ProductRequest) (*models.Product, error)
	// Method Delete removes a product.
	//
	// If no product with such ID exists, models.ErrProductNotFound will be returned.
	Delete(ctx context.Context, id int) error
}

// ProductHandler handles product catalog HTTP requests
type ProductHandler struct {
	BaseHandler
	productService ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		BaseHandler:    BaseHandler{Logger: logger},
		productService: productService,
	}
}

// RegisterRoutes registers all product handler routes. Reads are open to
// every authenticated role; writes require the staff middleware.
func (h *ProductHandler) RegisterRoutes(r chi.Router, staffOnly func(http.Handler) http.Handler) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(staffOnly)
			r.Post("/", h.Create)
			r.Put("/{productID}", h.Update)
			r.Delete("/{productID}", h.Delete)
		})
	})
}

// List handles GET /products
// @Summary List products
// @Description Retrieve all products in the catalog.
// @Tags products
// @Produce json
// @Success 200 {object} map[string][]models.Product "Product list"
// @Security BearerAuth
// @Router /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context())
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string][]models.Product{"products": products})
}

// Create handles POST /products
// @Summary Create a product
// @Description Create a new product. Notification-enabled users receive an email alert.
// @Tags products
// @Accept json
// @Produce json
// @Param request body models.ProductRequest true "Product payload"
// @Success 201 {object} map[string]any "Product created successfully"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 403 {object} map[string]string "Insufficient role"
// @Security BearerAuth
// @Router /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		h.HandleError(w, err)
		return
	}

	product, err := h.productService.Create(r.Context(), &req)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, map[string]any{
		"message": "Product created successfully",
		"product": product,
	})
}

// Update handles PUT /products/{productID}
// @Summary Update a product
// @Description Replace a product's fields.
// @Tags products
// @Accept json
// @Produce json
// @Param productID path int true "Product ID"
// @Param request body models.ProductRequest true "Product payload"
// @Success 200 {object} map[string]any "Product updated successfully"
// @Failure 404 {object} map[string]string "Product not found"
// @Security BearerAuth
// @Router /products/{productID} [put]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "productID"))
	if err != nil {
		h.RespondMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req models.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		h.HandleError(w, err)
		return
	}

	product, err := h.productService.Update(r.Context(), id, &req)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]any{
		"message": "Product updated successfully",
		"product": product,
	})
}

// Delete handles DELETE /products/{productID}
// @Summary Delete a product
// @Description Remove a product from the catalog.
// @Tags products
// @Produce json
// @Param productID path int true "Product ID"
// @Success 200 {object} map[string]string "Product deleted successfully"
// @Failure 404 {object} map[string]string "Product not found"
// @Security BearerAuth
// @Router /products/{productID} [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "productID"))
	if err != nil {
		h.RespondMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		h.HandleError(w, err)
		return
	}

	h.RespondMessage(w, http.StatusOK, "Product deleted successfully")
}
