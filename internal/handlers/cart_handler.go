package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Ken-Jasadapon/Midterm/internal/middleware"
	"github.com/Ken-Jasadapon/Midterm/internal/models"
	"github.com/Ken-Jasadapon/Midterm/internal/validate"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CartService is the interface that wraps methods for shopping cart business logic.
type CartService interface {
	// Method CreateCart creates an empty cart owned by the user and returns its ID.
	CreateCart(ctx context.Context, userID int) (int, error)
	// Method AddItem adds a product to the cart.
	//
	// If the cart or product does not exist, the matching not-found error will be returned.
	AddItem(ctx context.Context, cartID int, req *models.AddCartItemRequest) error
	// Method UpdateItem changes a cart item's quantity.
	UpdateItem(ctx context.Context, cartID, itemID, quantity int) error
	// Method DeleteItem removes an item from the cart.
	DeleteItem(ctx context.Context, cartID, itemID int) error
	// Method ListItems retrieves the cart's contents.
	ListItems(ctx context.Context, cartID int) ([]models.CartItemView, error)
}

// CartHandler handles shopping cart HTTP requests
type CartHandler struct {
	BaseHandler
	cartService CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		BaseHandler: BaseHandler{Logger: logger},
		cartService: cartService,
	}
}

// RegisterRoutes registers all cart handler routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/carts", func(r chi.Router) {
		r.Post("/", h.CreateCart)

		r.Route("/{cartID}/items", func(r chi.Router) {
			r.Get("/", h.ListItems)
			r.Post("/", h.AddItem)
			r.Put("/{itemID}", h.UpdateItem)
			r.Delete("/{itemID}", h.DeleteItem)
		})
	})
}

// CreateCart handles POST /carts
// @Summary Create a cart
// @Description Create an empty cart owned by the authenticated user.
// @Tags carts
// @Produce json
// @Success 201 {object} map[string]any "Cart created successfully"
// @Security BearerAuth
// @Router /carts [post]
func (h *CartHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.RespondMessage(w, http.StatusUnauthorized, "User data not found")
		return
	}

	cartID, err := h.cartService.CreateCart(r.Context(), user.ID)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, map[string]any{
		"message": "Cart created successfully",
		"cart_id": cartID,
	})
}

// AddItem handles POST /carts/{cartID}/items
// @Summary Add an item to a cart
// @Description Add a product to the cart with the given quantity.
// @Tags carts
// @Accept json
// @Produce json
// @Param cartID path int true "Cart ID"
// @Param request body models.AddCartItemRequest true "Item payload"
// @Success 201 {object} map[string]string "Item added to cart successfully"
// @Failure 404 {object} map[string]string "Cart or product not found"
// @Security BearerAuth
// @Router /carts/{cartID}/items [post]
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	cartID, err := strconv.Atoi(chi.URLParam(r, "cartID"))
	if err != nil {
		h.RespondMessage(w, http.StatusBadRequest, "Invalid cart ID")
		return
	}

	var req models.AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		h.HandleError(w, err)
		return
	}

	if err := h.cartService.AddItem(r.Context(), cartID, &req); err != nil {
		h.HandleError(w, err)
		return
	}

	h.RespondMessage(w, http.StatusCreated, "Item added to cart successfully")
}

// UpdateItem handles PUT /carts/{cartID}/items/{itemID}
// @Summary Update a cart item
// @Description Change the quantity of an item already in the cart.
// @Tags carts
// @Accept json
// @Produce json
// @Param cartID path int true "Cart ID"
// @Param itemID path int true "Item ID"
// @Param request body models.UpdateCartItemRequest true "Quantity payload"
// @Success 200 {object} map[string]string "Cart item updated successfully"
// @Failure 404 {object} map[string]string "Cart or item not found"
// @Security BearerAuth
// @Router /carts/{cartID}/items/{itemID} [put]
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	cartID, itemID, ok := h.cartItemParams(w, r)
	if !ok {
		return
	}

	var req models.UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		h.HandleError(w, err)
		return
	}

	if err := h.cartService.UpdateItem(r.Context(), cartID, itemID, req.Quantity); err != nil {
		h.HandleError(w, err)
		return
	}

	h.RespondMessage(w, http.StatusOK, "Cart item updated successfully")
}

// DeleteItem handles DELETE /carts/{cartID}/items/{itemID}
// @Summary Delete a cart item
// @Description Remove an item from the cart.
// @Tags carts
// @Produce json
// @Param cartID path int true "Cart ID"
// @Param itemID path int true "Item ID"
// @Success 200 {object} map[string]string "Item deleted from cart successfully"
// @Failure 404 {object} map[string]string "Cart or item not found"
// @Security BearerAuth
// @Router /carts/{cartID}/items/{itemID} [delete]
func (h *CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	cartID, itemID, ok := h.cartItemParams(w, r)
	if !ok {
		return
	}

	if err := h.cartService.DeleteItem(r.Context(), cartID, itemID); err != nil {
		h.HandleError(w, err)
		return
	}

	h.RespondMessage(w, http.StatusOK, "Item deleted from cart successfully")
}

// ListItems handles GET /carts/{cartID}/items
// @Summary List cart items
// @Description Retrieve the cart's items with product name and price.
// @Tags carts
// @Produce json
// @Param cartID path int true "Cart ID"
// @Success 200 {array} models.CartItemView "Cart items"
// @Failure 404 {object} map[string]string "Cart not found"
// @Security BearerAuth
// @Router /carts/{cartID}/items [get]
func (h *CartHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	cartID, err := strconv.Atoi(chi.URLParam(r, "cartID"))
	if err != nil {
		h.RespondMessage(w, http.StatusBadRequest, "Invalid cart ID")
		return
	}

	items, err := h.cartService.ListItems(r.Context(), cartID)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, items)
}

func (h *CartHandler) cartItemParams(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	cartID, err := strconv.Atoi(chi.URLParam(r, "cartID"))
	if err != nil {
		h.RespondMessage(w, http.StatusBadRequest, "Invalid cart ID")
		return 0, 0, false
	}

	itemID, err := strconv.Atoi(chi.URLParam(r, "itemID"))
	if err != nil {
		h.RespondMessage(w, http.StatusBadRequest, "Invalid item ID")
		return 0, 0, false
	}

	return cartID, itemID, true
}
