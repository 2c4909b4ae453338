package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ken-Jasadapon/Midterm/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockProductService is a mock implementation of ProductService
type mockProductService struct {
	products []models.Product
	product  *models.Product
	err      error
}

func (m *mockProductService) List(ctx context.Context) ([]models.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

func (m *mockProductService) Create(ctx context.Context, req *models.ProductRequest) (*models.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.product, nil
}

func (m *mockProductService) Update(ctx context.Context, id int, req *models.ProductRequest) (*models.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.product, nil
}

func (m *mockProductService) Delete(ctx context.Context, id int) error {
	return m.err
}

func noopMiddleware(next http.Handler) http.Handler {
	return next
}

func newProductTestRouter(svc *mockProductService) chi.Router {
	logger, _ := zap.NewDevelopment()
	h := NewProductHandler(svc, logger)

	r := chi.NewRouter()
	h.RegisterRoutes(r, noopMiddleware)
	return r
}

func TestProductHandler_List(t *testing.T) {
	router := newProductTestRouter(&mockProductService{
		products: []models.Product{{ID: 1, Name: "Keyboard", Price: 59.99}},
	})

	req := httptest.NewRequest(http.MethodGet, "/products/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string][]models.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body["products"], 1)
	assert.Equal(t, "Keyboard", body["products"][0].Name)
}

func TestProductHandler_Create(t *testing.T) {
	router := newProductTestRouter(&mockProductService{
		product: &models.Product{ID: 5, Name: "Keyboard", Price: 59.99, Quantity: 10},
	})

	payload, err := json.Marshal(models.ProductRequest{
		Name:        "Keyboard",
		Description: "Mechanical keyboard",
		Price:       59.99,
		Quantity:    10,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/products/", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Message string         `json:"message"`
		Product models.Product `json:"product"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Product created successfully", body.Message)
	assert.Equal(t, 5, body.Product.ID)
}

func TestProductHandler_Create_InvalidPayload(t *testing.T) {
	router := newProductTestRouter(&mockProductService{})

	payload, err := json.Marshal(models.ProductRequest{Name: "Keyboard", Price: -1})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/products/", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductHandler_Update_NotFound(t *testing.T) {
	router := newProductTestRouter(&mockProductService{err: models.ErrProductNotFound})

	payload, err := json.Marshal(models.ProductRequest{
		Name:        "Keyboard",
		Description: "Mechanical keyboard",
		Price:       49.99,
		Quantity:    5,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/products/99", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", decodeBody(t, rec)["message"])
}

func TestProductHandler_Delete(t *testing.T) {
	router := newProductTestRouter(&mockProductService{})

	req := httptest.NewRequest(http.MethodDelete, "/products/3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product deleted successfully", decodeBody(t, rec)["message"])
}

func TestProductHandler_Delete_InvalidID(t *testing.T) {
	router := newProductTestRouter(&mockProductService{})

	req := httptest.NewRequest(http.MethodDelete, "/products/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid product ID", decodeBody(t, rec)["message"])
}
