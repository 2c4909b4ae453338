package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Ken-Jasadapon/Midterm/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProductTestRepository(t *testing.T) (*productRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewProductRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func productColumns() []string {
	return []string{"product_id", "product_name", "description", "price", "quantity"}
}

func TestProductRepository_List(t *testing.T) {
	repo, mock, cleanup := setupProductTestRepository(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT product_id, product_name, description, price, quantity`).
		WillReturnRows(sqlmock.NewRows(productColumns()).
			AddRow(1, "Keyboard", "Mechanical keyboard", 59.99, 10).
			AddRow(2, "Mouse", "Wireless mouse", 24.50, 30))

	products, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Keyboard", products[0].Name)
	assert.Equal(t, 24.50, products[1].Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_Empty(t *testing.T) {
	repo, mock, cleanup := setupProductTestRepository(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT product_id, product_name, description, price, quantity`).
		WillReturnRows(sqlmock.NewRows(productColumns()))

	products, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, cleanup := setupProductTestRepository(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT product_id, product_name, description, price, quantity`).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(productColumns()))

	_, err := repo.GetByID(context.Background(), 99)

	assert.ErrorIs(t, err, models.ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Create(t *testing.T) {
	repo, mock, cleanup := setupProductTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`INSERT INTO products`).
		WithArgs("Keyboard", "Mechanical keyboard", 59.99, 10).
		WillReturnResult(sqlmock.NewResult(5, 1))

	product := &models.Product{
		Name:        "Keyboard",
		Description: "Mechanical keyboard",
		Price:       59.99,
		Quantity:    10,
	}
	err := repo.Create(context.Background(), product)

	require.NoError(t, err)
	assert.Equal(t, 5, product.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE products`).
					WithArgs("Keyboard", "Mechanical keyboard", 49.99, 5, 1).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE products`).
					WithArgs("Keyboard", "Mechanical keyboard", 49.99, 5, 1).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedError: models.ErrProductNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE products`).
					WithArgs("Keyboard", "Mechanical keyboard", 49.99, 5, 1).
					WillReturnError(errors.New("database error"))
			},
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupProductTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			product := &models.Product{
				ID:          1,
				Name:        "Keyboard",
				Description: "Mechanical keyboard",
				Price:       49.99,
				Quantity:    5,
			}
			err := repo.Update(context.Background(), product)

			if tt.expectedError != nil {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProductRepository_Delete_NotFound(t *testing.T) {
	repo, mock, cleanup := setupProductTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`DELETE FROM products`).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)

	assert.ErrorIs(t, err, models.ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Exists(t *testing.T) {
	repo, mock, cleanup := setupProductTestRepository(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), 1)

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
