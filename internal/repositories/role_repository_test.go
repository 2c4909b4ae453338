package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Ken-Jasadapon/Midterm/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRoleTestRepository(t *testing.T) (*roleRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewRoleRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestRoleRepository_GetIDByName(t *testing.T) {
	repo, mock, cleanup := setupRoleTestRepository(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT role_id FROM roles`).
		WithArgs("customer").
		WillReturnRows(sqlmock.NewRows([]string{"role_id"}).AddRow(3))

	id, err := repo.GetIDByName(context.Background(), "customer")

	require.NoError(t, err)
	assert.Equal(t, 3, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleRepository_GetIDByName_Unknown(t *testing.T) {
	repo, mock, cleanup := setupRoleTestRepository(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT role_id FROM roles`).
		WithArgs("superuser").
		WillReturnRows(sqlmock.NewRows([]string{"role_id"}))

	_, err := repo.GetIDByName(context.Background(), "superuser")

	assert.ErrorIs(t, err, models.ErrInvalidRole)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleRepository_GetAll(t *testing.T) {
	repo, mock, cleanup := setupRoleTestRepository(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT role_id, role_name FROM roles`).
		WillReturnRows(sqlmock.NewRows([]string{"role_id", "role_name"}).
			AddRow(1, "admin").
			AddRow(2, "employee").
			AddRow(3, "customer"))

	roles, err := repo.GetAll(context.Background())

	require.NoError(t, err)
	require.Len(t, roles, 3)
	assert.Equal(t, "admin", roles[0].Name)
	assert.Equal(t, 3, roles[2].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
