package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ken-Jasadapon/Midterm/internal/models"
)

// RoleRecord is a row from the roles reference table
type RoleRecord struct {
	ID   int
	Name string
}

// roleRepository implements read access to the roles reference table
type roleRepository struct {
	db *sql.DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *sql.DB) *roleRepository {
	return &roleRepository{
		db: db,
	}
}

// GetIDByName resolves a role name to its persisted identifier
func (r *roleRepository) GetIDByName(ctx context.Context, name string) (int, error) {
	query := `SELECT role_id FROM roles WHERE role_name = ?`

	var id int
	err := r.db.QueryRowContext(ctx, query, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, models.ErrInvalidRole
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get role by name: %w", err)
	}

	return id, nil
}

// GetAll retrieves every role row
func (r *roleRepository) GetAll(ctx context.Context) ([]RoleRecord, error) {
	query := `SELECT role_id, role_name FROM roles ORDER BY role_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	var roles []RoleRecord
	for rows.Next() {
		var record RoleRecord
		if err := rows.Scan(&record.ID, &record.Name); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return roles, nil
}
