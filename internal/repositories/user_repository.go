package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ken-Jasadapon/Midterm/internal/models"
)

// userRepository implements user data access over the users table
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{
		db: db,
	}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password, email, role_id)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, user.Username, user.PasswordHash, user.Email, int(user.RoleID))
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = int(id)
	return nil
}

// GetByUsername retrieves a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT user_id, username, password, email, role_id, secret, notification_enabled
		FROM users
		WHERE username = ?
	`

	return r.scanUser(r.db.QueryRowContext(ctx, query, username))
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT user_id, username, password, email, role_id, secret, notification_enabled
		FROM users
		WHERE user_id = ?
	`

	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// UpdatePassword replaces the stored password hash
func (r *userRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	query := `UPDATE users SET password = ? WHERE user_id = ?`

	result, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return requireAffected(result, models.ErrUserNotFound)
}

// UpdateSecret persists the user's OTP secret. The write is unconditional:
// concurrent first-time provisioning races are resolved last-write-wins.
func (r *userRepository) UpdateSecret(ctx context.Context, id int, secret string) error {
	query := `UPDATE users SET secret = ? WHERE user_id = ?`

	result, err := r.db.ExecContext(ctx, query, secret, id)
	if err != nil {
		return fmt.Errorf("failed to update secret: %w", err)
	}

	return requireAffected(result, models.ErrUserNotFound)
}

// UpdateNotification toggles the new-product notification preference
func (r *userRepository) UpdateNotification(ctx context.Context, id int, enabled bool) error {
	query := `UPDATE users SET notification_enabled = ? WHERE user_id = ?`

	result, err := r.db.ExecContext(ctx, query, enabled, id)
	if err != nil {
		return fmt.Errorf("failed to update notification setting: %w", err)
	}

	return requireAffected(result, models.ErrUserNotFound)
}

// ListNotificationEnabled retrieves all users who opted into product emails
func (r *userRepository) ListNotificationEnabled(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT user_id, username, password, email, role_id, secret, notification_enabled
		FROM users
		WHERE notification_enabled = TRUE
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *userRepository) scanUser(row rowScanner) (*models.User, error) {
	user, err := scanUserRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func scanUserRow(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var roleID int
	var secret sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Email,
		&roleID,
		&secret,
		&user.NotificationEnabled,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user.RoleID = models.Role(roleID)
	if secret.Valid {
		user.Secret = secret.String
	}

	return user, nil
}

// requireAffected maps a zero-row update to the given not-found error
func requireAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
