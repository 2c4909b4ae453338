package models

// User represents a user in the system
type User struct {
	ID                  int    `json:"id"`
	Username            string `json:"username"`
	Email               string `json:"email"`
	PasswordHash        string `json:"-"` // Never serialize password hash
	RoleID              Role   `json:"role"`
	Secret              string `json:"-"` // Base32 TOTP secret, empty until first OTP request
	NotificationEnabled bool   `json:"notification_enabled"`
}
