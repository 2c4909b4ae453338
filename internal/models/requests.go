package models

// RegisterRequest is the payload for user registration
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required"`
}

// LoginRequest is the payload for both login phases. OTP is empty on the
// first call and carries the emailed code on the second.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	OTP      string `json:"otp"`
}

// ChangePasswordRequest is the payload for password change
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// RequestOTPRequest asks for a fresh OTP email
type RequestOTPRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SetNotificationRequest toggles new-product notification emails
type SetNotificationRequest struct {
	NotificationEnabled string `json:"notification_enabled" validate:"required,oneof=on off"`
}

// ProductRequest is the payload for product create and update
type ProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
}

// AddCartItemRequest is the payload for adding a product to a cart
type AddCartItemRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"required,gt=0"`
}

// UpdateCartItemRequest is the payload for changing a cart item quantity
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}
