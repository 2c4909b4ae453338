package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrDelivery     = errors.New("email delivery failed")
)

// Specific failures wrap a base sentinel so handlers can pick both the
// status code and the user-facing message via errors.Is.
var (
	ErrInvalidRole      = fmt.Errorf("invalid role: %w", ErrValidation)
	ErrInvalidPassword  = fmt.Errorf("invalid password: %w", ErrUnauthorized)
	ErrInvalidOTP       = fmt.Errorf("invalid otp: %w", ErrUnauthorized)
	ErrUserNotFound     = fmt.Errorf("user not found: %w", ErrNotFound)
	ErrProductNotFound  = fmt.Errorf("product not found: %w", ErrNotFound)
	ErrCartNotFound     = fmt.Errorf("cart not found: %w", ErrNotFound)
	ErrCartItemNotFound = fmt.Errorf("item not found in cart: %w", ErrNotFound)
)
