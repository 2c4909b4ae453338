package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Ken-Jasadapon/Midterm/internal/middleware"
	"github.com/Ken-Jasadapon/Midterm/internal/models"
	"github.com/Ken-Jasadapon/Midterm/internal/services"
	"github.com/Ken-Jasadapon/Midterm/internal/validate"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for authentication business logic.
type AuthService interface {
	// Method Register creates a new user account and returns a session token.
	//
	// "req" parameter contains username, password, email and role name.
	//
	// If the role is unknown, models.ErrInvalidRole will be returned together with an empty token.
	Register(ctx context.Context, req *models.RegisterRequest) (string, error)
	// Method Login runs one phase of the two-phase login flow.
	//
	// Without an OTP in "req" it verifies the password and mails a code.
	// With an OTP it verifies the code and returns a session token.
	Login(ctx context.Context, req *models.LoginRequest) (*services.LoginResult, error)
	// Method RequestOTP re-verifies the password and mails a fresh code.
	RequestOTP(ctx context.Context, req *models.RequestOTPRequest) error
	// Method ChangePassword verifies the current password and stores a new one.
	ChangePassword(ctx context.Context, userID int, req *models.ChangePasswordRequest) error
	// Method SetNotification toggles the new-product email preference.
	SetNotification(ctx context.Context, userID int, enabled bool) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: BaseHandler{Logger: logger},
		authService: authService,
	}
}

// RegisterPublicRoutes registers the routes reachable without a session token
func (h *AuthHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
}

// RegisterProtectedRoutes registers the account routes behind authentication.
// The OTP limiter only guards the request-otp endpoint.
func (h *AuthHandler) RegisterProtectedRoutes(r chi.Router, otpLimiter func(http.Handler) http.Handler) {
	r.Post("/change-password", h.ChangePassword)
	r.Post("/set-notification", h.SetNotification)
	r.With(otpLimiter).Post("/request-otp", h.RequestOTP)
}

// Register handles POST /register
// @Summary Register a new user
// @Description Register a new user with username, password, email and role. Returns a session token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration request"
// @Success 201 {object} map[string]string "User registration successful"
// @Failure 400 {object} map[string]string "Invalid request body or role"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		h.HandleError(w, err)
		return
	}

	token, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, map[string]string{
		"message": "User registration successful",
		"token":   token,
	})
}

// Login handles POST /login
// @Summary Login user
// @Description First call with username and password mails a one-time code. Second call with the otp field set completes login and returns a session token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} map[string]string "OTP sent or login successful"
// @Failure 401 {object} map[string]string "Invalid password or OTP"
// @Failure 404 {object} map[string]string "User not found"
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		h.HandleError(w, err)
		return
	}

	result, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	if result.OTPSent {
		h.RespondMessage(w, http.StatusOK, "OTP sent to your email. Please verify")
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Login successful",
		"token":   result.Token,
	})
}

// ChangePassword handles POST /change-password
// @Summary Change password
// @Description Verify the current password and replace it with a new one.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.ChangePasswordRequest true "Password change request"
// @Success 200 {object} map[string]string "Password changed successfully"
// @Failure 401 {object} map[string]string "Invalid password"
// @Security BearerAuth
// @Router /change-password [post]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.RespondMessage(w, http.StatusUnauthorized, "User data not found")
		return
	}

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		h.HandleError(w, err)
		return
	}

	if err := h.authService.ChangePassword(r.Context(), user.ID, &req); err != nil {
		h.HandleError(w, err)
		return
	}

	h.RespondMessage(w, http.StatusOK, "Password changed successfully")
}

// RequestOTP handles POST /request-otp
// @Summary Request a fresh OTP
// @Description Re-verify the password and mail a fresh one-time code. Rate limited per client.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RequestOTPRequest true "OTP request"
// @Success 200 {object} map[string]string "OTP sent to your email"
// @Failure 401 {object} map[string]string "Invalid password"
// @Failure 429 {object} map[string]string "Too many OTP requests"
// @Security BearerAuth
// @Router /request-otp [post]
func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req models.RequestOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		h.HandleError(w, err)
		return
	}

	if err := h.authService.RequestOTP(r.Context(), &req); err != nil {
		h.HandleError(w, err)
		return
	}

	h.RespondMessage(w, http.StatusOK, "OTP sent to your email")
}

// SetNotification handles POST /set-notification
// @Summary Toggle product notification emails
// @Description Turn new-product notification emails on or off for the authenticated user.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.SetNotificationRequest true "Notification setting, on or off"
// @Success 200 {object} map[string]string "Notification setting updated successfully"
// @Failure 400 {object} map[string]string "Invalid setting value"
// @Security BearerAuth
// @Router /set-notification [post]
func (h *AuthHandler) SetNotification(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.RespondMessage(w, http.StatusUnauthorized, "User data not found")
		return
	}

	var req models.SetNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		h.HandleError(w, err)
		return
	}

	enabled := req.NotificationEnabled == "on"
	if err := h.authService.SetNotification(r.Context(), user.ID, enabled); err != nil {
		h.HandleError(w, err)
		return
	}

	h.RespondMessage(w, http.StatusOK, "Notification setting updated successfully")
}
