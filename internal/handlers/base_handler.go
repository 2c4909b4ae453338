package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Ken-Jasadapon/Midterm/internal/models"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondMessage sends the standard JSON message envelope
func (h *BaseHandler) RespondMessage(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"message": message})
}

// errorResponses maps each service error to its HTTP status and client
// message. Specific errors come before the bases they wrap; the first match
// wins.
var errorResponses = []struct {
	target  error
	status  int
	message string
}{
	{models.ErrInvalidRole, http.StatusBadRequest, "Invalid role"},
	{models.ErrInvalidPassword, http.StatusUnauthorized, "Invalid password"},
	{models.ErrInvalidOTP, http.StatusUnauthorized, "Invalid OTP"},
	{models.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{models.ErrProductNotFound, http.StatusNotFound, "Product not found"},
	{models.ErrCartNotFound, http.StatusNotFound, "Cart not found"},
	{models.ErrCartItemNotFound, http.StatusNotFound, "Item not found in cart"},
	{models.ErrDelivery, http.StatusInternalServerError, "Failed to send OTP email"},
	{models.ErrValidation, http.StatusBadRequest, ""},
	{models.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	{models.ErrForbidden, http.StatusForbidden, "You do not have permission to access."},
	{models.ErrNotFound, http.StatusNotFound, "Not found"},
}

// HandleError maps a service error to its HTTP response. Unrecognized errors
// are logged and answered with a generic 500; their detail never reaches the
// client.
func (h *BaseHandler) HandleError(w http.ResponseWriter, err error) {
	for _, resp := range errorResponses {
		if errors.Is(err, resp.target) {
			message := resp.message
			if message == "" {
				message = err.Error()
			}
			h.RespondMessage(w, resp.status, message)
			return
		}
	}

	h.Logger.Error("unhandled service error", zap.Error(err))
	h.RespondMessage(w, http.StatusInternalServerError, "Internal server error")
}
