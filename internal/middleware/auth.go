package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Ken-Jasadapon/Midterm/internal/auth"
	"github.com/Ken-Jasadapon/Midterm/internal/models"
)

type contextKey string

const userKey contextKey = "user"

// UserResolver resolves a claimed user identifier against the credential store
type UserResolver interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// Authenticate validates the bearer token and resolves the claimed user.
// Token verification is stateless; the user lookup afterwards is a separate
// step so that deleted accounts with cryptographically valid tokens are
// still denied.
func Authenticate(tokens *auth.TokenGenerator, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				// Expected format: "Bearer <token>"
				parts := strings.Split(authHeader, " ")
				if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
					token = parts[1]
				}
			}

			if token == "" {
				respondMessage(w, http.StatusUnauthorized, "No token provided")
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					respondMessage(w, http.StatusUnauthorized, "Token expired")
					return
				}
				respondMessage(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			user, err := users.GetByID(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					respondMessage(w, http.StatusUnauthorized, "Unauthorized")
					return
				}
				respondMessage(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}

// Authorize allows only users whose role maps to one of the given role names.
// It composes after Authenticate; a missing authenticated user is treated as
// unauthorized, a disallowed role as forbidden.
func Authorize(allowedRoles ...string) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]bool, len(allowedRoles))
	for _, name := range allowedRoles {
		if role, ok := models.RoleByName(name); ok {
			allowed[role] = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				respondMessage(w, http.StatusUnauthorized, "User data not found")
				return
			}

			if !allowed[user.RoleID] {
				respondMessage(w, http.StatusForbidden, "You do not have permission to access.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ContextWithUser returns a context carrying the authenticated user
func ContextWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext retrieves the authenticated user from context
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}
