package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// OTPRequestLimiter bounds OTP request frequency per client IP: at most
// limit requests per window. Exceeding the limit short-circuits with a 429
// before the handler executes; the window rolls forward on time alone.
func OTPRequestLimiter(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			respondMessage(w, http.StatusTooManyRequests, "Too many OTP requests, please try again later")
		}),
	)
}
