package middleware

import (
	"encoding/json"
	"net/http"
)

// respondMessage writes the standard JSON message envelope used by every
// middleware short-circuit response
func respondMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
