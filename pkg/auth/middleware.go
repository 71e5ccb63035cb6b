// Package auth guards the admin routes with a static bearer token. The
// public site has no user accounts; the only caller of the admin API is the
// back-office dashboard, which holds ADMIN_API_TOKEN.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

// RequireToken returns middleware that rejects requests whose Authorization
// header does not carry `Bearer <token>`. Comparison is constant-time.
func RequireToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			got, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"error":   "unauthorized",
					"message": "missing or invalid admin token",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Open passes every request through. Used when ADMIN_API_TOKEN is unset
// (local development).
func Open(next http.Handler) http.Handler {
	return next
}
