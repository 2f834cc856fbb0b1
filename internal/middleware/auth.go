package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

type contextKey string

const APIKeyKey contextKey = "api_key"

// APIKeyAuth validates API key from Authorization or X-API-Key header.
// An empty key list disables the check.
func APIKeyAuth(validKeys []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(validKeys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip auth for health check
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				auth := r.Header.Get("Authorization")
				if auth == "" {
					writeError(w, r, http.StatusUnauthorized, "missing Authorization header")
					return
				}
				// Support both "Bearer <key>" and "<key>" formats
				apiKey = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			}
			if apiKey == "" {
				writeError(w, r, http.StatusUnauthorized, "invalid Authorization header format")
				return
			}

			// constant-time comparison
			valid := false
			for _, key := range validKeys {
				if subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) == 1 {
					valid = true
					break
				}
			}
			if !valid {
				writeError(w, r, http.StatusUnauthorized, "invalid API key")
				return
			}

			ctx := context.WithValue(r.Context(), APIKeyKey, apiKey)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAPIKeyFromContext extracts the authenticated key, "" when auth is off.
func GetAPIKeyFromContext(ctx context.Context) string {
	if key, ok := ctx.Value(APIKeyKey).(string); ok {
		return key
	}
	return ""
}
