package middleware

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"
)

// AdminAuth guards the admin endpoints with a shared bearer token. Token
// issuance and user identity live in the separate auth service; this is the
// boundary check only. An empty expected token means development mode:
// requests pass through, loudly.
func AdminAuth(expectedToken string) func(http.Handler) http.Handler {
	if expectedToken == "" {
		log.Println("WARNING: ADMIN_TOKEN not set, admin endpoints are unprotected")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if expectedToken == "" {
				next.ServeHTTP(w, r)
				return
			}
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
