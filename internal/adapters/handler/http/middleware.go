package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/credo/api/internal/core/ports"
)

type contextKey string

const UserIDKey contextKey = "userID"

// Authenticator verifies the bearer access token and stores the subject in
// the request context. Expired, malformed, and wrong-purpose tokens all
// yield the same 401.
func Authenticator(accessSigner ports.TokenSigner) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "Unauthorized: missing access token", http.StatusUnauthorized)
				return
			}

			userID, err := accessSigner.Verify(token)
			if err != nil {
				http.Error(w, "Unauthorized: invalid access token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
