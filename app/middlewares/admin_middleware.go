package middlewares

import (
	"context"
	"log"
	"net/http"

	"github.com/Rakhulsr/go-cartridge/app/helpers"
)

// AdminBasicAuth guards admin routes with HTTP basic auth against a single
// user and bcrypt password hash. An empty hash locks the admin out.
func AdminBasicAuth(user, passwordHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok || passwordHash == "" || username != user || !helpers.PasswordCompare(passwordHash, []byte(password)) {
				if ok {
					log.Printf("AdminBasicAuth: rejected credentials for %q from %s", username, r.RemoteAddr)
				}
				w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), helpers.ContextKeyAdmin, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
