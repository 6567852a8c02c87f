package middlewares

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/Rakhulsr/go-cartridge/app/helpers"
	"github.com/Rakhulsr/go-cartridge/app/services"
	"github.com/Rakhulsr/go-cartridge/app/utils/sessions"
)

// StockMemoMiddleware gives every request its own stock memo, dropped when
// the request ends.
func StockMemoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := services.WithStockMemo(r.Context(), services.NewStockMemo())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionContextMiddleware copies the cart id and session key from the
// session cookie into the request context.
func SessionContextMiddleware(store sessions.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cartID := store.GetCartID(r)
			sessionKey, err := store.SessionKey(w, r)
			if err != nil {
				log.Printf("SessionContextMiddleware: failed to get session key for %s: %v", r.URL.Path, err)
			}

			// The session store keeps its per-request registry in r's context,
			// so ctx is taken after the store has used r.
			ctx := r.Context()
			if cartID != "" {
				ctx = context.WithValue(ctx, helpers.ContextKeyCartID, cartID)
			}
			if sessionKey != "" {
				ctx = context.WithValue(ctx, helpers.ContextKeySessionKey, sessionKey)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func MethodOverrideMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			override := r.Header.Get("X-HTTP-Method-Override")
			if override == "" {
				override = r.URL.Query().Get("_method")
			}
			if override != "" {
				r.Method = strings.ToUpper(override)
			}
		}
		next.ServeHTTP(w, r)
	})
}
