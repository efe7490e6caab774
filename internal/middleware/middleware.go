package middleware

import (
	"context"
	"net/http"

	"github.com/eduplus/eduplus-backend/internal/utils"
)

// IdentityResolver validates the session cookie and returns the authenticated
// identity, rewriting the cookie when a transparent refresh happens. The
// concrete implementation is session.Resolver; the interface keeps the
// middleware testable without tokens or a database.
type IdentityResolver interface {
	Resolve(w http.ResponseWriter, r *http.Request) (utils.Identity, error)
}

func SessionMiddleware(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := resolver.Resolve(w, r)
			if err != nil {
				http.Error(w, "Couldn't resolve session", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextIdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole allows only identities whose token role code is in the list.
// It must run after SessionMiddleware.
func RequireRole(codes ...int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := utils.GetIdentityFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized: missing identity in context", http.StatusUnauthorized)
				return
			}

			for _, code := range codes {
				if identity.RoleCode == code {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Forbidden: insufficient role", http.StatusForbidden)
		})
	}
}

var allowed = map[string]struct{}{
	"http://localhost:3000":       {},
	"http://localhost:5173":       {},
	"https://portal.eduplus.dev":  {},
	"https://eduplus.dev":         {},
	"https://staging.eduplus.dev": {},
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// Echo the origin back only if it’s on our allow-list
		if _, ok := allowed[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin") // important for caches
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods",
				"GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers",
				"Content-Type, Authorization")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
