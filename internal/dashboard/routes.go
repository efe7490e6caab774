package dashboard

import (
	"net/http"

	"github.com/eduplus/eduplus-backend/internal/middleware"
	"github.com/eduplus/eduplus-backend/internal/session"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(resolver *session.Resolver) http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(resolver))
		r.Get("/", Handler)
	})

	return r
}
