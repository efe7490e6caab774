package auth

import (
	"net/http"
	"time"

	"github.com/eduplus/eduplus-backend/internal/middleware"
	"github.com/eduplus/eduplus-backend/internal/session"
	"github.com/eduplus/eduplus-backend/internal/token"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

func SetupRoutes(api *API, resolver *session.Resolver) http.Handler {
	r := chi.NewRouter()

	loginLimiter := middleware.NewRateLimiter(rate.Every(12*time.Second), 5)

	r.With(loginLimiter.Middleware).Post("/login", api.LoginHandler)
	r.Post("/register", api.RegisterHandler)
	r.Post("/logout", api.LogoutHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(resolver))
		r.Get("/me", api.MeHandler)
		r.Post("/password", api.UpdatePasswordHandler)
		r.Patch("/profile", api.UpdateProfileHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(token.RoleCodeAdmin))
			r.Get("/users", api.ListUsersHandler)
			r.Post("/users", api.CreateUserHandler)
			r.Patch("/users/{id}", api.UpdateUserHandler)
			r.Patch("/users/{id}/role", api.UpdateUserRoleHandler)
			r.Delete("/users/{id}", api.DeleteUserHandler)
			r.Get("/instructors", api.ListInstructorsHandler)
		})
	})

	return r
}
