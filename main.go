package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/eduplus/eduplus-backend/internal/announcements"
	"github.com/eduplus/eduplus-backend/internal/auth"
	"github.com/eduplus/eduplus-backend/internal/config"
	"github.com/eduplus/eduplus-backend/internal/courses"
	"github.com/eduplus/eduplus-backend/internal/dashboard"
	"github.com/eduplus/eduplus-backend/internal/db"
	"github.com/eduplus/eduplus-backend/internal/messages"
	"github.com/eduplus/eduplus-backend/internal/middleware"
	"github.com/eduplus/eduplus-backend/internal/session"
	"github.com/eduplus/eduplus-backend/internal/token"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	db.Connect(cfg.DatabaseURL)

	auth.Init()
	courses.Init()
	announcements.Init()
	messages.Init()

	tokens := token.NewService(cfg.JWT.Secret, cfg.AccessTTL(), cfg.RefreshTTL())
	store := &session.Store{Secure: cfg.CookieSecure}
	resolver := session.NewResolver(tokens, store, auth.UserDirectory{})
	api := &auth.API{Tokens: tokens, Store: store}

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Mount("/auth", auth.SetupRoutes(api, resolver))
	r.Mount("/courses", courses.SetupRoutes(resolver))
	r.Mount("/announcements", announcements.SetupRoutes(resolver))
	r.Mount("/messages", messages.SetupRoutes(resolver))
	r.Mount("/dashboard", dashboard.SetupRoutes(resolver))

	log.Printf("Server listening on port :%s...", cfg.Port)

	if err := http.ListenAndServe("0.0.0.0:"+cfg.Port, r); err != nil {
		log.Fatal("Server stopped: ", err)
	}
}
