package api

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"authsystem/internal/api/handler"
	"authsystem/internal/app/service"
	"authsystem/internal/common/security"
	"authsystem/internal/platform/config"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/rs/cors"
)

func NewRouter(authService *service.AuthService) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler)

	// Verifies a bearer token when present and puts the result in context;
	// the Authenticator middleware on protected groups enforces it.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handler.NewAuthHandler(authService)
	r.Route("/api/auth", authHandler.RegisterRoutes)

	// In production the static frontend is served with an index.html
	// fallback for client-side routes.
	if config.AppConfig.IsProduction() && config.AppConfig.StaticDir != "" {
		serveStatic(r, config.AppConfig.StaticDir)
	}

	return r
}

func serveStatic(r chi.Router, dir string) {
	r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
		path := filepath.Join(dir, filepath.Clean("/"+req.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, req, path)
			return
		}
		http.ServeFile(w, req, filepath.Join(dir, "index.html"))
	})
}
