package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/subo-hems/api/internal/auth"
	"github.com/subo-hems/api/internal/config"
	"github.com/subo-hems/api/internal/enum"
	"github.com/subo-hems/api/internal/handler"
	"github.com/subo-hems/api/internal/menu"
	mw "github.com/subo-hems/api/internal/middleware"
	"github.com/subo-hems/api/internal/service"
)

// New creates a Chi router with all application routes wired up.
// Every route is served both at the root and under /api.
func New(cfg *config.Config, svc *service.OrderService, catalog *menu.Catalog, users *auth.Directory) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	routes := func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})

		authHandler := handler.NewAuthHandler(users, cfg.JWTSecret)
		authHandler.RegisterRoutes(r)

		handler.NewMenuHandler(catalog).RegisterRoutes(r)

		// Order commands stay open to every surface.
		orderHandler := handler.NewOrderHandler(svc)
		r.Route("/orders", orderHandler.RegisterRoutes)

		// Protected routes (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate(cfg.JWTSecret))
			authHandler.RegisterProtectedRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.RoleManagement))
				handler.NewDashboardHandler(svc).RegisterRoutes(r)
			})
		})
	}

	routes(r)
	r.Route("/api", routes)

	log.Println("Router initialized with all handlers")
	return r
}
