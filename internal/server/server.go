// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/BrownBean2017/SpotShare-MVP/internal/config"
	"github.com/BrownBean2017/SpotShare-MVP/internal/server/handlers"
	"github.com/BrownBean2017/SpotShare-MVP/internal/service/session"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	sessions *session.Manager,
	hub *handlers.Hub,
) (*Server, error) {
	ui, err := handlers.NewUIHandler()
	if err != nil {
		return nil, err
	}

	router := NewRouter(cfg, sessions, hub, ui)

	// Create HTTP server
	httpServer := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:     router,
		ReadTimeout: cfg.ReadTimeout,
		// WriteTimeout would cut long-lived WebSocket connections; the
		// Timeout middleware bounds everything else
	}

	return &Server{
		server: httpServer,
		router: router,
	}, nil
}

// NewRouter builds the route tree
func NewRouter(
	cfg config.ServerConfig,
	sessions *session.Manager,
	hub *handlers.Hub,
	ui *handlers.UIHandler,
) *chi.Mux {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", handlers.SessionHeader},
		ExposedHeaders:   []string{handlers.SessionHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	router.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// WebSocket endpoint for session events
	router.With(handlers.RequireSession(sessions)).Get("/ws/events", hub.EventsWebSocketHandler)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout(cfg)))

		// Browser UI, the only routes that start sessions implicitly
		r.Group(func(r chi.Router) {
			r.Use(handlers.SessionMiddleware(sessions, cfg.SecureCookies))

			r.Get("/", ui.Index)
			r.Route("/ui", func(r chi.Router) {
				r.Post("/view", ui.SetView)
				r.Post("/map", ui.ToggleMap)
				r.Post("/filter", ui.SetFilter)
				r.Post("/search", ui.Search)
				r.Post("/select", ui.Select)
				r.Post("/close", ui.Close)
				r.Post("/book", ui.Book)
				r.Post("/draft", ui.Draft)
			})
		})

		// API version
		r.Route("/api/v1", func(r chi.Router) {
			r.Post("/sessions", handlers.CreateSession(sessions, cfg.SecureCookies))

			r.Group(func(r chi.Router) {
				r.Use(handlers.RequireSession(sessions))

				r.Route("/session", func(r chi.Router) {
					r.Get("/", handlers.GetSession)
					r.Put("/view", handlers.SetView)
					r.Put("/map", handlers.SetMap)
					r.Put("/filter", handlers.SetFilter)
				})

				r.Route("/spots", func(r chi.Router) {
					r.Get("/", handlers.ListSpots)
					r.Get("/{id}", handlers.GetSpot)
					r.Post("/{id}/select", handlers.SelectSpot)
				})
				r.Delete("/selection", handlers.ClearSelection)
				r.Get("/map", handlers.GetMap)
				r.Post("/search", handlers.Search)

				r.Route("/bookings", func(r chi.Router) {
					r.Get("/", handlers.ListBookings)
					r.Post("/", handlers.CreateBooking)
				})

				r.Route("/draft", func(r chi.Router) {
					r.Get("/", handlers.GetDraft)
					r.Patch("/", handlers.UpdateDraft)
					r.Post("/price", handlers.SuggestPrice)
					r.Post("/description", handlers.GenerateDescription)
				})
				r.Post("/listings", handlers.PublishListing)
			})
		})
	})

	return router
}

// requestTimeout bounds non-streaming requests
func requestTimeout(cfg config.ServerConfig) time.Duration {
	if cfg.WriteTimeout > 0 {
		return cfg.WriteTimeout
	}
	return 60 * time.Second
}

// Handler returns the root handler, for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
