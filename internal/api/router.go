package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/khushalshaarma/vedacode-signaling/internal/api/middleware"
	"github.com/khushalshaarma/vedacode-signaling/internal/config"
	"github.com/khushalshaarma/vedacode-signaling/internal/handlers"
	"github.com/khushalshaarma/vedacode-signaling/internal/hub"
	"github.com/khushalshaarma/vedacode-signaling/internal/ws"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(cfg *config.Config, logger zerolog.Logger, h *hub.Hub, transport *ws.Transport, handler *handlers.Handler) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(8 * 1024)) // 8KB max body

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// CORS for the REST chat fallback; websocket origins are checked
	// by the upgrader itself.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", handler.Root)
	r.Get("/health", handler.Health)
	r.Post("/api/chat", handler.Chat)

	// Signaling endpoint
	r.Get("/ws", ws.ServeWs(h, transport, logger, cfg.AllowedOrigins))

	return r
}
