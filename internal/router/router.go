package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mailpipe/internal/handler"
	customMiddleware "mailpipe/internal/middleware"
)

func NewRouter(h *handler.EmailHandler, healthHandler *handler.HealthHandler) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(customMiddleware.MetricsMiddleware)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/email", func(r chi.Router) {
		r.Post("/enqueue", h.Enqueue)
		r.Get("/status/{id}", h.Status)
		r.Get("/recent", h.Recent)
	})

	// Health & Readiness Routes
	r.Get("/health", healthHandler.Liveness)
	r.Get("/readyz", healthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
