package handler

import (
	"log/slog"
	"net/http"

	"mailpipe/internal/service"
)

type HealthHandler struct {
	healthSvc service.HealthService
	logger    *slog.Logger
}

func NewHealthHandler(healthSvc service.HealthService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{healthSvc: healthSvc, logger: logger}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	if err := h.healthSvc.Liveness(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if err := h.healthSvc.Readiness(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"db": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"db": "ok"})
}
