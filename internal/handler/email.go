package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"mailpipe/internal/apperrors"
	"mailpipe/internal/model"
	"mailpipe/internal/service"
)

const (
	defaultTake = 20
	maxTake     = 200
)

type EmailHandler struct {
	svc    service.DispatchService
	logger *slog.Logger
}

func NewEmailHandler(svc service.DispatchService, logger *slog.Logger) *EmailHandler {
	return &EmailHandler{svc: svc, logger: logger}
}

func (h *EmailHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	var msg model.EmailMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		h.logger.Warn("Invalid request body for Enqueue", slog.Any("error", err))
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	accepted, err := h.svc.Enqueue(r.Context(), &msg)
	if err != nil {
		switch {
		case apperrors.IsValidation(err):
			h.logger.Warn("Enqueue rejected", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusBadRequest)
		case apperrors.IsPublish(err):
			h.logger.Error("Enqueue publish failed", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusBadGateway)
		default:
			h.logger.Error("Enqueue failed", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, accepted)
}

func (h *EmailHandler) Status(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.svc.Status(r.Context(), id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.logger.Warn("Email not found", "id", id)
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			h.logger.Error("Status lookup failed", "id", id, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (h *EmailHandler) Recent(w http.ResponseWriter, r *http.Request) {
	take := parseInt(r.URL.Query().Get("take"), defaultTake)
	if take < 1 {
		take = 1
	}
	if take > maxTake {
		take = maxTake
	}

	recs, err := h.svc.Recent(r.Context(), take)
	if err != nil {
		h.logger.Error("Recent listing failed", slog.Any("error", err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []model.StatusRecord{}
	}

	writeJSON(w, http.StatusOK, recs)
}

func parseInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
