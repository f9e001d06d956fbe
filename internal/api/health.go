package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/store"
)

// HealthResponse is the body of the health endpoints.
type HealthResponse struct {
	Status    string     `json:"status"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Health serves the unauthenticated liveness and readiness checks.
type Health struct {
	repo   *store.Repo
	stamp  store.Stamped
	logger *slog.Logger
}

// NewHealth reports readiness from repo. When backend knows its last save
// time, readiness includes it.
func NewHealth(repo *store.Repo, backend store.Store, logger *slog.Logger) *Health {
	h := &Health{repo: repo, logger: logger}
	if s, ok := backend.(store.Stamped); ok {
		h.stamp = s
	}
	return h
}

// Live handles GET /health/live.
func (h *Health) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready handles GET /health/ready.
func (h *Health) Ready(w http.ResponseWriter, r *http.Request) {
	if _, err := h.repo.Get(r.Context()); err != nil {
		h.logger.Warn("readiness check failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		return
	}
	resp := HealthResponse{Status: "ok"}
	if h.stamp != nil {
		if ts, err := h.stamp.UpdatedAt(r.Context()); err == nil {
			resp.UpdatedAt = &ts
		} else {
			h.logger.Debug("last save time unavailable", slog.String("error", err.Error()))
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// MountHealth registers the health routes on r.
func MountHealth(r chi.Router, h *Health) {
	r.Get("/health/live", h.Live)
	r.Get("/health/ready", h.Ready)
}
