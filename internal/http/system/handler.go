// Package system exposes the sync state of the collections.
package system

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/jobbook/internal/app"
)

type Syncer interface {
	Sync(ctx context.Context) error
	Status() app.Status
}

type Handler struct {
	syncer Syncer
}

func NewHandler(syncer Syncer) *Handler {
	return &Handler{syncer: syncer}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/status", h.status)
	r.Post("/sync", h.sync)
}

func (h *Handler) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.syncer.Status())
}

// sync writes every collection now instead of waiting for the debounce.
func (h *Handler) sync(w http.ResponseWriter, r *http.Request) {
	if err := h.syncer.Sync(r.Context()); err != nil {
		slog.Error("sync failed", "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)

		return
	}

	writeJSON(w, http.StatusOK, h.syncer.Status())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
