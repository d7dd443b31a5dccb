package matching

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/jobbook/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
	r.Delete("/{id}", h.forget)
}

type mappingResponse struct {
	ID        int    `json:"id"`
	Pattern   string `json:"pattern"`
	Preferred string `json:"preferred"`
}

func (h *Handler) list(w http.ResponseWriter, _ *http.Request) {
	all := h.svc.All()

	resp := make([]mappingResponse, 0, len(all))
	for _, m := range all {
		resp = append(resp, mappingResponse(m))
	}

	writeJSON(w, http.StatusOK, resp)
}

type suggestResponse struct {
	Raw       string `json:"raw"`
	Preferred string `json:"preferred"`
	Matched   bool   `json:"matched"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("raw")
	if raw == "" {
		http.Error(w, "raw query parameter is required", http.StatusBadRequest)
		return
	}

	preferred := h.svc.Suggest(raw)

	writeJSON(w, http.StatusOK, suggestResponse{
		Raw:       raw,
		Preferred: preferred,
		Matched:   preferred != "",
	})
}

type learnRequest struct {
	Pattern   string `json:"pattern"`
	Preferred string `json:"preferred"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m, err := h.svc.Learn(req.Pattern, req.Preferred)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, mappingResponse(m))
}

func (h *Handler) forget(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if !h.svc.Remove(id) {
		http.Error(w, "mapping not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
