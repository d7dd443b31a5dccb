package client

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/jobbook/internal/client"
)

type Handler struct {
	clients *client.Handler
}

func NewHandler(clients *client.Handler) *Handler {
	return &Handler{clients: clients}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.put)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	clients := h.clients.All()

	if name := r.URL.Query().Get("name"); name != "" {
		clients = clients[:0:0]
		if c, ok := h.clients.GetByName(name); ok {
			clients = append(clients, c)
		}
	}

	writeJSON(w, http.StatusOK, toResponseList(clients))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeClient(w, r)
	if !ok {
		return
	}

	h.clients.Add(&c)

	writeJSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	c, found := h.clients.Get(id)
	if !found {
		http.Error(w, "client not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(c))
}

// put replaces the client with the path id, or adds the body as a new
// client when no such id exists. Added clients get a fresh id.
func (h *Handler) put(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	c, ok := decodeClient(w, r)
	if !ok {
		return
	}

	c.ID = id
	if h.clients.Set(c) {
		writeJSON(w, http.StatusOK, toResponse(c))
		return
	}

	h.clients.Add(&c)

	writeJSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if !h.clients.Remove(id) {
		http.Error(w, "client not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeClient(w http.ResponseWriter, r *http.Request) (client.Client, bool) {
	var req clientPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return client.Client{}, false
	}

	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return client.Client{}, false
	}

	c := req.toClient()
	if err := client.Validate(c); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return client.Client{}, false
	}

	return c, true
}

func parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}

	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
