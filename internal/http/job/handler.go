package job

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/jobbook/internal/job"
)

type Handler struct {
	jobs *job.Handler
}

func NewHandler(jobs *job.Handler) *Handler {
	return &Handler{jobs: jobs}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.put)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var (
		status   *job.Status
		clientID *int
	)

	if s := r.URL.Query().Get("status"); s != "" {
		st, err := job.ParseStatus(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		status = new(st)
	}

	if s := r.URL.Query().Get("client_id"); s != "" {
		id, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "invalid client_id", http.StatusBadRequest)
			return
		}

		clientID = new(id)
	}

	jobs := h.jobs.Filter(func(j job.Job) bool {
		if status != nil && j.Status != *status {
			return false
		}

		return clientID == nil || j.ClientID == *clientID
	})

	writeJSON(w, http.StatusOK, toResponseList(jobs))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	j, ok := decodeJob(w, r)
	if !ok {
		return
	}

	h.jobs.Add(&j)

	writeJSON(w, http.StatusCreated, toResponse(j))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	j, found := h.jobs.Get(id)
	if !found {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(j))
}

// put replaces the job with the path id, or adds it under a fresh id.
func (h *Handler) put(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	j, ok := decodeJob(w, r)
	if !ok {
		return
	}

	j.ID = id
	if h.jobs.Set(j) {
		writeJSON(w, http.StatusOK, toResponse(j))
		return
	}

	h.jobs.Add(&j)

	writeJSON(w, http.StatusCreated, toResponse(j))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if !h.jobs.Remove(id) {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeJob(w http.ResponseWriter, r *http.Request) (job.Job, bool) {
	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return job.Job{}, false
	}

	if req.Date == "" || req.Description == "" {
		http.Error(w, "date and description are required", http.StatusBadRequest)
		return job.Job{}, false
	}

	j, err := req.toJob()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return job.Job{}, false
	}

	if err := job.Validate(j); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return job.Job{}, false
	}

	return j, true
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
