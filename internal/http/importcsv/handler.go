package importcsv

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/jobbook/internal/importer"
	"github.com/MrJamesThe3rd/jobbook/internal/job"
)

const maxUpload = 10 << 20

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type jobResponse struct {
	ID          int             `json:"id"`
	ClientID    int             `json:"client_id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Net         decimal.Decimal `json:"net"`
	Gross       decimal.Decimal `json:"gross"`
	Status      job.Status      `json:"status"`
}

type clientResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type importResponse struct {
	Imported       int                `json:"imported"`
	DryRun         bool               `json:"dry_run"`
	Jobs           []jobResponse      `json:"jobs"`
	CreatedClients []clientResponse   `json:"created_clients"`
	Skipped        []importer.Skipped `json:"skipped"`
}

// importCSV accepts a multipart form with a "file" field. Optional form
// fields: create_clients and dry_run (booleans).
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	var opts importer.Options

	for name, dst := range map[string]*bool{"create_clients": &opts.CreateClients, "dry_run": &opts.DryRun} {
		v := r.FormValue(name)
		if v == "" {
			continue
		}

		b, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "invalid "+name, http.StatusBadRequest)
			return
		}

		*dst = b
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return
	}

	res, err := h.importSvc.Import(data, opts)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, importer.ErrUnknownLayout) {
			status = http.StatusUnprocessableEntity
		}

		http.Error(w, err.Error(), status)

		return
	}

	slog.Info("imported jobs", "jobs", len(res.Jobs), "skipped", len(res.Skipped), "dry_run", opts.DryRun)

	code := http.StatusCreated
	if opts.DryRun {
		code = http.StatusOK
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(toResponse(res, opts.DryRun)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toResponse(res importer.Result, dryRun bool) importResponse {
	resp := importResponse{
		Imported:       len(res.Jobs),
		DryRun:         dryRun,
		Jobs:           make([]jobResponse, 0, len(res.Jobs)),
		CreatedClients: make([]clientResponse, 0, len(res.CreatedClients)),
		Skipped:        res.Skipped,
	}

	if resp.Skipped == nil {
		resp.Skipped = []importer.Skipped{}
	}

	for _, j := range res.Jobs {
		resp.Jobs = append(resp.Jobs, jobResponse{
			ID:          j.ID,
			ClientID:    j.ClientID,
			Date:        j.Date,
			Description: j.Description,
			Net:         j.Net,
			Gross:       j.Gross,
			Status:      j.Status,
		})
	}

	for _, c := range res.CreatedClients {
		resp.CreatedClients = append(resp.CreatedClients, clientResponse{ID: c.ID, Name: c.Name})
	}

	return resp
}
