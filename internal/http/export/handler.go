package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/jobbook/internal/export"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
	r.Get("/summary", h.summary)
}

type itemResponse struct {
	ClientID int    `json:"client_id"`
	Name     string `json:"name"`
	File     string `json:"file"`
	Items    int    `json:"items"`
	Net      string `json:"net"`
	Gross    string `json:"gross"`
}

type summaryResponse struct {
	Invoices  []itemResponse `json:"invoices"`
	EmailBody string         `json:"email_body"`
}

func (h *Handler) summary(w http.ResponseWriter, _ *http.Request) {
	items, err := h.svc.Pending()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := summaryResponse{
		Invoices:  make([]itemResponse, 0, len(items)),
		EmailBody: export.SummaryText(items),
	}

	for _, item := range items {
		resp.Invoices = append(resp.Invoices, itemResponse{
			ClientID: item.ClientID,
			Name:     item.Name,
			File:     item.File,
			Items:    len(item.Invoice.Items),
			Net:      item.Invoice.Net.StringFixed(2),
			Gross:    item.Invoice.Gross.StringFixed(2),
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) download(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"export_%s.zip\"", time.Now().Format("20060102")))

	summary, err := h.svc.Write(w)
	if err != nil {
		// Headers are already out; the client sees a truncated archive.
		slog.Error("failed to write export", "error", err)
		return
	}

	slog.Info("export written", "clients", summary.Clients, "jobs", summary.Jobs, "invoices", len(summary.Items))
}
