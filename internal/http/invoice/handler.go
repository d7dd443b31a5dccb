package invoice

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/jobbook/internal/invoice"
)

type Handler struct {
	svc *invoice.Service
}

func NewHandler(svc *invoice.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts under the clients route: /{id}/invoice.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/{id}/invoice", h.build)
	r.Post("/{id}/invoice/issue", h.issue)
}

type addressResponse struct {
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	Street  string `json:"street,omitempty"`
	Zip     string `json:"zip,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

type lineItemResponse struct {
	JobID       int             `json:"job_id"`
	CompletedOn string          `json:"completed_on,omitempty"`
	Description string          `json:"description"`
	Count       decimal.Decimal `json:"count"`
	Price       decimal.Decimal `json:"price"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	Net         decimal.Decimal `json:"net"`
	Gross       decimal.Decimal `json:"gross"`
}

type invoiceResponse struct {
	ClientID       int                `json:"client_id"`
	Billing        addressResponse    `json:"billing"`
	Shipping       addressResponse    `json:"shipping"`
	CustomerTaxID  string             `json:"customer_tax_id,omitempty"`
	OrderNumber    string             `json:"order_number,omitempty"`
	PaymentTerms   string             `json:"payment_terms,omitempty"`
	DeliveryNumber string             `json:"delivery_number,omitempty"`
	ClientNumber   string             `json:"client_number,omitempty"`
	Items          []lineItemResponse `json:"items"`
	Net            decimal.Decimal    `json:"net"`
	VAT            decimal.Decimal    `json:"vat"`
	Gross          decimal.Decimal    `json:"gross"`
}

func toResponse(inv invoice.Invoice) invoiceResponse {
	items := make([]lineItemResponse, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = lineItemResponse(it)
	}

	return invoiceResponse{
		ClientID:       inv.ClientID,
		Billing:        addressResponse(inv.Billing),
		Shipping:       addressResponse(inv.Shipping),
		CustomerTaxID:  inv.CustomerTaxID,
		OrderNumber:    inv.OrderNumber,
		PaymentTerms:   inv.PaymentTerms,
		DeliveryNumber: inv.DeliveryNumber,
		ClientNumber:   inv.ClientNumber,
		Items:          items,
		Net:            inv.Net,
		VAT:            inv.VAT,
		Gross:          inv.Gross,
	}
}

func (h *Handler) build(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Build(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(inv))
}

func (h *Handler) issue(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Issue(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(inv))
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, invoice.ErrClientNotFound):
		http.Error(w, "client not found", http.StatusNotFound)
	case errors.Is(err, invoice.ErrNothingToInvoice):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
