package job

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/jobbook/internal/job"
)

type jobResponse struct {
	ID          int             `json:"id"`
	ClientID    int             `json:"client_id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Count       decimal.Decimal `json:"count"`
	Price       decimal.Decimal `json:"price"`
	Net         decimal.Decimal `json:"net"`
	VAT         decimal.Decimal `json:"vat"`
	Gross       decimal.Decimal `json:"gross"`
	Status      job.Status      `json:"status"`
	CompletedOn string          `json:"completed_on,omitempty"`
}

func toResponse(j job.Job) jobResponse {
	return jobResponse(j)
}

func toResponseList(js []job.Job) []jobResponse {
	resp := make([]jobResponse, len(js))
	for i, j := range js {
		resp[i] = toResponse(j)
	}

	return resp
}

// jobRequest leaves Net and Gross optional; when either is missing both are
// derived from Count, Price and VAT.
type jobRequest struct {
	ClientID    int              `json:"client_id"`
	Date        string           `json:"date"`
	Description string           `json:"description"`
	Count       decimal.Decimal  `json:"count"`
	Price       decimal.Decimal  `json:"price"`
	VAT         decimal.Decimal  `json:"vat"`
	Net         *decimal.Decimal `json:"net,omitempty"`
	Gross       *decimal.Decimal `json:"gross,omitempty"`
	Status      string           `json:"status,omitempty"`
	CompletedOn string           `json:"completed_on,omitempty"`
}

func (req jobRequest) toJob() (job.Job, error) {
	status := job.StatusInProgress
	if req.Status != "" {
		s, err := job.ParseStatus(req.Status)
		if err != nil {
			return job.Job{}, err
		}

		status = s
	}

	j := job.Job{
		ClientID:    req.ClientID,
		Date:        req.Date,
		Description: req.Description,
		Count:       req.Count,
		Price:       req.Price,
		VAT:         req.VAT,
		Status:      status,
		CompletedOn: req.CompletedOn,
	}

	if req.Net == nil || req.Gross == nil {
		j.Recalculate()
	} else {
		j.Net, j.Gross = *req.Net, *req.Gross
	}

	return j, nil
}
