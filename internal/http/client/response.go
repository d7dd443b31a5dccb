package client

import "github.com/MrJamesThe3rd/jobbook/internal/client"

type clientPayload struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Company        string `json:"company,omitempty"`
	Address        string `json:"address,omitempty"`
	Zip            string `json:"zip,omitempty"`
	City           string `json:"city,omitempty"`
	Country        string `json:"country,omitempty"`
	TaxID          string `json:"tax_id,omitempty"`
	OrderNumber    string `json:"order_number,omitempty"`
	PaymentTerms   string `json:"payment_terms,omitempty"`
	DeliveryNumber string `json:"delivery_number,omitempty"`
	ClientNumber   string `json:"client_number,omitempty"`
}

func (p clientPayload) toClient() client.Client {
	return client.Client(p)
}

func toResponse(c client.Client) clientPayload {
	return clientPayload(c)
}

func toResponseList(cs []client.Client) []clientPayload {
	resp := make([]clientPayload, len(cs))
	for i, c := range cs {
		resp[i] = toResponse(c)
	}

	return resp
}
