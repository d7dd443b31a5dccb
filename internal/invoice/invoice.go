// Package invoice derives invoices from a client and its jobs awaiting
// invoicing. Invoices are projections: they are recomputed on demand and
// never stored.
package invoice

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/jobbook/internal/client"
	"github.com/MrJamesThe3rd/jobbook/internal/job"
)

type Address struct {
	Name    string
	Company string
	Street  string
	Zip     string
	City    string
	Country string
}

type LineItem struct {
	JobID       int
	CompletedOn string
	Description string
	Count       decimal.Decimal
	Price       decimal.Decimal
	VATRate     decimal.Decimal
	Net         decimal.Decimal
	Gross       decimal.Decimal
}

type Invoice struct {
	ClientID int
	Billing  Address
	Shipping Address

	CustomerTaxID  string
	OrderNumber    string
	PaymentTerms   string
	DeliveryNumber string
	ClientNumber   string

	Items []LineItem

	Net   decimal.Decimal
	VAT   decimal.Decimal
	Gross decimal.Decimal
}

func addressOf(c client.Client) Address {
	return Address{
		Name:    c.Name,
		Company: c.Company,
		Street:  c.Address,
		Zip:     c.Zip,
		City:    c.City,
		Country: c.Country,
	}
}

// New builds the invoice for c from jobs, keeping only those belonging to c
// with status InvoicePending. The VAT total is Gross - Net.
func New(c client.Client, jobs []job.Job) Invoice {
	inv := Invoice{
		ClientID:       c.ID,
		Billing:        addressOf(c),
		Shipping:       addressOf(c),
		CustomerTaxID:  c.TaxID,
		OrderNumber:    c.OrderNumber,
		PaymentTerms:   c.PaymentTerms,
		DeliveryNumber: c.DeliveryNumber,
		ClientNumber:   c.ClientNumber,
		Net:            decimal.Zero,
		VAT:            decimal.Zero,
		Gross:          decimal.Zero,
	}

	for _, j := range jobs {
		if j.ClientID != c.ID || j.Status != job.StatusInvoicePending {
			continue
		}

		inv.Items = append(inv.Items, LineItem{
			JobID:       j.ID,
			CompletedOn: j.CompletedOn,
			Description: j.Description,
			Count:       j.Count,
			Price:       j.Price,
			VATRate:     j.VAT,
			Net:         j.Net,
			Gross:       j.Gross,
		})

		inv.Net = inv.Net.Add(j.Net)
		inv.Gross = inv.Gross.Add(j.Gross)
	}

	inv.VAT = inv.Gross.Sub(inv.Net)

	return inv
}
