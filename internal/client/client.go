// Package client holds the customers that jobs are billed to.
package client

import (
	"strconv"

	"github.com/MrJamesThe3rd/jobbook/internal/csvcodec"
)

// Path is the default blob path of the clients collection.
const Path = "clients.csv"

// Client is a customer. Only ID and Name are required; the remaining fields
// are printed on invoices.
type Client struct {
	ID             int
	Name           string
	Company        string
	Address        string
	Zip            string
	City           string
	Country        string
	TaxID          string
	OrderNumber    string
	PaymentTerms   string
	DeliveryNumber string
	ClientNumber   string
}

func (c *Client) GetID() int   { return c.ID }
func (c *Client) SetID(id int) { c.ID = id }

// Defaults seeds an empty collection. ID 0 marks the record as a template
// that was never added.
var Defaults = []Client{{ID: 0, Name: "Client"}}

var columns = []string{
	"id", "name", "company", "address", "zip", "city", "country",
	"tax_id", "order_number", "payment_terms", "delivery_number", "client_number",
}

// Codec maps a Client to the clients.csv column order.
type Codec struct{}

func (Codec) EncodeRow(c Client) []string {
	return []string{
		strconv.Itoa(c.ID),
		c.Name,
		c.Company,
		c.Address,
		c.Zip,
		c.City,
		c.Country,
		c.TaxID,
		c.OrderNumber,
		c.PaymentTerms,
		c.DeliveryNumber,
		c.ClientNumber,
	}
}

// DecodeRow requires id and name; rows written before the invoicing fields
// existed decode with those fields empty.
func (Codec) DecodeRow(row []string) (Client, error) {
	f := csvcodec.NewFields(row, columns...)

	id, err := f.Int(0)
	if err != nil {
		return Client{}, err
	}

	name, err := f.String(1)
	if err != nil {
		return Client{}, err
	}

	return Client{
		ID:             id,
		Name:           name,
		Company:        f.Optional(2),
		Address:        f.Optional(3),
		Zip:            f.Optional(4),
		City:           f.Optional(5),
		Country:        f.Optional(6),
		TaxID:          f.Optional(7),
		OrderNumber:    f.Optional(8),
		PaymentTerms:   f.Optional(9),
		DeliveryNumber: f.Optional(10),
		ClientNumber:   f.Optional(11),
	}, nil
}

// Validate reports values that cannot be stored in the CSV layout.
func Validate(c Client) error {
	return csvcodec.Validate(Codec{}.EncodeRow(c))
}
