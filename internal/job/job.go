// Package job holds the billable work done for clients.
package job

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/jobbook/internal/csvcodec"
)

// Path is the default blob path of the jobs collection.
const Path = "jobs.csv"

// Status is the billing lifecycle state of a job. The value is the display
// string, which is also what gets written to jobs.csv.
type Status string

const (
	StatusInProgress      Status = "In Progress"
	StatusInvoicePending  Status = "Invoice Pending"
	StatusAwaitingPayment Status = "Awaiting Payment"
	StatusClosed          Status = "Closed"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusInProgress, StatusInvoicePending, StatusAwaitingPayment, StatusClosed}

// ParseStatus matches s exactly against the display strings.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}

	return "", fmt.Errorf("%w: %q", csvcodec.ErrInvalidEnumValue, s)
}

// Job is one unit of billable work. ClientID refers to client.Client.ID but
// is not checked; a dangling reference surfaces when the client is looked up.
type Job struct {
	ID          int
	ClientID    int
	Date        string
	Description string
	Count       decimal.Decimal
	Price       decimal.Decimal
	Net         decimal.Decimal
	VAT         decimal.Decimal // rate, 0.19 for 19%
	Gross       decimal.Decimal
	Status      Status
	CompletedOn string
}

func (j *Job) GetID() int   { return j.ID }
func (j *Job) SetID(id int) { j.ID = id }

// Recalculate derives Net and Gross from Count, Price and VAT, rounded to cents.
func (j *Job) Recalculate() {
	j.Net = j.Count.Mul(j.Price).Round(2)
	j.Gross = j.Net.Add(j.Net.Mul(j.VAT)).Round(2)
}

// Defaults seeds an empty collection.
var Defaults = []Job{
	{
		ID:          0,
		ClientID:    0,
		Date:        "1970-01-01",
		Description: "Description",
		Count:       decimal.NewFromInt(1),
		Price:       decimal.Zero,
		Net:         decimal.Zero,
		VAT:         decimal.Zero,
		Gross:       decimal.Zero,
		Status:      StatusInProgress,
	},
}

var columns = []string{
	"id", "client_id", "date", "description", "count", "price",
	"net", "vat", "gross", "status", "completed_on",
}

// Codec maps a Job to the jobs.csv column order. The trailing completed_on
// column is optional on read so older files still load.
type Codec struct{}

func (Codec) EncodeRow(j Job) []string {
	return []string{
		strconv.Itoa(j.ID),
		strconv.Itoa(j.ClientID),
		j.Date,
		j.Description,
		j.Count.String(),
		j.Price.String(),
		j.Net.String(),
		j.VAT.String(),
		j.Gross.String(),
		string(j.Status),
		j.CompletedOn,
	}
}

func (Codec) DecodeRow(row []string) (Job, error) {
	f := csvcodec.NewFields(row, columns...)

	var (
		j   Job
		err error
	)

	if j.ID, err = f.Int(0); err != nil {
		return Job{}, err
	}

	if j.ClientID, err = f.Int(1); err != nil {
		return Job{}, err
	}

	if j.Date, err = f.String(2); err != nil {
		return Job{}, err
	}

	if j.Description, err = f.String(3); err != nil {
		return Job{}, err
	}

	amounts := []*decimal.Decimal{&j.Count, &j.Price, &j.Net, &j.VAT, &j.Gross}
	for i, dst := range amounts {
		if *dst, err = f.Decimal(4 + i); err != nil {
			return Job{}, err
		}
	}

	if j.Status, err = csvcodec.Enum(f, 9, Statuses...); err != nil {
		return Job{}, err
	}

	j.CompletedOn = f.Optional(10)

	return j, nil
}

// Validate reports values that cannot be stored in the CSV layout.
func Validate(j Job) error {
	return csvcodec.Validate(Codec{}.EncodeRow(j))
}
