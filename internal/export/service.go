// Package export bundles the collections and the pending invoices into a
// single zip archive for backup or hand-off to an accountant.
package export

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/jobbook/internal/client"
	"github.com/MrJamesThe3rd/jobbook/internal/csvcodec"
	"github.com/MrJamesThe3rd/jobbook/internal/invoice"
	"github.com/MrJamesThe3rd/jobbook/internal/job"
)

const (
	SummaryFile = "summary.txt"
	InvoiceDir  = "invoices/"
)

// Item is one pending invoice written to the archive.
type Item struct {
	ClientID int
	Name     string
	File     string
	Invoice  invoice.Invoice
}

// Summary describes what an archive contains.
type Summary struct {
	Clients int
	Jobs    int
	Items   []Item
}

type Service struct {
	clients  *client.Handler
	jobs     *job.Handler
	invoices *invoice.Service
	now      func() time.Time
}

func NewService(clients *client.Handler, jobs *job.Handler, invoices *invoice.Service) *Service {
	return &Service{
		clients:  clients,
		jobs:     jobs,
		invoices: invoices,
		now:      time.Now,
	}
}

// Pending builds the invoice of every client that has jobs pending invoice,
// in order of first appearance in the jobs collection. Jobs pointing at a
// missing client are left out.
func (s *Service) Pending() ([]Item, error) {
	seen := make(map[int]bool)

	var items []Item

	for _, j := range s.jobs.ByStatus(job.StatusInvoicePending) {
		if seen[j.ClientID] {
			continue
		}

		seen[j.ClientID] = true

		inv, err := s.invoices.Build(j.ClientID)
		if errors.Is(err, invoice.ErrClientNotFound) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("building invoice for client %d: %w", j.ClientID, err)
		}

		items = append(items, Item{
			ClientID: j.ClientID,
			Name:     inv.Billing.Name,
			File:     fmt.Sprintf("%s%d_%s.txt", InvoiceDir, j.ClientID, sanitize(inv.Billing.Name)),
			Invoice:  inv,
		})
	}

	return items, nil
}

// Write streams the archive to w.
func (s *Service) Write(w io.Writer) (Summary, error) {
	clients := s.clients.All()
	jobs := s.jobs.All()

	items, err := s.Pending()
	if err != nil {
		return Summary{}, err
	}

	zw := zip.NewWriter(w)
	modified := s.now()

	add := func(name string, data []byte) error {
		f, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified})
		if err != nil {
			return fmt.Errorf("creating %s: %w", name, err)
		}

		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}

		return nil
	}

	if err := add(client.Path, csvcodec.Encode(client.Codec{}, clients)); err != nil {
		return Summary{}, err
	}

	if err := add(job.Path, csvcodec.Encode(job.Codec{}, jobs)); err != nil {
		return Summary{}, err
	}

	for _, item := range items {
		if err := add(item.File, []byte(invoice.Text(item.Invoice))); err != nil {
			return Summary{}, err
		}
	}

	if err := add(SummaryFile, []byte(SummaryText(items))); err != nil {
		return Summary{}, err
	}

	if err := zw.Close(); err != nil {
		return Summary{}, fmt.Errorf("closing archive: %w", err)
	}

	return Summary{Clients: len(clients), Jobs: len(jobs), Items: items}, nil
}

// SummaryText lists the pending invoices, one line each, ready to paste
// into an email.
func SummaryText(items []Item) string {
	if len(items) == 0 {
		return "No invoices pending.\n"
	}

	var sb strings.Builder

	for _, item := range items {
		fmt.Fprintf(&sb, "* %s | %d items | %s | %s\n",
			item.Name, len(item.Invoice.Items), item.Invoice.Gross.StringFixed(2), item.File)
	}

	return sb.String()
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, name)
}
