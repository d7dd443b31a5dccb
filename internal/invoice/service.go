package invoice

import (
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/jobbook/internal/client"
	"github.com/MrJamesThe3rd/jobbook/internal/job"
)

var (
	ErrClientNotFound   = errors.New("client not found")
	ErrNothingToInvoice = errors.New("no jobs pending invoice")
)

type Service struct {
	clients *client.Handler
	jobs    *job.Handler
	now     func() time.Time
}

func NewService(clients *client.Handler, jobs *job.Handler) *Service {
	return &Service{clients: clients, jobs: jobs, now: time.Now}
}

// Build returns the current invoice projection for a client.
func (s *Service) Build(clientID int) (Invoice, error) {
	c, ok := s.clients.Get(clientID)
	if !ok {
		return Invoice{}, fmt.Errorf("building invoice for client %d: %w", clientID, ErrClientNotFound)
	}

	return New(c, s.jobs.ByClient(clientID)), nil
}

// Issue builds the invoice and moves its jobs to AwaitingPayment, stamping
// a completion date on jobs that have none.
func (s *Service) Issue(clientID int) (Invoice, error) {
	inv, err := s.Build(clientID)
	if err != nil {
		return Invoice{}, err
	}

	if len(inv.Items) == 0 {
		return Invoice{}, fmt.Errorf("issuing invoice for client %d: %w", clientID, ErrNothingToInvoice)
	}

	today := s.now().Format(time.DateOnly)

	for i, item := range inv.Items {
		j, ok := s.jobs.Modify(item.JobID, func(j *job.Job) {
			j.Status = job.StatusAwaitingPayment
			if j.CompletedOn == "" {
				j.CompletedOn = today
			}
		})
		if ok {
			inv.Items[i].CompletedOn = j.CompletedOn
		}
	}

	return inv, nil
}
