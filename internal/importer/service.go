package importer

import (
	"fmt"

	"github.com/MrJamesThe3rd/jobbook/internal/client"
	"github.com/MrJamesThe3rd/jobbook/internal/job"
)

type Options struct {
	// CreateClients adds a client for every unknown client name instead of
	// skipping its rows.
	CreateClients bool
	// DryRun parses and resolves without touching the collections.
	DryRun bool
}

// Skipped is a parsed row that was not imported.
type Skipped struct {
	Line       int    `json:"line"`
	ClientName string `json:"client"`
	Reason     string `json:"reason"`
}

type Result struct {
	Jobs           []job.Job
	CreatedClients []client.Client
	Skipped        []Skipped
}

// Suggester maps a raw description to a preferred one, "" meaning keep it.
type Suggester interface {
	Suggest(raw string) string
}

type Service struct {
	parser    *Parser
	clients   *client.Handler
	jobs      *job.Handler
	suggester Suggester
}

// NewService builds the import service. suggester may be nil.
func NewService(parser *Parser, clients *client.Handler, jobs *job.Handler, suggester Suggester) *Service {
	return &Service{parser: parser, clients: clients, jobs: jobs, suggester: suggester}
}

// Import parses data and adds one job per row. Rows are matched to clients by
// exact name; the whole file is rejected when it cannot be parsed.
func (s *Service) Import(data []byte, opts Options) (Result, error) {
	rows, err := s.parser.Parse(data)
	if err != nil {
		return Result{}, fmt.Errorf("parsing import: %w", err)
	}

	var (
		res     Result
		created = map[string]int{}
	)

	for _, row := range rows {
		clientID, ok := s.resolveClient(row.ClientName, opts, created, &res)
		if !ok {
			res.Skipped = append(res.Skipped, Skipped{Line: row.Line, ClientName: row.ClientName, Reason: "unknown client"})
			continue
		}

		j := row.Job
		j.ClientID = clientID

		if s.suggester != nil {
			if preferred := s.suggester.Suggest(j.Description); preferred != "" {
				j.Description = preferred
			}
		}

		if err := job.Validate(j); err != nil {
			res.Skipped = append(res.Skipped, Skipped{Line: row.Line, ClientName: row.ClientName, Reason: err.Error()})
			continue
		}

		if !opts.DryRun {
			s.jobs.Add(&j)
		}

		res.Jobs = append(res.Jobs, j)
	}

	return res, nil
}

func (s *Service) resolveClient(name string, opts Options, created map[string]int, res *Result) (int, bool) {
	if c, ok := s.clients.GetByName(name); ok {
		return c.ID, true
	}

	if id, ok := created[name]; ok {
		return id, true
	}

	if !opts.CreateClients {
		return 0, false
	}

	c := client.Client{Name: name}
	if err := client.Validate(c); err != nil {
		return 0, false
	}

	if !opts.DryRun {
		s.clients.Add(&c)
	}

	created[name] = c.ID
	res.CreatedClients = append(res.CreatedClients, c)

	return c.ID, true
}
