package view

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/jobbook/internal/client"
	"github.com/MrJamesThe3rd/jobbook/internal/invoice"
	"github.com/MrJamesThe3rd/jobbook/internal/job"
)

// InvoiceModel lists clients with jobs pending invoice and previews the
// invoice of the selected one.
type InvoiceModel struct {
	invoices *invoice.Service
	clients  *client.Handler
	jobs     *job.Handler

	table   table.Model
	pending []client.Client
	preview *invoice.Invoice
	status  string
}

func NewInvoiceModel(invoices *invoice.Service, clients *client.Handler, jobs *job.Handler) InvoiceModel {
	m := InvoiceModel{
		invoices: invoices,
		clients:  clients,
		jobs:     jobs,
		table: newTable([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Client", Width: 24},
			{Title: "Jobs", Width: 6},
			{Title: "Gross", Width: 12},
		}),
	}
	m.refresh()

	return m
}

func (m InvoiceModel) Title() string { return "Invoices" }
func (m InvoiceModel) ShortHelp() string {
	if m.preview != nil {
		return "Esc: close | i: issue"
	}

	return "Esc: back | Enter: preview"
}

func (m InvoiceModel) Init() tea.Cmd {
	return nil
}

func (m InvoiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ChangedMsg:
		m.refresh()

		if m.preview != nil {
			m.rebuildPreview(m.preview.ClientID)
		}

		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if m.preview != nil {
				m.preview = nil
				return m, nil
			}

			return m, Back
		case "enter":
			if m.preview == nil {
				if c, ok := m.selected(); ok {
					m.rebuildPreview(c.ID)
				}
			}

			return m, nil
		case "i":
			if m.preview != nil {
				m.issue(m.preview.ClientID)
			}

			return m, nil
		}
	}

	if m.preview != nil {
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *InvoiceModel) rebuildPreview(clientID int) {
	inv, err := m.invoices.Build(clientID)
	if err != nil {
		m.preview = nil
		m.status = err.Error()

		return
	}

	m.preview = &inv
}

func (m *InvoiceModel) issue(clientID int) {
	inv, err := m.invoices.Issue(clientID)

	switch {
	case errors.Is(err, invoice.ErrNothingToInvoice):
		m.status = "Nothing left to invoice"
	case err != nil:
		m.status = fmt.Sprintf("Error: %v", err)
	default:
		m.status = fmt.Sprintf("Issued invoice for %s: %s gross", inv.Billing.Name, FormatMoney(inv.Gross))
	}

	m.preview = nil
	m.refresh()
}

func (m InvoiceModel) selected() (client.Client, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.pending) {
		return client.Client{}, false
	}

	return m.pending[idx], true
}

func (m *InvoiceModel) refresh() {
	pendingJobs := m.jobs.ByStatus(job.StatusInvoicePending)

	m.pending = nil
	rows := make([]table.Row, 0)

	for _, c := range m.clients.All() {
		inv := invoice.New(c, pendingJobs)
		if len(inv.Items) == 0 {
			continue
		}

		m.pending = append(m.pending, c)
		rows = append(rows, table.Row{
			strconv.Itoa(c.ID),
			c.Name,
			strconv.Itoa(len(inv.Items)),
			FormatMoney(inv.Gross),
		})
	}

	m.table.SetRows(rows)
}

func (m InvoiceModel) View() string {
	var content string

	if m.preview != nil {
		content = lipgloss.JoinVertical(lipgloss.Left,
			headerStyle.Render(fmt.Sprintf("Invoice preview (%d items)", len(m.preview.Items))),
			invoice.Text(*m.preview),
		)
	} else {
		content = lipgloss.JoinVertical(lipgloss.Left,
			headerStyle.Render("Clients with jobs pending invoice"),
			tableBorder.Render(m.table.View()),
		)
	}

	if m.status != "" {
		content = faint.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
