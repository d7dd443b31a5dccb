package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/jobbook/internal/client"
)

// clientDraft holds the form bindings. It lives behind a pointer so the
// bound fields survive the model being copied on every Update.
type clientDraft struct {
	isNew  bool
	fields client.Client
}

type ClientsModel struct {
	clients *client.Handler

	state  listState
	table  table.Model
	rows   []client.Client
	search textinput.Model
	form   *huh.Form
	draft  *clientDraft
	status string
}

func NewClientsModel(clients *client.Handler) ClientsModel {
	ti := textinput.New()
	ti.Placeholder = "exact name"
	ti.Prompt = "Find: "
	ti.Width = 30

	m := ClientsModel{
		clients: clients,
		table: newTable([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Name", Width: 24},
			{Title: "Company", Width: 24},
			{Title: "City", Width: 16},
			{Title: "Tax ID", Width: 14},
		}),
		search: ti,
	}
	m.refresh()

	return m
}

func (m ClientsModel) Title() string { return "Clients" }
func (m ClientsModel) ShortHelp() string {
	switch m.state {
	case listStateEdit:
		return "Navigate form | Esc: cancel"
	case listStateSearch:
		return "Enter: find | Esc: clear"
	}

	return "Esc: back | a: add | e: edit | x: delete | /: find by name"
}

func (m ClientsModel) Init() tea.Cmd {
	return nil
}

func (m ClientsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ChangedMsg:
		m.refresh()
		return m, nil
	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case listStateEdit:
		return m.updateEdit(msg)
	case listStateSearch:
		return m.updateSearch(msg)
	}

	return m.updateBrowse(msg)
}

func (m ClientsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "a":
			return m.enterEditMode(client.Client{}, true)
		case "e":
			if c, ok := m.selected(); ok {
				return m.enterEditMode(c, false)
			}
		case "x":
			if c, ok := m.selected(); ok && m.clients.Remove(c.ID) {
				m.status = fmt.Sprintf("Deleted %s", c.Name)
			}

			return m, nil
		case "/":
			m.state = listStateSearch
			m.table.Blur()

			return m, m.search.Focus()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ClientsModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.search.SetValue("")
			m.leaveSearch()
			m.refresh()

			return m, nil
		case tea.KeyEnter:
			m.leaveSearch()
			m.refresh()

			if len(m.rows) == 0 {
				m.status = fmt.Sprintf("No client named %q", m.search.Value())
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	return m, cmd
}

func (m *ClientsModel) leaveSearch() {
	m.state = listStateBrowse
	m.search.Blur()
	m.table.Focus()
	m.status = ""
}

func (m ClientsModel) enterEditMode(c client.Client, isNew bool) (tea.Model, tea.Cmd) {
	m.draft = &clientDraft{isNew: isNew, fields: c}
	f := &m.draft.fields

	title := fmt.Sprintf("Edit Client #%d", c.ID)
	if isNew {
		title = "New Client"
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&f.Name).Validate(safeText(true)),
			huh.NewInput().Title("Company").Value(&f.Company).Validate(safeText(false)),
			huh.NewInput().Title("Address").Value(&f.Address).Validate(safeText(false)),
			huh.NewInput().Title("Zip").Value(&f.Zip).Validate(safeText(false)),
			huh.NewInput().Title("City").Value(&f.City).Validate(safeText(false)),
			huh.NewInput().Title("Country").Value(&f.Country).Validate(safeText(false)),
		).Title(title),
		huh.NewGroup(
			huh.NewInput().Title("Tax ID").Value(&f.TaxID).Validate(safeText(false)),
			huh.NewInput().Title("Order Number").Value(&f.OrderNumber).Validate(safeText(false)),
			huh.NewInput().Title("Payment Terms").Value(&f.PaymentTerms).Validate(safeText(false)),
			huh.NewInput().Title("Delivery Number").Value(&f.DeliveryNumber).Validate(safeText(false)),
			huh.NewInput().Title("Client Number").Value(&f.ClientNumber).Validate(safeText(false)),
		).Title("Invoice References"),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m ClientsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.commit()
		m.closeForm()

		return m, nil
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	}

	return m, cmd
}

// commit writes the draft. An edited client that vanished in the meantime
// is added again under a fresh id.
func (m *ClientsModel) commit() {
	c := m.draft.fields

	if !m.draft.isNew && m.clients.Set(c) {
		m.status = fmt.Sprintf("Saved %s", c.Name)
		return
	}

	id := m.clients.Add(&c)
	m.status = fmt.Sprintf("Added %s as #%d", c.Name, id)
}

func (m *ClientsModel) closeForm() {
	m.state = listStateBrowse
	m.form = nil
	m.draft = nil
	m.table.Focus()
}

func (m ClientsModel) selected() (client.Client, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return client.Client{}, false
	}

	return m.rows[idx], true
}

func (m *ClientsModel) refresh() {
	m.rows = m.clients.All()

	if name := strings.TrimSpace(m.search.Value()); name != "" {
		m.rows = m.rows[:0]
		if c, ok := m.clients.GetByName(name); ok {
			m.rows = append(m.rows, c)
		}
	}

	rows := make([]table.Row, 0, len(m.rows))
	for _, c := range m.rows {
		rows = append(rows, table.Row{strconv.Itoa(c.ID), c.Name, c.Company, c.City, c.TaxID})
	}

	m.table.SetRows(rows)
}

func (m ClientsModel) View() string {
	header := headerStyle.Render(fmt.Sprintf("Clients (%d)", len(m.rows)))
	if m.state == listStateSearch || m.search.Value() != "" {
		header = lipgloss.JoinVertical(lipgloss.Left, header, m.search.View())
	}

	content := lipgloss.JoinVertical(lipgloss.Left, header, tableBorder.Render(m.table.View()))

	if m.state == listStateEdit && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panelStyle.Render(m.form.View()))
	}

	if m.status != "" {
		content = faint.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
