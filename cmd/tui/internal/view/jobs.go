package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/jobbook/internal/client"
	"github.com/MrJamesThe3rd/jobbook/internal/job"
)

type jobDraft struct {
	isNew bool
	id    int

	clientID    int
	date        string
	description string
	count       string
	price       string
	vat         string
	status      job.Status
	completedOn string
}

func newJobDraft(j job.Job, isNew bool) *jobDraft {
	return &jobDraft{
		isNew:       isNew,
		id:          j.ID,
		clientID:    j.ClientID,
		date:        j.Date,
		description: j.Description,
		count:       j.Count.String(),
		price:       j.Price.String(),
		vat:         j.VAT.String(),
		status:      j.Status,
		completedOn: j.CompletedOn,
	}
}

// job converts the draft back; the form validators guarantee the numbers parse.
func (d *jobDraft) job() job.Job {
	j := job.Job{
		ID:          d.id,
		ClientID:    d.clientID,
		Date:        d.date,
		Description: d.description,
		Count:       decimal.RequireFromString(strings.TrimSpace(d.count)),
		Price:       decimal.RequireFromString(strings.TrimSpace(d.price)),
		VAT:         decimal.RequireFromString(strings.TrimSpace(d.vat)),
		Status:      d.status,
		CompletedOn: d.completedOn,
	}
	j.Recalculate()

	return j
}

type JobsModel struct {
	jobs    *job.Handler
	clients *client.Handler
	now     func() time.Time

	state     listState
	table     table.Model
	rows      []job.Job
	form      *huh.Form
	draft     *jobDraft
	statusIdx int
	timeframe Timeframe
	status    string
}

func NewJobsModel(jobs *job.Handler, clients *client.Handler) JobsModel {
	m := JobsModel{
		jobs:    jobs,
		clients: clients,
		now:     time.Now,
		table: newTable([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Date", Width: 12},
			{Title: "Client", Width: 18},
			{Title: "Description", Width: 30},
			{Title: "Net", Width: 10},
			{Title: "Gross", Width: 10},
			{Title: "Status", Width: 17},
		}),
	}
	m.refresh()

	return m
}

func (m JobsModel) Title() string { return "Jobs" }
func (m JobsModel) ShortHelp() string {
	if m.state == listStateEdit {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | e: edit | x: delete | p: advance status | s: status filter | d: date filter"
}

func (m JobsModel) Init() tea.Cmd {
	return nil
}

func (m JobsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ChangedMsg:
		m.refresh()
		return m, nil
	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == listStateEdit {
		return m.updateEdit(msg)
	}

	return m.updateBrowse(msg)
}

func (m JobsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "a":
			return m.enterEditMode(job.Job{
				Date:   m.now().Format(time.DateOnly),
				Count:  decimal.NewFromInt(1),
				Status: job.StatusInProgress,
			}, true)
		case "e":
			if j, ok := m.selected(); ok {
				return m.enterEditMode(j, false)
			}
		case "x":
			if j, ok := m.selected(); ok && m.jobs.Remove(j.ID) {
				m.status = fmt.Sprintf("Deleted job #%d", j.ID)
			}

			return m, nil
		case "p":
			m.advance()
			return m, nil
		case "s":
			m.statusIdx = (m.statusIdx + 1) % (len(job.Statuses) + 1)
			m.refresh()

			return m, nil
		case "d":
			m.timeframe = m.timeframe.Next()
			m.refresh()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

// advance moves the selected job one step along the billing lifecycle and
// stamps the completion date when it leaves In Progress.
func (m *JobsModel) advance() {
	j, ok := m.selected()
	if !ok {
		return
	}

	for i, st := range job.Statuses {
		if st != j.Status || i == len(job.Statuses)-1 {
			continue
		}

		j.Status = job.Statuses[i+1]
		if j.CompletedOn == "" {
			j.CompletedOn = m.now().Format(time.DateOnly)
		}

		if m.jobs.Set(j) {
			m.status = fmt.Sprintf("Job #%d is now %s", j.ID, j.Status)
		}

		return
	}
}

func (m JobsModel) enterEditMode(j job.Job, isNew bool) (tea.Model, tea.Cmd) {
	m.draft = newJobDraft(j, isNew)
	d := m.draft

	title := fmt.Sprintf("Edit Job #%d", j.ID)
	if isNew {
		title = "New Job"
	}

	clientOpts := make([]huh.Option[int], 0)
	for _, c := range m.clients.All() {
		clientOpts = append(clientOpts, huh.NewOption(fmt.Sprintf("#%d %s", c.ID, c.Name), c.ID))
	}

	statusOpts := make([]huh.Option[job.Status], len(job.Statuses))
	for i, st := range job.Statuses {
		statusOpts[i] = huh.NewOption(string(st), st)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().Title("Client").Options(clientOpts...).Value(&d.clientID),
			huh.NewInput().Title("Date").Placeholder("YYYY-MM-DD").Value(&d.date).Validate(dateText(true)),
			huh.NewInput().Title("Description").Value(&d.description).Validate(safeText(true)),
		).Title(title),
		huh.NewGroup(
			huh.NewInput().Title("Count").Value(&d.count).Validate(decimalText),
			huh.NewInput().Title("Price").Value(&d.price).Validate(decimalText),
			huh.NewInput().Title("VAT rate").Placeholder("0.19").Value(&d.vat).Validate(decimalText),
			huh.NewSelect[job.Status]().Title("Status").Options(statusOpts...).Value(&d.status),
			huh.NewInput().Title("Completed on").Placeholder("YYYY-MM-DD").Value(&d.completedOn).Validate(dateText(false)),
		).Title("Billing"),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m JobsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
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

func (m *JobsModel) commit() {
	j := m.draft.job()

	if !m.draft.isNew && m.jobs.Set(j) {
		m.status = fmt.Sprintf("Saved job #%d", j.ID)
		return
	}

	id := m.jobs.Add(&j)
	m.status = fmt.Sprintf("Added job #%d", id)
}

func (m *JobsModel) closeForm() {
	m.state = listStateBrowse
	m.form = nil
	m.draft = nil
	m.table.Focus()
}

func (m JobsModel) selected() (job.Job, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return job.Job{}, false
	}

	return m.rows[idx], true
}

func (m JobsModel) statusFilter() (job.Status, bool) {
	if m.statusIdx == 0 {
		return "", false
	}

	return job.Statuses[m.statusIdx-1], true
}

func (m *JobsModel) refresh() {
	status, byStatus := m.statusFilter()
	now := m.now()

	m.rows = m.jobs.Filter(func(j job.Job) bool {
		if byStatus && j.Status != status {
			return false
		}

		return m.timeframe.Contains(j.Date, now)
	})

	rows := make([]table.Row, 0, len(m.rows))
	for _, j := range m.rows {
		clientName := "?"
		if c, ok := m.clients.Get(j.ClientID); ok {
			clientName = c.Name
		}

		rows = append(rows, table.Row{
			strconv.Itoa(j.ID),
			j.Date,
			clientName,
			j.Description,
			FormatMoney(j.Net),
			FormatMoney(j.Gross),
			string(j.Status),
		})
	}

	m.table.SetRows(rows)
}

func (m JobsModel) View() string {
	statusLabel := "All"
	if st, ok := m.statusFilter(); ok {
		statusLabel = string(st)
	}

	header := fmt.Sprintf(
		"Filter: [s] Status: %s | [d] Date: %s",
		activeStyle(statusLabel),
		activeStyle(m.timeframe.String()),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(header),
		tableBorder.Render(m.table.View()),
	)

	if m.state == listStateEdit && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panelStyle.Render(m.form.View()))
	}

	if m.status != "" {
		content = faint.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
