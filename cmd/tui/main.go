package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/jobbook/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/jobbook/internal/app"
	"github.com/MrJamesThe3rd/jobbook/internal/config"
)

const syncTimeout = 30 * time.Second

type View int

const (
	ViewMenu     View = 0
	ViewClients  View = 1
	ViewJobs     View = 2
	ViewInvoices View = 3
)

type model struct {
	app     *app.App
	name    string
	watcher *view.Watcher

	currentView View

	clientsView view.ClientsModel
	jobsView    view.JobsModel
	invoiceView view.InvoiceModel

	spinner spinner.Model
	syncing bool
	status  string
}

type syncDoneMsg struct {
	err error
}

type exportDoneMsg struct {
	path     string
	invoices int
	err      error
}

func initialModel(a *app.App, name string) model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return model{
		app:         a,
		name:        name,
		watcher:     view.NewWatcher(a.Clients.Subscribe, a.Jobs.Subscribe),
		currentView: ViewMenu,
		clientsView: view.NewClientsModel(a.Clients),
		jobsView:    view.NewJobsModel(a.Jobs, a.Clients),
		invoiceView: view.NewInvoiceModel(a.Invoices, a.Clients, a.Jobs),
		spinner:     s,
	}
}

func (m model) Init() tea.Cmd {
	return m.watcher.Wait()
}

func (m model) syncCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		return syncDoneMsg{err: m.app.Sync(ctx)}
	}
}

// exportCmd writes the backup archive into the working directory.
func (m model) exportCmd() tea.Cmd {
	return func() tea.Msg {
		path := fmt.Sprintf("export_%s.zip", time.Now().Format("20060102"))

		f, err := os.Create(path)
		if err != nil {
			return exportDoneMsg{err: err}
		}

		summary, err := m.app.Exports.Write(f)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}

		return exportDoneMsg{path: path, invoices: len(summary.Items), err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewClients
				return m, m.clientsView.Init()
			case "2":
				m.currentView = ViewJobs
				return m, m.jobsView.Init()
			case "3":
				m.currentView = ViewInvoices
				return m, m.invoiceView.Init()
			case "s":
				if m.syncing {
					return m, nil
				}

				m.syncing = true
				m.status = ""

				return m, tea.Batch(m.spinner.Tick, m.syncCmd())
			case "e":
				m.status = ""
				return m, m.exportCmd()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	case view.ChangedMsg:
		// Every view re-reads its rows, visible or not.
		var next tea.Model

		next, _ = m.clientsView.Update(msg)
		m.clientsView = next.(view.ClientsModel)
		next, _ = m.jobsView.Update(msg)
		m.jobsView = next.(view.JobsModel)
		next, _ = m.invoiceView.Update(msg)
		m.invoiceView = next.(view.InvoiceModel)

		return m, m.watcher.Wait()
	case syncDoneMsg:
		m.syncing = false
		m.status = "Synced"

		if msg.err != nil {
			m.status = fmt.Sprintf("Sync failed: %v", msg.err)
		}

		return m, nil
	case exportDoneMsg:
		m.status = fmt.Sprintf("Exported %s (%d invoices)", msg.path, msg.invoices)

		if msg.err != nil {
			m.status = fmt.Sprintf("Export failed: %v", msg.err)
		}

		return m, nil
	case spinner.TickMsg:
		if !m.syncing {
			return m, nil
		}

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	switch m.currentView {
	case ViewClients:
		var newModel tea.Model
		newModel, cmd = m.clientsView.Update(msg)
		m.clientsView = newModel.(view.ClientsModel)
	case ViewJobs:
		var newModel tea.Model
		newModel, cmd = m.jobsView.Update(msg)
		m.jobsView = newModel.(view.JobsModel)
	case ViewInvoices:
		var newModel tea.Model
		newModel, cmd = m.invoiceView.Update(msg)
		m.invoiceView = newModel.(view.InvoiceModel)
	}

	return m, cmd
}

func (m model) syncLine() string {
	if m.syncing {
		return m.spinner.View() + " Saving..."
	}

	st := m.app.Status()

	line := "All changes saved"
	if !st.Clients.Saved || !st.Jobs.Saved || !st.Descriptions.Saved {
		line = "Unsaved changes (saved automatically)"
	}

	if m.status != "" {
		line = m.status + " | " + line
	}

	return line
}

func (m model) withHelp(body, help string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(help+" | "+m.syncLine()),
	)
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		st := m.app.Status()

		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s\n\n", m.name) +
				fmt.Sprintf("1. Clients (%d)\n", st.Clients.Records) +
				fmt.Sprintf("2. Jobs (%d)\n", st.Jobs.Records) +
				"3. Invoices\n\n" +
				"e. Export archive\n" +
				"s. Save now\n" +
				"q. Quit\n\n" +
				m.syncLine(),
		)
	case ViewClients:
		return m.withHelp(m.clientsView.View(), m.clientsView.ShortHelp())
	case ViewJobs:
		return m.withHelp(m.jobsView.View(), m.jobsView.ShortHelp())
	case ViewInvoices:
		return m.withHelp(m.invoiceView.View(), m.invoiceView.ShortHelp())
	}

	return "Unknown View"
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI; store logs go to a file when asked for.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if cfg.Log.File != "" {
		f, err := tea.LogToFile(cfg.Log.File, "jobbook")
		if err != nil {
			slog.Error("failed to open log file", "error", err)
			os.Exit(1)
		}
		defer f.Close()

		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.Log.Level}))
	}

	ctx := context.Background()

	a, err := app.Open(ctx, cfg, logger, nil)
	if err != nil {
		slog.Error("failed to open blob transport", "driver", cfg.Blob.Driver, "error", err)
		os.Exit(1)
	}

	a.Load(ctx)

	m := initialModel(a, cfg.App.Name)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, runErr := p.Run()

	m.watcher.Close()

	flushCtx, cancel := context.WithTimeout(ctx, syncTimeout)
	defer cancel()

	if err := a.Flush(flushCtx); err != nil {
		slog.Error("failed to save collections", "error", err)
	}

	if err := a.Close(); err != nil {
		slog.Error("failed to close app", "error", err)
	}

	if runErr != nil {
		slog.Error("failed to run TUI", "error", runErr)
		os.Exit(1)
	}
}
