package view

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/jobbook/internal/blob/memory"
	"github.com/MrJamesThe3rd/jobbook/internal/client"
	"github.com/MrJamesThe3rd/jobbook/internal/invoice"
	"github.com/MrJamesThe3rd/jobbook/internal/job"
	"github.com/MrJamesThe3rd/jobbook/internal/store"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}

	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

type handlers struct {
	clients  *client.Handler
	jobs     *job.Handler
	invoices *invoice.Service
}

func newHandlers(t *testing.T) handlers {
	t.Helper()

	ctx := context.Background()
	transport := memory.New()

	require.NoError(t, transport.Upload(ctx, client.Path, []byte("1,Acme\n2,Globex")))
	require.NoError(t, transport.Upload(ctx, job.Path, []byte(
		"1,1,2024-03-01,Audit,2,50,100,0.19,119,Invoice Pending,\n"+
			"2,2,2024-03-05,Setup,1,10,10,0.19,11.9,In Progress,")))

	cs := store.NewCSV(transport, client.Path, client.Codec{}, nil, store.WithSaveDelay(time.Hour))
	js := store.NewCSV(transport, job.Path, job.Codec{}, nil, store.WithSaveDelay(time.Hour))
	cs.Load(ctx)
	js.Load(ctx)
	t.Cleanup(cs.Close)
	t.Cleanup(js.Close)

	h := handlers{clients: client.NewHandler(cs), jobs: job.NewHandler(js)}
	h.invoices = invoice.NewService(h.clients, h.jobs)

	return h
}

func TestWatcher_MergesNotifications(t *testing.T) {
	h := newHandlers(t)

	w := NewWatcher(h.clients.Subscribe, h.jobs.Subscribe)
	t.Cleanup(w.Close)

	h.clients.Remove(2)
	h.jobs.Remove(2)

	assert.Equal(t, ChangedMsg{}, w.Wait()())

	done := make(chan tea.Msg, 1)
	go func() { done <- w.Wait()() }()

	select {
	case msg := <-done:
		t.Fatalf("unexpected message %v", msg)
	case <-time.After(20 * time.Millisecond):
	}

	h.clients.Remove(1)
	assert.Equal(t, ChangedMsg{}, <-done)
}

func TestWatcher_CloseReleasesWaiters(t *testing.T) {
	h := newHandlers(t)
	w := NewWatcher(h.clients.Subscribe)

	done := make(chan tea.Msg, 1)
	go func() { done <- w.Wait()() }()

	w.Close()
	assert.Nil(t, <-done)

	h.clients.Remove(1)
}

func TestClientsModel_DeleteRefreshesOnChange(t *testing.T) {
	h := newHandlers(t)
	m := NewClientsModel(h.clients)
	require.Len(t, m.rows, 2)

	next, _ := m.Update(key("x"))
	m = next.(ClientsModel)

	_, ok := h.clients.Get(1)
	assert.False(t, ok)
	assert.Equal(t, "Deleted Acme", m.status)

	next, _ = m.Update(ChangedMsg{})
	m = next.(ClientsModel)
	assert.Len(t, m.rows, 1)
}

func TestClientsModel_FindByName(t *testing.T) {
	h := newHandlers(t)
	m := NewClientsModel(h.clients)

	next, _ := m.Update(key("/"))
	m = next.(ClientsModel)
	require.Equal(t, listStateSearch, m.state)

	m.search.SetValue("Globex")

	next, _ = m.Update(key("enter"))
	m = next.(ClientsModel)

	require.Len(t, m.rows, 1)
	assert.Equal(t, 2, m.rows[0].ID)

	next, _ = m.Update(key("/"))
	m = next.(ClientsModel)
	next, _ = m.Update(key("esc"))
	m = next.(ClientsModel)
	assert.Len(t, m.rows, 2)
}

func TestJobsModel_AdvanceStampsCompletion(t *testing.T) {
	h := newHandlers(t)

	m := NewJobsModel(h.jobs, h.clients)
	m.now = func() time.Time { return time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC) }

	m.table.SetCursor(1)

	next, _ := m.Update(key("p"))
	m = next.(JobsModel)

	got, ok := h.jobs.Get(2)
	require.True(t, ok)
	assert.Equal(t, job.StatusInvoicePending, got.Status)
	assert.Equal(t, "2024-03-20", got.CompletedOn)
}

func TestJobsModel_Filters(t *testing.T) {
	h := newHandlers(t)

	m := NewJobsModel(h.jobs, h.clients)
	m.now = func() time.Time { return time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC) }

	next, _ := m.Update(key("s"))
	m = next.(JobsModel)
	require.Len(t, m.rows, 1)
	assert.Equal(t, job.StatusInProgress, m.rows[0].Status)

	next, _ = m.Update(key("s"))
	m = next.(JobsModel)
	require.Len(t, m.rows, 1)
	assert.Equal(t, job.StatusInvoicePending, m.rows[0].Status)

	m.statusIdx = 0
	for m.timeframe != TimeframeLastMonth {
		next, _ = m.Update(key("d"))
		m = next.(JobsModel)
	}

	assert.Len(t, m.rows, 2)

	next, _ = m.Update(key("d"))
	m = next.(JobsModel)
	assert.Equal(t, TimeframeAll, m.timeframe)
}

func TestJobDraft_RecalculatesAmounts(t *testing.T) {
	d := newJobDraft(job.Job{ID: 7, ClientID: 1, Date: "2024-03-01", Description: "Audit"}, false)
	d.count, d.price, d.vat = "3", " 20 ", "0.19"
	d.status = job.StatusInProgress

	j := d.job()

	assert.Equal(t, 7, j.ID)
	assert.True(t, dec("60").Equal(j.Net))
	assert.True(t, dec("71.4").Equal(j.Gross))
}

func TestInvoiceModel_PreviewAndIssue(t *testing.T) {
	h := newHandlers(t)

	m := NewInvoiceModel(h.invoices, h.clients, h.jobs)
	require.Len(t, m.pending, 1)

	next, _ := m.Update(key("enter"))
	m = next.(InvoiceModel)
	require.NotNil(t, m.preview)
	assert.Contains(t, m.View(), "119.00")

	next, _ = m.Update(key("i"))
	m = next.(InvoiceModel)

	assert.Nil(t, m.preview)
	assert.Empty(t, m.pending)

	got, ok := h.jobs.Get(1)
	require.True(t, ok)
	assert.Equal(t, job.StatusAwaitingPayment, got.Status)
}
