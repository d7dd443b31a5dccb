package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateEdit
	listStateSearch
)

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// ChangedMsg is delivered after a watched collection was replaced.
type ChangedMsg struct{}

// Watcher turns store notifications into tea messages. Notifications that
// arrive while one is already pending are merged.
type Watcher struct {
	ch     chan struct{}
	done   chan struct{}
	unsubs []func()
}

func NewWatcher(subscribe ...func(func()) func()) *Watcher {
	w := &Watcher{
		ch:   make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	for _, sub := range subscribe {
		w.unsubs = append(w.unsubs, sub(w.notify))
	}

	return w
}

func (w *Watcher) notify() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

// Wait blocks until the next change. Re-issue it after every ChangedMsg.
func (w *Watcher) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-w.ch:
			return ChangedMsg{}
		case <-w.done:
			return nil
		}
	}
}

func (w *Watcher) Close() {
	for _, unsub := range w.unsubs {
		unsub()
	}

	close(w.done)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).PaddingBottom(1)
	panelStyle  = lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48)
	tableBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
	faint = lipgloss.NewStyle().Faint(true)
)

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}
