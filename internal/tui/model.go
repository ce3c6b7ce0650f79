// Package tui is the terminal dashboard. Every submitted query starts a
// refresh; only the most recent one is allowed to replace what is shown.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spacesedan/tickerpulse/internal/aggregator"
	"github.com/spacesedan/tickerpulse/internal/models"
)

var (
	quitKeys   = key.NewBinding(key.WithKeys("ctrl+c", "esc"))
	submitKeys = key.NewBinding(key.WithKeys("enter"))
	windowKeys = key.NewBinding(key.WithKeys("tab"))
)

type bundleMsg struct {
	seq       uint64
	bundle    models.ResultBundle
	committed bool
}

type Model struct {
	dashboard *aggregator.Dashboard
	timeout   time.Duration

	input  textinput.Model
	term   string
	window models.Window

	pending int
	status  string
	width   int
}

func NewModel(dashboard *aggregator.Dashboard, timeout time.Duration) *Model {
	input := textinput.New()
	input.Placeholder = "AAPL 24h"
	input.CharLimit = 64
	input.Width = 30
	input.Focus()

	return &Model{
		dashboard: dashboard,
		timeout:   timeout,
		input:     input,
		window:    models.Window7d,
		width:     100,
	}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// refresh issues the sequence number now so that submit order, not
// goroutine scheduling, decides which result is newest.
func (m *Model) refresh() tea.Cmd {
	seq := m.dashboard.Begin()
	m.pending++
	m.status = fmt.Sprintf("Loading %s (%s)...", m.term, m.window)

	term, window, timeout := m.term, m.window, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		b, ok := m.dashboard.Load(ctx, seq, term, window)
		return bundleMsg{seq: seq, bundle: b, committed: ok}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, quitKeys):
			return m, tea.Quit

		case key.Matches(msg, submitKeys):
			term, window, err := ParseQuery(m.input.Value(), m.window)
			if err != nil {
				m.status = err.Error()
				return m, nil
			}
			m.term, m.window = term, window
			m.input.SetValue("")
			return m, m.refresh()

		case key.Matches(msg, windowKeys):
			m.window = NextWindow(m.window)
			if m.term == "" {
				return m, nil
			}
			return m, m.refresh()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case bundleMsg:
		m.pending--
		switch {
		case !msg.committed:
			m.status = fmt.Sprintf("Dropped stale result for %s", msg.bundle.Term)
		case m.pending > 0:
			m.status = fmt.Sprintf("Loading... (%d in flight)", m.pending)
		default:
			m.status = fmt.Sprintf("Updated %s", msg.bundle.GeneratedAt.Local().Format(time.Kitchen))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("tickerpulse"))
	b.WriteString("  ")
	b.WriteString(renderWindows(m.window))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if current, ok := m.dashboard.Current(); ok {
		b.WriteString(RenderBundle(current, m.width))
		b.WriteString("\n")
	}

	b.WriteString(MutedStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render("enter: search · tab: change window · esc: quit"))
	return b.String()
}
