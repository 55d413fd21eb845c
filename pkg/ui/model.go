// Package ui provides the Bubble Tea TUI for the venue arbitrage detector.
package ui

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/arcbridge/venuearb/business/venue/domain"
)

// Program is set by main once the Bubble Tea program is constructed, so
// background goroutines can push state changes into the TUI via Send.
var Program *tea.Program

// Send delivers msg to the running program, if one has been set. It is a
// no-op before Program is assigned or when running in CLI (non-TUI) mode.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
}

const maxAlertHistory = 20

type alertEntry struct {
	at         time.Time
	instrument string
	venueA     string
	venueB     string
	diffPct    string
}

// Model is the root Bubble Tea model: one row per supervised venue
// session, plus a scrolling history of accepted alerts.
type Model struct {
	keys     KeyMap
	help     help.Model
	quitting bool
	paused   bool
	err      error

	sessions map[string]domain.SessionState
	alerts   []alertEntry
}

// New builds the initial TUI model.
func New() Model {
	return Model{
		keys:     DefaultKeyMap(),
		help:     help.New(),
		sessions: make(map[string]domain.SessionState),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			m.alerts = nil
			return m, nil
		}
		return m, nil

	case SessionStateMsg:
		m.sessions[msg.Change.Venue] = msg.Change.To
		return m, nil

	case AlertMsg:
		if m.paused {
			return m, nil
		}
		m.alerts = append(m.alerts, alertEntry{
			at:         time.Now(),
			instrument: msg.Instrument,
			venueA:     msg.VenueA,
			venueB:     msg.VenueB,
			diffPct:    msg.DiffPct,
		})
		if len(m.alerts) > maxAlertHistory {
			m.alerts = m.alerts[len(m.alerts)-maxAlertHistory:]
		}
		return m, nil

	case ErrorMsg:
		m.err = msg.Error
		return m, nil

	case tickMsg:
		return m, tick()
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := TitleStyle.Render(" venuearb ")
	if m.err != nil {
		return header + "\n\n" + StatusDisconnected.Render(fmt.Sprintf("fatal: %v", m.err)) + "\n"
	}

	alertsHeader := "Alerts"
	if m.paused {
		alertsHeader = "Alerts (paused)"
	}

	sessions := BoxStyle.Render(HeaderStyle.Render("Sessions") + "\n" + m.renderSessions())
	alerts := BoxStyle.Render(HeaderStyle.Render(alertsHeader) + "\n" + m.renderAlerts())
	helpView := HelpStyle.Render(m.help.View(m.keys))

	return header + "\n\n" + sessions + "\n" + alerts + "\n" + helpView + "\n"
}

func (m Model) renderSessions() string {
	if len(m.sessions) == 0 {
		return MutedValue.Render("waiting for sessions...")
	}

	names := make([]string, 0, len(m.sessions))
	for name := range m.sessions {
		names = append(names, name)
	}
	sort.Strings(names)

	out := ""
	for _, name := range names {
		out += fmt.Sprintf("%-28s %s\n", name, renderState(m.sessions[name]))
	}
	return out
}

func renderState(state domain.SessionState) string {
	switch state {
	case domain.SessionConnected:
		return StatusConnected.Render(string(state))
	case domain.SessionReconnecting, domain.SessionRotating, domain.SessionConnecting:
		return StatusReconnecting.Render(string(state))
	default:
		return StatusDisconnected.Render(string(state))
	}
}

func (m Model) renderAlerts() string {
	if len(m.alerts) == 0 {
		return MutedValue.Render("no alerts yet")
	}
	out := ""
	for i := len(m.alerts) - 1; i >= 0; i-- {
		a := m.alerts[i]
		out += fmt.Sprintf("%s  %-12s %s vs %s  diff=%s%%\n",
			a.at.Format("15:04:05"), a.instrument, a.venueA, a.venueB, a.diffPct)
	}
	return out
}
