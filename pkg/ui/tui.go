// Package ui provides the Bubble Tea dashboard for the RPC load balancer.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nodepool/rpc-balancer/pkg/ui/components"
)

// ErrorEntry is an error with the time it was observed.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the Bubble Tea model for the endpoint status dashboard. It is a
// purely read-only view over a Balancer.Snapshot; it never mutates
// load-balancing state.
type Model struct {
	keys   KeyMap
	status *components.StatusComponent
	stats  *components.StatsComponent

	ready    bool
	quitting bool
	paused   bool
	width    int
	height   int

	network    string
	lastUpdate time.Time
	errors     []ErrorEntry // last 3
	logs       []string     // last 5
}

// New creates a new dashboard model for network.
func New(network string) Model {
	return Model{
		keys:    DefaultKeyMap(),
		status:  components.NewStatusComponent(),
		stats:   components.NewStatsComponent(),
		network: network,
		logs:    make([]string, 0, 5),
		errors:  make([]ErrorEntry, 0, 3),
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Clear):
			m.errors = m.errors[:0]
			m.logs = m.logs[:0]
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		return m, tickCmd()

	case SnapshotMsg:
		if !m.paused {
			m.status.SetRows(msg.Rows)
			m.stats.Update(msg.Stats)
			m.lastUpdate = time.Now()
		}

	case ErrorMsg:
		m.errors = append(m.errors, ErrorEntry{Message: msg.Error.Error(), Timestamp: time.Now()})
		if len(m.errors) > 3 {
			m.errors = m.errors[len(m.errors)-3:]
		}
		m.logs = addLog(m.logs, "error", msg.Error.Error())

	case LogMsg:
		m.logs = addLog(m.logs, msg.Level, msg.Message)
	}

	return m, nil
}

func addLog(logs []string, level, message string) []string {
	line := fmt.Sprintf("[%s] %s: %s", time.Now().Format("15:04:05"), level, message)
	logs = append(logs, line)
	if len(logs) > 5 {
		logs = logs[len(logs)-5:]
	}
	return logs
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}
	if !m.ready {
		return "\n  Loading...\n\n"
	}

	var b strings.Builder

	title := TitleStyle.Render(fmt.Sprintf(" RPC Load Balancer — %s ", m.network))
	b.WriteString(title)
	b.WriteString("\n\n")

	if m.paused {
		pauseStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
		b.WriteString(pauseStyle.Render("⏸ PAUSED"))
		b.WriteString("\n\n")
	}

	b.WriteString(BoxStyle.Width(m.width - 4).Render(m.status.View()))
	b.WriteString("\n\n")
	b.WriteString(BoxStyle.Width(m.width - 4).Render(m.stats.View()))
	b.WriteString("\n\n")

	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		b.WriteString(MutedValue.Render(fmt.Sprintf("Updated %s ago", ago)))
		b.WriteString("\n\n")
	}

	if len(m.errors) > 0 {
		errorStyle := lipgloss.NewStyle().Foreground(ColorDanger)
		errorHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
		b.WriteString(errorHeader.Render("ERRORS"))
		b.WriteString("\n")
		for _, e := range m.errors {
			ago := time.Since(e.Timestamp).Round(time.Second)
			b.WriteString(errorStyle.Render(fmt.Sprintf("  • %s ", e.Message)))
			b.WriteString(MutedValue.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	help := strings.Join([]string{"q: quit", "p: pause", "c: clear"}, " • ")
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}

// Program holds the running Bubble Tea program instance for external
// access via Send.
var Program *tea.Program

// Run starts the Bubble Tea program for network and blocks until it exits.
func Run(network string) error {
	Program = tea.NewProgram(New(network), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send delivers msg to the running dashboard program, if one is active.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
}
