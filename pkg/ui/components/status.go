// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// EndpointRow is one dashboard row: a single endpoint's pool membership
// and probe-observed state.
type EndpointRow struct {
	URL       string
	Kind      string // "normal" or "archive"
	Active    bool
	Failed    bool
	LastBlock int64
	Latency   time.Duration
}

// StatusComponent renders both pools' endpoint rows.
type StatusComponent struct {
	rows []EndpointRow
}

// NewStatusComponent creates a new status component.
func NewStatusComponent() *StatusComponent {
	return &StatusComponent{}
}

// SetRows replaces the displayed rows with a fresh Balancer.Snapshot.
func (s *StatusComponent) SetRows(rows []EndpointRow) {
	s.rows = rows
}

// View renders the status component.
func (s *StatusComponent) View() string {
	if len(s.rows) == 0 {
		return "No endpoints"
	}

	connectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	failedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)

	var result string
	for _, row := range s.rows {
		status := "●"
		style := connectedStyle
		if row.Failed {
			status = "○"
			style = failedStyle
		}

		marker := " "
		if row.Active {
			marker = activeStyle.Render("*")
		}

		line := fmt.Sprintf("%s├─ [%s] %s %s block=%d", marker, row.Kind, style.Render(status), row.URL, row.LastBlock)
		if row.Latency > 0 {
			line += fmt.Sprintf(" (%s)", row.Latency.Round(time.Millisecond))
		}
		result += line + "\n"
	}

	return result
}
