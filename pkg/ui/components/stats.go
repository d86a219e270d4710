// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Stats holds the balancer-wide counters for display.
type Stats struct {
	ProbesRun     int64
	ProbeFailures int64
	Failovers     int64
	ActiveNormal  int
	ActiveArchive int
}

// StatsComponent renders statistics.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update updates the statistics.
func (s *StatsComponent) Update(stats Stats) {
	s.stats = stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	failuresDisplay := valueStyle.Render(fmt.Sprintf("%d", s.stats.ProbeFailures))
	if s.stats.ProbeFailures > 0 {
		failuresDisplay = errorStyle.Render(fmt.Sprintf("%d", s.stats.ProbeFailures))
	}

	return style.Render("STATS") + "\n" +
		fmt.Sprintf("Probes run: %s  │  Probe failures: %s  │  Failovers: %s\n",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.ProbesRun)),
			failuresDisplay,
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Failovers)),
		) +
		fmt.Sprintf("Active normal: %s       │  Active archive: %s",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.ActiveNormal)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.ActiveArchive)),
		)
}
