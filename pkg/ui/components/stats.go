package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Stats holds run statistics for display.
type Stats struct {
	Runs         int64
	Fulfilled    int64
	Failed       int64
	Unsupported  int64
	LastDuration time.Duration
	Errors       int64
}

// StatsComponent renders statistics.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Record adds the counts of one finished run.
func (s *StatsComponent) Record(fulfilled, failed, unsupported int, d time.Duration) {
	s.stats.Runs++
	s.stats.Fulfilled += int64(fulfilled)
	s.stats.Failed += int64(failed)
	s.stats.Unsupported += int64(unsupported)
	s.stats.LastDuration = d
}

// RecordError counts a rejected query.
func (s *StatsComponent) RecordError() {
	s.stats.Errors++
}

// Stats returns a copy of the current statistics.
func (s *StatsComponent) Stats() Stats {
	return s.stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	failedDisplay := valueStyle.Render(fmt.Sprintf("%d", s.stats.Failed))
	if s.stats.Failed > 0 {
		failedDisplay = errorStyle.Render(fmt.Sprintf("%d", s.stats.Failed))
	}

	return style.Render("STATS") + "  " +
		fmt.Sprintf("Runs: %s  │  Quotes: %s  │  Failed: %s  │  Unsupported: %s  │  Last run: %s",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Runs)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Fulfilled)),
			failedDisplay,
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Unsupported)),
			valueStyle.Render(s.stats.LastDuration.Round(time.Millisecond).String()),
		)
}
