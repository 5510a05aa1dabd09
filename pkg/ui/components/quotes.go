// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Row states for QuoteRow.
const (
	RowOK          = "ok"
	RowFailed      = "failed"
	RowUnsupported = "unsupported"
)

// QuoteRow is one exchange line in the quotes table. Prices are preformatted.
type QuoteRow struct {
	Exchange string
	Bid      string
	Ask      string
	State    string
	Error    string
}

// QuotesComponent renders the per-exchange bid/ask table.
type QuotesComponent struct {
	caption string
	rows    []QuoteRow
	notes   []string
}

// NewQuotesComponent creates a new quotes component.
func NewQuotesComponent() *QuotesComponent {
	return &QuotesComponent{}
}

// Update replaces the table contents.
func (q *QuotesComponent) Update(caption string, rows []QuoteRow, notes []string) {
	q.caption = caption
	q.rows = rows
	q.notes = notes
}

// Rows returns the current rows.
func (q *QuotesComponent) Rows() []QuoteRow {
	return q.rows
}

// View renders the quotes component.
func (q *QuotesComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))

	if len(q.rows) == 0 {
		return dimStyle.Render("Waiting for quotes...")
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(strings.ToUpper(q.caption)))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("  %-12s  %14s  %14s\n", "Exchange", "Bid", "Ask"))
	sb.WriteString(dimStyle.Render("  "+strings.Repeat("─", 44)) + "\n")

	for _, row := range q.rows {
		line := fmt.Sprintf("  %-12s  %14s  %14s", row.Exchange, row.Bid, row.Ask)
		switch row.State {
		case RowFailed:
			sb.WriteString(errStyle.Render(line))
		case RowUnsupported:
			sb.WriteString(dimStyle.Render(line))
		default:
			sb.WriteString(line)
		}
		sb.WriteString("\n")
	}

	var failures []string
	for _, row := range q.rows {
		if row.State == RowFailed && row.Error != "" {
			failures = append(failures, fmt.Sprintf("  %s: %s", row.Exchange, row.Error))
		}
	}
	if len(failures) > 0 {
		sb.WriteString("\n")
		sb.WriteString(errStyle.Render(strings.Join(failures, "\n")))
		sb.WriteString("\n")
	}

	for _, note := range q.notes {
		sb.WriteString("\n")
		sb.WriteString(warnStyle.Render("  " + note))
	}

	return sb.String()
}
