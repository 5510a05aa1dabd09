package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// BestPriceRow is the fee-adjusted best bid/ask of one run.
type BestPriceRow struct {
	Timestamp string
	Pair      string
	BidLabel  string
	Bid       decimal.Decimal
	AskLabel  string
	Ask       decimal.Decimal
	Profit    decimal.Decimal
	// Message replaces the prices when no candidate exists.
	Message string
}

// HasPrices reports whether the row carries a selection.
func (r BestPriceRow) HasPrices() bool {
	return r.Message == ""
}

// BestPriceComponent renders the latest best price and a scrollable history.
type BestPriceComponent struct {
	rows         []BestPriceRow
	maxRows      int
	scrollOffset int
	visibleRows  int
}

// NewBestPriceComponent creates a component keeping at most maxRows entries.
func NewBestPriceComponent(maxRows int) *BestPriceComponent {
	return &BestPriceComponent{
		maxRows:     maxRows,
		visibleRows: 5,
	}
}

// Add records a new run, newest first.
func (b *BestPriceComponent) Add(row BestPriceRow) {
	b.rows = append([]BestPriceRow{row}, b.rows...)
	if len(b.rows) > b.maxRows {
		b.rows = b.rows[:b.maxRows]
	}
	b.scrollOffset = 0
}

// Latest returns the newest row.
func (b *BestPriceComponent) Latest() (BestPriceRow, bool) {
	if len(b.rows) == 0 {
		return BestPriceRow{}, false
	}
	return b.rows[0], true
}

// Len returns the number of stored rows.
func (b *BestPriceComponent) Len() int {
	return len(b.rows)
}

// ScrollUp moves the history view up.
func (b *BestPriceComponent) ScrollUp() {
	if b.scrollOffset > 0 {
		b.scrollOffset--
	}
}

// ScrollDown moves the history view down.
func (b *BestPriceComponent) ScrollDown() {
	if b.scrollOffset < len(b.rows)-b.visibleRows {
		b.scrollOffset++
	}
}

// Clear drops the history.
func (b *BestPriceComponent) Clear() {
	b.rows = nil
	b.scrollOffset = 0
}

// View renders the best price panel.
func (b *BestPriceComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	positiveStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	negativeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("BEST PRICE"))
	sb.WriteString("\n\n")

	latest, ok := b.Latest()
	if !ok {
		sb.WriteString(dimStyle.Render("  Waiting for the first run..."))
		return sb.String()
	}

	if !latest.HasPrices() {
		sb.WriteString(negativeStyle.Render("  " + latest.Message))
	} else {
		sb.WriteString(fmt.Sprintf("  Best bid  %-24s %s\n", latest.BidLabel, latest.Bid.StringFixed(2)))
		sb.WriteString(fmt.Sprintf("  Best ask  %-24s %s\n", latest.AskLabel, latest.Ask.StringFixed(2)))
		profitStyle := positiveStyle
		if latest.Profit.IsNegative() {
			profitStyle = negativeStyle
		}
		sb.WriteString("  Profit    ")
		sb.WriteString(profitStyle.Render(latest.Profit.StringFixed(2) + "%"))
	}

	if len(b.rows) < 2 {
		return sb.String()
	}

	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("  HISTORY (%d)", len(b.rows))))
	sb.WriteString("\n")

	end := b.scrollOffset + b.visibleRows
	if end > len(b.rows) {
		end = len(b.rows)
	}
	for _, row := range b.rows[b.scrollOffset:end] {
		if !row.HasPrices() {
			sb.WriteString(dimStyle.Render(fmt.Sprintf("  %s  %-8s  no candidate", row.Timestamp, row.Pair)))
		} else {
			sb.WriteString(dimStyle.Render(fmt.Sprintf("  %s  %-8s  %10s / %-10s %7s%%",
				row.Timestamp, row.Pair, row.Bid.StringFixed(2), row.Ask.StringFixed(2), row.Profit.StringFixed(2))))
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}
