// Package infra contains infrastructure adapters for the quote context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/fd1az/bestprice/business/quote/app"
	"github.com/fd1az/bestprice/business/quote/domain"
)

// ConsoleReporter implements Reporter for CLI output.
type ConsoleReporter struct {
	out io.Writer
	mu  sync.Mutex
}

var _ app.Reporter = (*ConsoleReporter)(nil)

// NewConsoleReporter creates a ConsoleReporter writing to out, or stdout when nil.
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleReporter{out: out}
}

// Start initializes the console reporter.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	return nil
}

// Report prints the quote table and, for all exchanges, the best price.
func (r *ConsoleReporter) Report(run *domain.Run) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.out, run.Query.Pair.Caption())
	fmt.Fprintln(r.out, quoteTable(run).String())

	for _, row := range run.Rows() {
		if row.Status == domain.StatusFailed && run.Query.Scope.IsAll() {
			fmt.Fprintf(r.out, "  %s: %s\n", row.DisplayName, row.Error)
		}
	}

	for _, note := range run.Notes {
		fmt.Fprintln(r.out, note)
	}

	if !run.Query.Scope.IsAll() {
		if run.Err != nil {
			fmt.Fprintf(r.out, "Error: %s\n", run.Err)
		}
	} else if run.Best != nil {
		fmt.Fprintln(r.out, "Best Price")
		fmt.Fprintln(r.out, bestPriceTable(run.Best).String())
	} else {
		fmt.Fprintln(r.out, "Best Price: no exchange returned a usable quote")
	}

	fmt.Fprintf(r.out, "[%s] run %s in %s\n\n",
		run.FinishedAt.Format("15:04:05"), run.ID.String()[:8], run.Duration().Round(time.Millisecond))
}

// ReportError prints a failure that prevented a run.
func (r *ConsoleReporter) ReportError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "Error: %s\n", err)
}

// Stop gracefully shuts down the console reporter.
func (r *ConsoleReporter) Stop() error {
	return nil
}

func quoteTable(run *domain.Run) *table.Table {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Exchange", "Bid", "Ask")
	for _, row := range run.Rows() {
		t.Row(row.DisplayName, row.Bid, row.Ask)
	}
	return t
}

func bestPriceTable(best *domain.BestPrice) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Exchange", "Eff. Bid", "Eff. Ask").
		Row(best.BestBid.Label(), best.BestBid.Effective.StringFixed(2), "").
		Row(best.BestAsk.Label(), "", best.BestAsk.Effective.StringFixed(2)).
		Row("Profit", best.ProfitPercent.StringFixed(2)+"%", "")
}
