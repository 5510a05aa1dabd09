package infra

import (
	"context"

	"github.com/fd1az/bestprice/business/quote/app"
	"github.com/fd1az/bestprice/business/quote/domain"
	"github.com/fd1az/bestprice/pkg/ui"
)

// TUIReporter implements Reporter for the Bubble Tea TUI.
type TUIReporter struct {
	send func(msg any)
}

var _ app.Reporter = (*TUIReporter)(nil)

// NewTUIReporter creates a TUIReporter that forwards runs to the running program.
func NewTUIReporter() *TUIReporter {
	return &TUIReporter{send: func(msg any) { ui.Send(msg) }}
}

// Start is a no-op; the program is started by main.
func (r *TUIReporter) Start(ctx context.Context) error {
	return nil
}

// Report sends a finished run to the TUI.
func (r *TUIReporter) Report(run *domain.Run) {
	r.send(ui.RunMsg{Run: run})
}

// ReportError sends a rejected query to the TUI.
func (r *TUIReporter) ReportError(err error) {
	r.send(ui.ErrorMsg{Error: err})
}

// Stop is a no-op; the program owns its lifecycle.
func (r *TUIReporter) Stop() error {
	return nil
}
