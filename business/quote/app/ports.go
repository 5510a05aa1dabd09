// Package app contains application services and port definitions for the quote context.
package app

import (
	"context"

	exchange "github.com/fd1az/bestprice/business/exchange/domain"
	"github.com/fd1az/bestprice/business/quote/domain"
)

// Transport performs the network request for one exchange.
type Transport interface {
	// Fetch returns the raw response body. Any non-nil error is a transport
	// failure for that exchange only.
	Fetch(ctx context.Context, exchangeID string, target exchange.RequestTarget) ([]byte, error)
}

// Reporter renders runs.
type Reporter interface {
	// Start initializes the reporter.
	Start(ctx context.Context) error

	// Report renders a finished run.
	Report(run *domain.Run)

	// ReportError renders a failure that prevented a run.
	ReportError(err error)

	// Stop gracefully shuts down the reporter.
	Stop() error
}
