// Package domain contains the core domain types for the quote context.
package domain

import (
	"github.com/shopspring/decimal"
)

// NotAvailable is displayed in place of a missing bid or ask.
const NotAvailable = "N/A"

// Status is the terminal outcome of one exchange within a run.
type Status string

const (
	StatusFulfilled   Status = "fulfilled"
	StatusFailed      Status = "failed"
	StatusUnsupported Status = "unsupported"
)

// Outcome is the raw result of one fetch: a body or a transport error.
type Outcome struct {
	ExchangeID string
	Body       []byte
	Err        error
}

// Failed reports whether the transport failed.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// QuoteResult is the normalized quote of one exchange within a run.
// Bid and Ask are set only when Fulfilled, Err only when Failed.
type QuoteResult struct {
	ExchangeID  string
	DisplayName string
	Status      Status
	Bid         decimal.Decimal
	Ask         decimal.Decimal
	Err         error
}

// Fulfilled returns a result carrying a quote.
func Fulfilled(id, name string, bid, ask decimal.Decimal) QuoteResult {
	return QuoteResult{ExchangeID: id, DisplayName: name, Status: StatusFulfilled, Bid: bid, Ask: ask}
}

// Failed returns a result carrying the failure.
func Failed(id, name string, err error) QuoteResult {
	return QuoteResult{ExchangeID: id, DisplayName: name, Status: StatusFailed, Err: err}
}

// Unsupported returns a result for a pair the exchange does not quote.
func Unsupported(id, name string) QuoteResult {
	return QuoteResult{ExchangeID: id, DisplayName: name, Status: StatusUnsupported}
}

// IsFulfilled reports whether the result carries a quote.
func (r QuoteResult) IsFulfilled() bool {
	return r.Status == StatusFulfilled
}

// BidText returns the bid or "N/A".
func (r QuoteResult) BidText() string {
	if !r.IsFulfilled() {
		return NotAvailable
	}
	return r.Bid.String()
}

// AskText returns the ask or "N/A".
func (r QuoteResult) AskText() string {
	if !r.IsFulfilled() {
		return NotAvailable
	}
	return r.Ask.String()
}

// ErrText returns the failure message, empty unless Failed.
func (r QuoteResult) ErrText() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
