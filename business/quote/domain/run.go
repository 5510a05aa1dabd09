package domain

import (
	"time"

	"github.com/google/uuid"
)

// Row is one line of the quote table.
type Row struct {
	ExchangeID  string
	DisplayName string
	Status      Status
	Bid         string
	Ask         string
	Error       string
}

// Run is the result of one query. Each query gets a fresh Run.
type Run struct {
	ID      uuid.UUID
	Query   Query
	Results []QuoteResult // registry order

	// Best is set for all-exchange runs with at least one Fulfilled result.
	Best *BestPrice

	// Err is the run-level condition: NO_CANDIDATE for all-exchange runs,
	// the exchange failure for single-exchange runs.
	Err error

	// Notes are advisories such as unsupported pair notices.
	Notes []string

	StartedAt  time.Time
	FinishedAt time.Time
}

// NewRun starts a run for q.
func NewRun(q Query, now time.Time) *Run {
	return &Run{
		ID:        uuid.New(),
		Query:     q,
		StartedAt: now,
	}
}

// Finish records the results and the end time.
func (r *Run) Finish(results []QuoteResult, now time.Time) {
	r.Results = results
	r.FinishedAt = now
}

// Duration returns how long the run took.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Rows returns the table rows in registry order.
func (r *Run) Rows() []Row {
	rows := make([]Row, len(r.Results))
	for i, res := range r.Results {
		rows[i] = Row{
			ExchangeID:  res.ExchangeID,
			DisplayName: res.DisplayName,
			Status:      res.Status,
			Bid:         res.BidText(),
			Ask:         res.AskText(),
			Error:       res.ErrText(),
		}
	}
	return rows
}

// Counts returns the number of results per status.
func (r *Run) Counts() map[Status]int {
	counts := make(map[Status]int, 3)
	for _, res := range r.Results {
		counts[res.Status]++
	}
	return counts
}

// NoCandidate reports whether an all-exchange run found no usable quote.
func (r *Run) NoCandidate() bool {
	return r.Query.Scope.IsAll() && r.Best == nil
}
