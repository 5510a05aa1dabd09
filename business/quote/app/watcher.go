package app

import (
	"context"
	"time"

	"github.com/fd1az/bestprice/business/quote/domain"
	"github.com/fd1az/bestprice/internal/logger"
	"github.com/fd1az/bestprice/internal/ratelimit"
)

// Watcher repeats a query every interval and reports each run.
// Rounds are sequential; a new query replaces the old one from the next round.
type Watcher struct {
	service  *QuoteService
	reporter Reporter
	limiter  *ratelimit.Limiter
	interval time.Duration
	logger   logger.LoggerInterface

	queries chan domain.Query
	refresh chan struct{}
}

// NewWatcher creates a Watcher. limiter caps how often rounds start,
// including manual refreshes.
func NewWatcher(service *QuoteService, reporter Reporter, limiter *ratelimit.Limiter, interval time.Duration, log logger.LoggerInterface) *Watcher {
	return &Watcher{
		service:  service,
		reporter: reporter,
		limiter:  limiter,
		interval: interval,
		logger:   log,
		queries:  make(chan domain.Query, 1),
		refresh:  make(chan struct{}, 1),
	}
}

// Submit replaces the watched query and triggers a round.
func (w *Watcher) Submit(q domain.Query) {
	// Drop a pending query that was never picked up.
	select {
	case <-w.queries:
	default:
	}
	w.queries <- q
}

// Refresh triggers a round with the current query.
func (w *Watcher) Refresh() {
	select {
	case w.refresh <- struct{}{}:
	default:
	}
}

// Run executes rounds until ctx is done. When once is set it returns after
// the first round.
func (w *Watcher) Run(ctx context.Context, q domain.Query, once bool) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.limiter.Wait(ctx); err != nil {
			return nil
		}

		run, err := w.service.Run(ctx, q)
		if err != nil {
			w.logger.Warn(ctx, "query rejected", "query", q.String(), "error", err)
			w.reporter.ReportError(err)
		} else {
			w.reporter.Report(run)
		}

		if once {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case <-w.refresh:
		case next := <-w.queries:
			w.logger.Info(ctx, "query changed", "from", q.String(), "to", next.String())
			q = next
			ticker.Reset(w.interval)
		}
	}
}
