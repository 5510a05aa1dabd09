package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	exchange "github.com/fd1az/bestprice/business/exchange/domain"
	"github.com/fd1az/bestprice/business/quote/domain"
	"github.com/fd1az/bestprice/internal/apm"
	"github.com/fd1az/bestprice/internal/logger"
)

const (
	tracerName = "github.com/fd1az/bestprice/business/quote"
	meterName  = "github.com/fd1az/bestprice/business/quote"
)

// QuoteService runs queries: fetch, aggregate and, for all exchanges, select
// the best price.
type QuoteService struct {
	registry *exchange.Registry
	fetcher  *Fetcher
	logger   logger.LoggerInterface
	tracer   apm.Tracer
	now      func() time.Time
	metrics  *serviceMetrics
}

type serviceMetrics struct {
	runsTotal    metric.Int64Counter
	resultsTotal metric.Int64Counter
	runDuration  metric.Float64Histogram
}

// NewQuoteService creates a QuoteService.
func NewQuoteService(registry *exchange.Registry, fetcher *Fetcher, log logger.LoggerInterface) (*QuoteService, error) {
	s := &QuoteService{
		registry: registry,
		fetcher:  fetcher,
		logger:   log,
		tracer:   apm.NewTracer(tracerName),
		now:      time.Now,
	}
	if err := s.initMetrics(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *QuoteService) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	s.metrics = &serviceMetrics{}

	s.metrics.runsTotal, err = meter.Int64Counter(
		"quote_runs_total",
		metric.WithDescription("Total aggregation runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return err
	}

	s.metrics.resultsTotal, err = meter.Int64Counter(
		"quote_results_total",
		metric.WithDescription("Per-exchange results by status"),
		metric.WithUnit("{result}"),
	)
	if err != nil {
		return err
	}

	s.metrics.runDuration, err = meter.Float64Histogram(
		"quote_run_duration_ms",
		metric.WithDescription("Wall time of one aggregation run"),
		metric.WithUnit("ms"),
	)
	return err
}

// Registry returns the exchange catalog the service queries.
func (s *QuoteService) Registry() *exchange.Registry {
	return s.registry
}

// Run executes q. The returned error is only for queries that cannot start,
// such as an unknown exchange; exchange failures are recorded in the Run.
func (s *QuoteService) Run(ctx context.Context, q domain.Query) (*domain.Run, error) {
	var single *exchange.Descriptor
	if !q.Scope.IsAll() {
		d, err := s.registry.Lookup(q.Scope.ExchangeID())
		if err != nil {
			return nil, err
		}
		single = d
	}

	ctx, span := s.tracer.StartSpanFromContext(ctx, "quote.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("pair", q.Pair.String()),
		attribute.String("scope", string(q.Scope)),
	)

	run := domain.NewRun(q, s.now())
	span.SetAttribute(attribute.String("run_id", run.ID.String()))

	if single != nil {
		s.runOne(ctx, run, single)
	} else {
		s.runAll(ctx, run)
	}

	s.record(ctx, run)

	if run.Err != nil {
		span.NoticeError(run.Err)
	}

	s.logger.Debug(ctx, "run finished",
		"run_id", run.ID.String(),
		"query", q.String(),
		"duration", run.Duration().String(),
		"results", len(run.Results),
	)

	return run, nil
}

func (s *QuoteService) runAll(ctx context.Context, run *domain.Run) {
	descriptors := s.registry.All()
	pair := run.Query.Pair

	outcomes := s.fetcher.FetchAll(ctx, descriptors, pair)
	results := Aggregate(outcomes, descriptors, pair)
	run.Finish(results, s.now())
	run.Notes = UnsupportedNotes(results, s.registry)

	for _, r := range results {
		if r.Status == domain.StatusFailed {
			s.logger.Warn(ctx, "exchange quote failed", "exchange", r.ExchangeID, "error", r.ErrText())
		}
	}

	best, err := domain.SelectBestPrice(results, s.registry)
	if err != nil {
		run.Err = err
		return
	}
	run.Best = best
}

func (s *QuoteService) runOne(ctx context.Context, run *domain.Run, d *exchange.Descriptor) {
	outcome := s.fetcher.FetchOne(ctx, d, run.Query.Pair)
	result, note := AggregateOne(outcome, d, run.Query.Pair)
	run.Finish([]domain.QuoteResult{result}, s.now())

	if note != "" {
		run.Notes = []string{note}
	}
	if result.Status == domain.StatusFailed {
		run.Err = result.Err
		s.logger.Warn(ctx, "exchange quote failed", "exchange", d.ID, "error", result.ErrText())
	}
}

func (s *QuoteService) record(ctx context.Context, run *domain.Run) {
	scope := "single"
	if run.Query.Scope.IsAll() {
		scope = "all"
	}

	s.metrics.runsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("scope", scope),
		attribute.Bool("no_candidate", run.NoCandidate()),
	))
	s.metrics.runDuration.Record(ctx, float64(run.Duration().Milliseconds()),
		metric.WithAttributes(attribute.String("scope", scope)))

	for _, r := range run.Results {
		s.metrics.resultsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("exchange", r.ExchangeID),
			attribute.String("status", string(r.Status)),
		))
	}
}
