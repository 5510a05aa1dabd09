package app

import (
	"context"

	"github.com/sourcegraph/conc/iter"

	exchange "github.com/fd1az/bestprice/business/exchange/domain"
	"github.com/fd1az/bestprice/business/quote/domain"
)

// Fetcher issues one request per exchange and collects every outcome.
type Fetcher struct {
	transport Transport
}

// NewFetcher creates a Fetcher over transport.
func NewFetcher(transport Transport) *Fetcher {
	return &Fetcher{transport: transport}
}

// FetchAll requests every descriptor concurrently and waits for all of them.
// Outcomes are returned in descriptor order; failures never stop the others.
func (f *Fetcher) FetchAll(ctx context.Context, descriptors []*exchange.Descriptor, pair exchange.Pair) []domain.Outcome {
	if len(descriptors) == 0 {
		return nil
	}

	mapper := iter.Mapper[*exchange.Descriptor, domain.Outcome]{
		MaxGoroutines: len(descriptors),
	}
	return mapper.Map(descriptors, func(d **exchange.Descriptor) domain.Outcome {
		return f.FetchOne(ctx, *d, pair)
	})
}

// FetchOne requests a single descriptor.
func (f *Fetcher) FetchOne(ctx context.Context, d *exchange.Descriptor, pair exchange.Pair) domain.Outcome {
	out := domain.Outcome{ExchangeID: d.ID}

	target, err := exchange.TargetFor(d, pair)
	if err != nil {
		out.Err = err
		return out
	}

	out.Body, out.Err = f.transport.Fetch(ctx, d.ID, target)
	return out
}
