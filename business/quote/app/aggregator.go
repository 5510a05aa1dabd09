package app

import (
	exchange "github.com/fd1az/bestprice/business/exchange/domain"
	"github.com/fd1az/bestprice/business/quote/domain"
	"github.com/fd1az/bestprice/internal/apperror"
)

// Aggregate joins outcomes with descriptors by exchange id and returns one
// result per descriptor, in descriptor order. It has no side effects.
func Aggregate(outcomes []domain.Outcome, descriptors []*exchange.Descriptor, pair exchange.Pair) []domain.QuoteResult {
	byID := make(map[string]domain.Outcome, len(outcomes))
	for _, o := range outcomes {
		byID[o.ExchangeID] = o
	}

	results := make([]domain.QuoteResult, len(descriptors))
	for i, d := range descriptors {
		o, ok := byID[d.ID]
		if !ok {
			o = domain.Outcome{
				ExchangeID: d.ID,
				Err:        apperror.New(apperror.CodeTransportError, apperror.WithContext(d.ID), apperror.WithMessage("no fetch outcome")),
			}
		}
		results[i] = evaluate(o, d, pair)
	}
	return results
}

// AggregateOne evaluates a single exchange and returns the advisory note
// when the pair is not quoted there.
func AggregateOne(o domain.Outcome, d *exchange.Descriptor, pair exchange.Pair) (domain.QuoteResult, string) {
	r := evaluate(o, d, pair)
	if r.Status == domain.StatusUnsupported {
		return r, d.UnsupportedNote()
	}
	return r, ""
}

// evaluate applies pair coverage first, then the transport outcome, then
// extraction. A currency missing from the code map counts as coverage.
func evaluate(o domain.Outcome, d *exchange.Descriptor, pair exchange.Pair) domain.QuoteResult {
	if !d.Supports(pair) {
		return domain.Unsupported(d.ID, d.DisplayName)
	}
	if apperror.HasCode(o.Err, apperror.CodeUnsupportedCurrency) {
		return domain.Unsupported(d.ID, d.DisplayName)
	}
	if o.Failed() {
		return domain.Failed(d.ID, d.DisplayName, apperror.Wrap(o.Err, apperror.CodeTransportError, d.ID))
	}

	quote, err := exchange.ExtractBidAsk(o.Body, d)
	if err != nil {
		return domain.Failed(d.ID, d.DisplayName, err)
	}
	return domain.Fulfilled(d.ID, d.DisplayName, quote.Bid, quote.Ask)
}

// UnsupportedNotes returns the advisory notes for Unsupported results.
func UnsupportedNotes(results []domain.QuoteResult, registry *exchange.Registry) []string {
	var notes []string
	for _, r := range results {
		if r.Status != domain.StatusUnsupported {
			continue
		}
		if d, ok := registry.Get(r.ExchangeID); ok {
			if note := d.UnsupportedNote(); note != "" {
				notes = append(notes, note)
			}
		}
	}
	return notes
}
