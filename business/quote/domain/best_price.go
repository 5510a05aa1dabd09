package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fd1az/bestprice/internal/apperror"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// FeeSource resolves the taker fee of an exchange.
type FeeSource interface {
	FeeRate(exchangeID string) decimal.Decimal
}

// Candidate is the winning exchange on one side.
type Candidate struct {
	ExchangeID  string
	DisplayName string
	FeeRate     decimal.Decimal
	Price       decimal.Decimal // as quoted
	Effective   decimal.Decimal // after fee
}

// Label returns the name with its fee (e.g., "Kraken (fee: 0.26%)").
func (c Candidate) Label() string {
	return fmt.Sprintf("%s (fee: %s%%)", c.DisplayName, c.FeeRate.Mul(hundred).StringFixed(2))
}

// BestPrice is the fee-adjusted summary of an all-exchange run.
type BestPrice struct {
	BestBid       Candidate
	BestAsk       Candidate
	ProfitPercent decimal.Decimal
}

// EffectiveBid is what selling one unit yields after the fee.
func EffectiveBid(bid, fee decimal.Decimal) decimal.Decimal {
	return bid.Mul(one.Sub(fee))
}

// EffectiveAsk is what buying one unit costs including the fee.
func EffectiveAsk(ask, fee decimal.Decimal) decimal.Decimal {
	return ask.Mul(one.Add(fee))
}

// ErrNoCandidate returns the error reported when no result is Fulfilled.
func ErrNoCandidate() error {
	return apperror.New(apperror.CodeNoCandidate)
}

// SelectBestPrice picks the highest effective bid and the lowest effective
// ask among Fulfilled results. Ties keep the earlier result.
func SelectBestPrice(results []QuoteResult, fees FeeSource) (*BestPrice, error) {
	var (
		bestBid, bestAsk *Candidate
	)

	for _, r := range results {
		if !r.IsFulfilled() {
			continue
		}
		fee := fees.FeeRate(r.ExchangeID)

		effBid := EffectiveBid(r.Bid, fee)
		if bestBid == nil || effBid.GreaterThan(bestBid.Effective) {
			bestBid = &Candidate{ExchangeID: r.ExchangeID, DisplayName: r.DisplayName, FeeRate: fee, Price: r.Bid, Effective: effBid}
		}

		effAsk := EffectiveAsk(r.Ask, fee)
		if bestAsk == nil || effAsk.LessThan(bestAsk.Effective) {
			bestAsk = &Candidate{ExchangeID: r.ExchangeID, DisplayName: r.DisplayName, FeeRate: fee, Price: r.Ask, Effective: effAsk}
		}
	}

	if bestBid == nil || bestAsk == nil {
		return nil, ErrNoCandidate()
	}

	return &BestPrice{
		BestBid:       *bestBid,
		BestAsk:       *bestAsk,
		ProfitPercent: ProfitPercent(bestBid.Effective, bestAsk.Effective),
	}, nil
}

// ProfitPercent is (bid/ask - 1) * 100. A non-positive ask yields zero.
func ProfitPercent(effectiveBid, effectiveAsk decimal.Decimal) decimal.Decimal {
	if !effectiveAsk.IsPositive() {
		return decimal.Zero
	}
	return effectiveBid.Div(effectiveAsk).Sub(one).Mul(hundred)
}
