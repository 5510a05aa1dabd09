package domain

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/fd1az/bestprice/internal/apperror"
)

// number matches a plain signed decimal. Exponent notation never matches.
const number = `(-?\d+(?:\.\d+)?)`

// numberEnd rejects a partial match such as the "1" of "1e5" or "1.5x".
const numberEnd = `(?:[^0-9A-Za-z_.]|$)`

// Extractor pulls one decimal value out of a raw response body.
type Extractor interface {
	Extract(body []byte) (decimal.Decimal, error)
}

// PatternExtractor applies a regular expression with exactly one capture
// group. The first match in the body wins.
type PatternExtractor struct {
	field string
	re    *regexp.Regexp
}

// NewPatternExtractor compiles pattern for the named field.
func NewPatternExtractor(field, pattern string) (*PatternExtractor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile %s pattern: %w", field, err)
	}
	if re.NumSubexp() != 1 {
		return nil, fmt.Errorf("%s pattern must have exactly one capture group, has %d", field, re.NumSubexp())
	}
	return &PatternExtractor{field: field, re: re}, nil
}

// MustPattern is like NewPatternExtractor but panics on error.
func MustPattern(field, pattern string) *PatternExtractor {
	p, err := NewPatternExtractor(field, pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// KeyExtractor matches a JSON-like scalar under key, quoted or not:
// "key":"1.5", "key": "1.5" and "key":1.5 all match.
func KeyExtractor(key string) *PatternExtractor {
	return MustPattern(key, `"`+regexp.QuoteMeta(key)+`"\s*:\s*"?`+number+`"?`)
}

// ArrayHeadExtractor matches the first element of an array under key:
// "key":["1.5", ...].
func ArrayHeadExtractor(key string) *PatternExtractor {
	return MustPattern(key, `"`+regexp.QuoteMeta(key)+`"\s*:\s*\[\s*"?`+number+`"?`)
}

// Field returns the name used in error messages.
func (p *PatternExtractor) Field() string {
	return p.field
}

// Extract returns the first captured decimal.
func (p *PatternExtractor) Extract(body []byte) (decimal.Decimal, error) {
	m := p.re.FindSubmatch(body)
	if m == nil {
		return decimal.Zero, apperror.New(apperror.CodeExtractionFailure,
			apperror.WithContext(p.field),
			apperror.WithMessage(fmt.Sprintf("no %s value in response", p.field)))
	}

	v, err := decimal.NewFromString(string(m[1]))
	if err != nil {
		return decimal.Zero, apperror.New(apperror.CodeExtractionFailure,
			apperror.WithContext(p.field),
			apperror.WithCause(err),
			apperror.WithMessage(fmt.Sprintf("%s value %q is not a decimal", p.field, m[1])))
	}
	return v, nil
}

// BidAsk is a raw quote as published by one exchange.
type BidAsk struct {
	Bid decimal.Decimal
	Ask decimal.Decimal
}

// ExtractBidAsk runs the descriptor's bid and ask extractors independently.
// Both must yield a positive decimal.
func ExtractBidAsk(body []byte, d *Descriptor) (BidAsk, error) {
	bid, err := extractPositive(d.BidExtractor, body, d.ID, "bid")
	if err != nil {
		return BidAsk{}, err
	}
	ask, err := extractPositive(d.AskExtractor, body, d.ID, "ask")
	if err != nil {
		return BidAsk{}, err
	}
	return BidAsk{Bid: bid, Ask: ask}, nil
}

func extractPositive(e Extractor, body []byte, exchangeID, side string) (decimal.Decimal, error) {
	if e == nil {
		return decimal.Zero, apperror.New(apperror.CodeExtractionFailure,
			apperror.WithContext(exchangeID),
			apperror.WithMessage("no "+side+" extractor"))
	}
	v, err := e.Extract(body)
	if err != nil {
		return decimal.Zero, apperror.Wrap(err, apperror.CodeExtractionFailure, exchangeID)
	}
	if !v.IsPositive() {
		return decimal.Zero, apperror.New(apperror.CodeExtractionFailure,
			apperror.WithContext(exchangeID),
			apperror.WithMessage(fmt.Sprintf("%s must be positive, got %s", side, v)))
	}
	return v, nil
}
