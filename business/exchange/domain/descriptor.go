package domain

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fd1az/bestprice/internal/asset"
)

// Endpoint placeholders substituted by BuildRequestTarget.
const (
	PlaceholderCrypto = "<crypto>"
	PlaceholderFiat   = "<fiat>"
)

// RequestOptions holds per-exchange transport overrides.
type RequestOptions struct {
	Method string // defaults to GET
}

// Descriptor is the static configuration of one exchange.
// Descriptors are not mutated once registered.
type Descriptor struct {
	ID          string
	DisplayName string
	FeeRate     decimal.Decimal // taker fee, fraction in [0, 1)

	// CodeMap maps lowercase asset codes to the exchange's spelling.
	// Nil for exchanges with a fixed endpoint.
	CodeMap map[string]string

	// EndpointTemplate contains <crypto> and <fiat> when CodeMap is set,
	// otherwise it is the fixed endpoint.
	EndpointTemplate string
	RequestOptions   RequestOptions

	BidExtractor Extractor
	AskExtractor Extractor

	// FixedPair restricts the exchange to one pair. Nil means unrestricted.
	FixedPair *Pair
}

// Method returns the HTTP method used to query the exchange.
func (d *Descriptor) Method() string {
	if d.RequestOptions.Method == "" {
		return http.MethodGet
	}
	return d.RequestOptions.Method
}

// Supports reports whether the exchange quotes pair.
func (d *Descriptor) Supports(pair Pair) bool {
	return d.FixedPair == nil || d.FixedPair.Equals(pair)
}

// FeePercent formats the fee as a percentage (e.g., "0.10%").
func (d *Descriptor) FeePercent() string {
	return d.FeeRate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// Label returns the display name with its fee (e.g., "Binance (fee: 0.10%)").
func (d *Descriptor) Label() string {
	return fmt.Sprintf("%s (fee: %s)", d.DisplayName, d.FeePercent())
}

// UnsupportedNote returns the advisory shown when pair is outside FixedPair.
func (d *Descriptor) UnsupportedNote() string {
	if d.FixedPair == nil {
		return ""
	}
	return fmt.Sprintf("Note: the exchange %s has quotation for %s only", d.DisplayName, d.FixedPair.Compact())
}

// WithFee returns a copy of d with a different fee rate.
func (d *Descriptor) WithFee(fee decimal.Decimal) *Descriptor {
	c := *d
	c.FeeRate = fee
	return &c
}

// validate checks the descriptor against the set of supported assets.
func (d *Descriptor) validate(assets *asset.Registry) error {
	if d.ID == "" {
		return fmt.Errorf("empty id")
	}
	if d.ID != strings.ToLower(d.ID) {
		return fmt.Errorf("id %q must be lowercase", d.ID)
	}
	if d.DisplayName == "" {
		return fmt.Errorf("%s: empty display name", d.ID)
	}
	if d.FeeRate.IsNegative() || d.FeeRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("%s: fee rate %s outside [0, 1)", d.ID, d.FeeRate)
	}
	if d.EndpointTemplate == "" {
		return fmt.Errorf("%s: empty endpoint", d.ID)
	}
	if d.BidExtractor == nil || d.AskExtractor == nil {
		return fmt.Errorf("%s: bid and ask extractors are required", d.ID)
	}

	hasPlaceholders := strings.Contains(d.EndpointTemplate, PlaceholderCrypto) &&
		strings.Contains(d.EndpointTemplate, PlaceholderFiat)

	if d.CodeMap == nil {
		if d.FixedPair == nil {
			return fmt.Errorf("%s: a fixed endpoint needs a fixed pair", d.ID)
		}
		if strings.Contains(d.EndpointTemplate, "<") {
			return fmt.Errorf("%s: fixed endpoint contains placeholders", d.ID)
		}
		return nil
	}

	if !hasPlaceholders {
		return fmt.Errorf("%s: endpoint template must contain %s and %s", d.ID, PlaceholderCrypto, PlaceholderFiat)
	}
	for _, a := range assets.All() {
		if code, ok := d.CodeMap[a.Code()]; !ok || code == "" {
			return fmt.Errorf("%s: code map is missing %s", d.ID, a.Symbol())
		}
	}
	return nil
}
