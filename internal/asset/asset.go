package asset

import "strings"

// Kind classifies an asset as a cryptocurrency or a fiat currency.
type Kind int

const (
	KindCrypto Kind = iota
	KindFiat
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindCrypto:
		return "crypto"
	case KindFiat:
		return "fiat"
	default:
		return "unknown"
	}
}

// Asset represents the metadata of a crypto or fiat currency.
// Identity is the lowercase symbol; exchanges spell it in their own way.
type Asset struct {
	symbol string
	name   string
	kind   Kind
}

// NewAsset creates a new Asset. The symbol is stored uppercase.
func NewAsset(symbol, name string, kind Kind) *Asset {
	if symbol == "" {
		panic("asset: empty symbol")
	}

	return &Asset{
		symbol: strings.ToUpper(symbol),
		name:   name,
		kind:   kind,
	}
}

// Symbol returns the ticker symbol (e.g., "BTC", "EUR").
func (a *Asset) Symbol() string {
	return a.symbol
}

// Code returns the lowercase key used by exchange code maps (e.g., "btc").
func (a *Asset) Code() string {
	return strings.ToLower(a.symbol)
}

// Name returns the human-readable name (e.g., "Bitcoin", "Euro").
func (a *Asset) Name() string {
	if a.name == "" {
		return a.symbol
	}
	return a.name
}

// Kind returns whether the asset is crypto or fiat.
func (a *Asset) Kind() Kind {
	return a.kind
}

// IsFiat returns true if this is a fiat currency.
func (a *Asset) IsFiat() bool {
	return a.kind == KindFiat
}

// String returns a human-readable representation.
func (a *Asset) String() string {
	return a.symbol
}

// Equals compares two Assets by symbol.
func (a *Asset) Equals(other *Asset) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.symbol == other.symbol
}
