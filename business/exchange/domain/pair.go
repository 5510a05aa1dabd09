// Package domain contains the core domain types for the exchange context.
package domain

import (
	"fmt"

	"github.com/fd1az/bestprice/internal/asset"
)

// Pair represents a crypto/fiat quotation pair.
type Pair struct {
	Crypto *asset.Asset // e.g., BTC
	Fiat   *asset.Asset // e.g., EUR
}

// NewPair creates a new pair. Both assets must be non-nil and of the right kind.
func NewPair(crypto, fiat *asset.Asset) (Pair, error) {
	if crypto == nil || fiat == nil {
		return Pair{}, fmt.Errorf("exchange: nil asset in pair")
	}
	if crypto.Kind() != asset.KindCrypto {
		return Pair{}, fmt.Errorf("exchange: %s is not a cryptocurrency", crypto)
	}
	if fiat.Kind() != asset.KindFiat {
		return Pair{}, fmt.Errorf("exchange: %s is not a fiat currency", fiat)
	}
	return Pair{Crypto: crypto, Fiat: fiat}, nil
}

// MustPair is like NewPair but panics on error.
func MustPair(crypto, fiat *asset.Asset) Pair {
	p, err := NewPair(crypto, fiat)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePair resolves crypto and fiat symbols against the asset registry.
func ParsePair(assets *asset.Registry, crypto, fiat string) (Pair, error) {
	c, err := assets.Parse(crypto, asset.KindCrypto)
	if err != nil {
		return Pair{}, err
	}
	f, err := assets.Parse(fiat, asset.KindFiat)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Crypto: c, Fiat: f}, nil
}

// String returns the pair symbol (e.g., "BTC/EUR").
func (p Pair) String() string {
	return p.Crypto.Symbol() + "/" + p.Fiat.Symbol()
}

// Compact returns the concatenated symbol (e.g., "BTCEUR").
func (p Pair) Compact() string {
	return p.Crypto.Symbol() + p.Fiat.Symbol()
}

// Caption returns the table caption (e.g., "BTC Price (EUR)").
func (p Pair) Caption() string {
	return fmt.Sprintf("%s Price (%s)", p.Crypto.Symbol(), p.Fiat.Symbol())
}

// Equals compares both legs of the pair.
func (p Pair) Equals(other Pair) bool {
	return p.Crypto.Equals(other.Crypto) && p.Fiat.Equals(other.Fiat)
}
