package asset

import "sync"

// Cryptocurrencies quoted by the supported exchanges.
var (
	BTC = NewAsset("BTC", "Bitcoin", KindCrypto)
	ETH = NewAsset("ETH", "Ethereum", KindCrypto)
	XRP = NewAsset("XRP", "Ripple", KindCrypto)
	LTC = NewAsset("LTC", "Litecoin", KindCrypto)
)

// Fiat currencies.
var (
	EUR = NewAsset("EUR", "Euro", KindFiat)
	USD = NewAsset("USD", "US Dollar", KindFiat)
)

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the registry of well-known assets.
// The order here is the order offered to users.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, a := range []*Asset{BTC, ETH, XRP, LTC, EUR, USD} {
			defaultRegistry.Register(a)
		}
	})
	return defaultRegistry
}
