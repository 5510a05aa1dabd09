package domain

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/fd1az/bestprice/internal/asset"
)

// Exchange ids of the built-in catalog.
const (
	Binance  = "binance"
	Bitbay   = "bitbay"
	Bitstamp = "bitstamp"
	Coinbase = "coinbase"
	Kraken   = "kraken"
	Paymium  = "paymium"
)

func upperCodes() map[string]string {
	return map[string]string{
		"btc": "BTC", "eth": "ETH", "xrp": "XRP", "ltc": "LTC",
		"eur": "EUR", "usd": "USD",
	}
}

func lowerCodes() map[string]string {
	return map[string]string{
		"btc": "btc", "eth": "eth", "xrp": "xrp", "ltc": "ltc",
		"eur": "eur", "usd": "usd",
	}
}

// DefaultDescriptors returns the built-in exchange catalog in display order.
// Each call returns fresh descriptors.
func DefaultDescriptors() []*Descriptor {
	binanceCodes := upperCodes()
	// Binance lists no USD book and delisted BUSD; USDT is the dollar market.
	binanceCodes["usd"] = "USDT"

	btcEUR := MustPair(asset.BTC, asset.EUR)

	return []*Descriptor{
		{
			ID:               Binance,
			DisplayName:      "Binance",
			FeeRate:          decimal.RequireFromString("0.001"),
			CodeMap:          binanceCodes,
			EndpointTemplate: "https://api.binance.com/api/v3/ticker/bookTicker?symbol=<crypto><fiat>",
			BidExtractor:     KeyExtractor("bidPrice"),
			AskExtractor:     KeyExtractor("askPrice"),
		},
		{
			ID:               Bitbay,
			DisplayName:      "Bitbay",
			FeeRate:          decimal.RequireFromString("0.0041"),
			CodeMap:          upperCodes(),
			EndpointTemplate: "https://api.bitbay.net/rest/trading/ticker/<crypto>-<fiat>",
			BidExtractor:     KeyExtractor("highestBid"),
			AskExtractor:     KeyExtractor("lowestAsk"),
		},
		{
			ID:               Bitstamp,
			DisplayName:      "Bitstamp",
			FeeRate:          decimal.RequireFromString("0.005"),
			CodeMap:          lowerCodes(),
			EndpointTemplate: "https://www.bitstamp.net/api/v2/ticker/<crypto><fiat>",
			RequestOptions:   RequestOptions{Method: http.MethodPost},
			BidExtractor:     KeyExtractor("bid"),
			AskExtractor:     KeyExtractor("ask"),
		},
		{
			ID:               Coinbase,
			DisplayName:      "Coinbase",
			FeeRate:          decimal.RequireFromString("0.005"),
			CodeMap:          upperCodes(),
			EndpointTemplate: "https://api.pro.coinbase.com/products/<crypto>-<fiat>/ticker",
			BidExtractor:     KeyExtractor("bid"),
			AskExtractor:     KeyExtractor("ask"),
		},
		{
			ID:               Kraken,
			DisplayName:      "Kraken",
			FeeRate:          decimal.RequireFromString("0.0026"),
			CodeMap:          upperCodes(),
			EndpointTemplate: "https://api.kraken.com/0/public/Ticker?pair=<crypto><fiat>",
			BidExtractor:     ArrayHeadExtractor("b"),
			AskExtractor:     ArrayHeadExtractor("a"),
		},
		{
			ID:               Paymium,
			DisplayName:      "Paymium",
			FeeRate:          decimal.RequireFromString("0.005"),
			EndpointTemplate: "https://paymium.com/api/v1/data/eur/ticker",
			BidExtractor:     KeyExtractor("bid"),
			AskExtractor:     KeyExtractor("ask"),
			FixedPair:        &btcEUR,
		},
	}
}

// DefaultRegistry builds the registry of built-in exchanges over the
// well-known assets.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(asset.DefaultRegistry(), DefaultDescriptors()...)
	if err != nil {
		panic("exchange: invalid built-in catalog: " + err.Error())
	}
	return r
}
