package domain

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/bestprice/internal/apperror"
)

// Trimmed ticker bodies in each exchange's published shape.
var sampleBodies = map[string]string{
	Binance:  `{"symbol":"BTCEUR","bidPrice":"26950.12000000","bidQty":"0.1","askPrice":"26951.34000000","askQty":"0.2"}`,
	Bitbay:   `{"status":"Ok","ticker":{"market":{"code":"BTC-EUR"},"time":"1","highestBid":"26900","lowestAsk":"26990.5","rate":"26950"}}`,
	Bitstamp: `{"high": "27500", "last": "26960", "bid": "26955", "vwap": "27000", "ask": "26961", "open": "27100"}`,
	Coinbase: `{"ask":"26962.1","bid":"26958.9","volume":"1200.5","trade_id":1}`,
	Kraken:   `{"error":[],"result":{"XXBTZEUR":{"a":["26960.10000","1","1.000"],"b":["26959.90000","2","2.000"],"c":["26960.0","0.1"]}}}`,
	Paymium:  `{"high":27400.0,"low":26800.0,"volume":12.3,"bid":26940.5,"ask":26970.0,"price":26950.0}`,
}

func TestExtractBidAsk_DefaultCatalog(t *testing.T) {
	want := map[string][2]string{
		Binance:  {"26950.12", "26951.34"},
		Bitbay:   {"26900", "26990.5"},
		Bitstamp: {"26955", "26961"},
		Coinbase: {"26958.9", "26962.1"},
		Kraken:   {"26959.9", "26960.1"},
		Paymium:  {"26940.5", "26970"},
	}

	for _, d := range DefaultRegistry().All() {
		t.Run(d.ID, func(t *testing.T) {
			got, err := ExtractBidAsk([]byte(sampleBodies[d.ID]), d)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			wantBid := decimal.RequireFromString(want[d.ID][0])
			wantAsk := decimal.RequireFromString(want[d.ID][1])
			if !got.Bid.Equal(wantBid) {
				t.Errorf("bid = %s, want %s", got.Bid, wantBid)
			}
			if !got.Ask.Equal(wantAsk) {
				t.Errorf("ask = %s, want %s", got.Ask, wantAsk)
			}
		})
	}
}

func TestExtractBidAsk_Failures(t *testing.T) {
	d, _ := DefaultRegistry().Get(Coinbase)

	tests := []struct {
		name string
		body string
	}{
		{"api error body", `{"message":"NotFound"}`},
		{"empty body", ``},
		{"bid only", `{"bid":"100"}`},
		{"ask only", `{"ask":"100"}`},
		{"zero bid", `{"bid":"0","ask":"100"}`},
		{"negative ask", `{"bid":"100","ask":"-1"}`},
		{"html", `<html><body>502 Bad Gateway</body></html>`},
		{"exponent bid", `{"bid":"1e20000000","ask":"100"}`},
		{"exponent ask", `{"bid":"100","ask":1E-20000000}`},
		{"fraction with exponent", `{"bid":"1.5e3","ask":"100"}`},
		{"trailing garbage", `{"bid":"100abc","ask":"101"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractBidAsk([]byte(tt.body), d)
			if err == nil {
				t.Fatal("expected error")
			}
			if apperror.GetCode(err) != apperror.CodeExtractionFailure {
				t.Errorf("code = %s, want %s", apperror.GetCode(err), apperror.CodeExtractionFailure)
			}
		})
	}
}

func TestArrayHeadExtractor_RejectsExponent(t *testing.T) {
	e := ArrayHeadExtractor("b")
	if _, err := e.Extract([]byte(`{"b":["2e9999999","1"]}`)); err == nil {
		t.Error("expected exponent literal to be rejected")
	}

	got, err := e.Extract([]byte(`{"b":[ 26959.9 ,"1"]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("26959.9")) {
		t.Errorf("got %s, want 26959.9", got)
	}
}

func TestKeyExtractor_DoesNotMatchLongerKeys(t *testing.T) {
	e := KeyExtractor("bid")
	_, err := e.Extract([]byte(`{"bidPrice":"1.5","bidQty":"2"}`))
	if err == nil {
		t.Error(`expected "bid" not to match "bidPrice"`)
	}
}

func TestKeyExtractor_FirstMatchWins(t *testing.T) {
	e := KeyExtractor("bid")
	got, err := e.Extract([]byte(`{"bid":"1.5","nested":{"bid":"9"}}`))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("got %s, want 1.5", got)
	}
}

func TestNewPatternExtractor_RequiresOneGroup(t *testing.T) {
	if _, err := NewPatternExtractor("bid", `"bid":\d+`); err == nil {
		t.Error("expected error for pattern without capture group")
	}
	if _, err := NewPatternExtractor("bid", `(a)(b)`); err == nil {
		t.Error("expected error for pattern with two groups")
	}
	if _, err := NewPatternExtractor("bid", `(`); err == nil {
		t.Error("expected error for invalid pattern")
	}
}
