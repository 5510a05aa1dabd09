package asset

import "testing"

func TestDefaultRegistry_Order(t *testing.T) {
	r := DefaultRegistry()

	wantCrypto := []string{"BTC", "ETH", "XRP", "LTC"}
	crypto := r.Crypto()
	if len(crypto) != len(wantCrypto) {
		t.Fatalf("got %d crypto assets, want %d", len(crypto), len(wantCrypto))
	}
	for i, a := range crypto {
		if a.Symbol() != wantCrypto[i] {
			t.Errorf("crypto[%d] = %s, want %s", i, a.Symbol(), wantCrypto[i])
		}
	}

	fiat := r.Fiat()
	if len(fiat) != 2 || fiat[0] != EUR || fiat[1] != USD {
		t.Errorf("fiat = %v, want [EUR USD]", fiat)
	}
}

func TestRegistry_Parse(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		name    string
		symbol  string
		kind    Kind
		want    *Asset
		wantErr bool
	}{
		{"lowercase crypto", "btc", KindCrypto, BTC, false},
		{"padded fiat", " eur ", KindFiat, EUR, false},
		{"fiat as crypto", "usd", KindCrypto, nil, true},
		{"unknown", "doge", KindCrypto, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Parse(tt.symbol, tt.kind)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equals(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(NewAsset("btc", "Bitcoin", KindCrypto))

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate symbol")
		}
	}()
	r.Register(NewAsset("BTC", "Bitcoin again", KindCrypto))
}

func TestAsset_Code(t *testing.T) {
	if BTC.Code() != "btc" {
		t.Errorf("Code = %q, want btc", BTC.Code())
	}
	if !USD.IsFiat() || BTC.IsFiat() {
		t.Error("IsFiat mismatch")
	}
}
