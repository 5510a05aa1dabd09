package infra

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	exchange "github.com/fd1az/bestprice/business/exchange/domain"
	"github.com/fd1az/bestprice/business/quote/domain"
	"github.com/fd1az/bestprice/internal/apperror"
	"github.com/fd1az/bestprice/internal/asset"
)

func newRun(scope domain.Scope, results ...domain.QuoteResult) *domain.Run {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	run := domain.NewRun(domain.Query{Pair: exchange.MustPair(asset.BTC, asset.EUR), Scope: scope}, start)
	run.Finish(results, start.Add(250*time.Millisecond))
	return run
}

func TestConsoleReporter_AllScope(t *testing.T) {
	run := newRun(domain.ScopeAll,
		domain.Fulfilled("binance", "Binance", decimal.RequireFromString("100"), decimal.RequireFromString("101")),
		domain.Failed("kraken", "Kraken", errors.New("timeout")),
		domain.Unsupported("paymium", "Paymium"),
	)
	run.Notes = []string{"Note: the exchange Paymium has quotation for BTCEUR only"}
	best, err := domain.SelectBestPrice(run.Results, exchange.DefaultRegistry())
	if err != nil {
		t.Fatal(err)
	}
	run.Best = best

	var buf bytes.Buffer
	NewConsoleReporter(&buf).Report(run)
	out := buf.String()

	for _, want := range []string{
		"BTC Price (EUR)",
		"Binance",
		"N/A",
		"Kraken: timeout",
		"Note: the exchange Paymium has quotation for BTCEUR only",
		"Best Price",
		"Binance (fee: 0.10%)",
		"99.90",
		"101.10",
		"Profit",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConsoleReporter_NoCandidate(t *testing.T) {
	run := newRun(domain.ScopeAll, domain.Failed("kraken", "Kraken", errors.New("down")))
	run.Err = domain.ErrNoCandidate()

	var buf bytes.Buffer
	NewConsoleReporter(&buf).Report(run)

	if !strings.Contains(buf.String(), "no exchange returned a usable quote") {
		t.Errorf("output:\n%s", buf.String())
	}
}

func TestConsoleReporter_SingleScopeError(t *testing.T) {
	run := newRun("kraken", domain.Failed("kraken", "Kraken", errors.New("down")))
	run.Err = apperror.New(apperror.CodeTransportError, apperror.WithContext("kraken"))

	var buf bytes.Buffer
	NewConsoleReporter(&buf).Report(run)
	out := buf.String()

	if !strings.Contains(out, "Error: TRANSPORT_ERROR") {
		t.Errorf("output missing error line:\n%s", out)
	}
	if strings.Contains(out, "Best Price") {
		t.Error("single scope must not print a best price")
	}
}
