package app

import (
	"context"
	"testing"

	exchange "github.com/fd1az/bestprice/business/exchange/domain"
	"github.com/fd1az/bestprice/business/quote/domain"
	"github.com/fd1az/bestprice/internal/apperror"
	"github.com/fd1az/bestprice/internal/asset"
)

func newTestService(t *testing.T, transport Transport) *QuoteService {
	t.Helper()
	svc, err := NewQuoteService(exchange.DefaultRegistry(), NewFetcher(transport), &mockLogger{})
	if err != nil {
		t.Fatalf("NewQuoteService: %v", err)
	}
	return svc
}

func TestQuoteService_RunAll(t *testing.T) {
	transport := newFakeTransport()
	// Kraken has the best bid after fees, Binance the best ask.
	transport.bodies[exchange.Kraken] = `{"result":{"X":{"a":["103","1","1"],"b":["102","1","1"]}}}`
	transport.errs[exchange.Coinbase] = errUnreachable

	svc := newTestService(t, transport)
	q := domain.Query{Pair: exchange.MustPair(asset.BTC, asset.EUR), Scope: domain.ScopeAll}

	run, err := svc.Run(context.Background(), q)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(run.Results) != 6 {
		t.Fatalf("got %d results", len(run.Results))
	}
	if run.Best == nil {
		t.Fatal("expected best price")
	}
	if run.Best.BestBid.ExchangeID != exchange.Kraken {
		t.Errorf("best bid = %s, want kraken", run.Best.BestBid.ExchangeID)
	}
	if run.Best.BestAsk.ExchangeID != exchange.Binance {
		t.Errorf("best ask = %s, want binance", run.Best.BestAsk.ExchangeID)
	}
	if run.Err != nil {
		t.Errorf("unexpected run error: %v", run.Err)
	}

	counts := run.Counts()
	if counts[domain.StatusFailed] != 1 || counts[domain.StatusFulfilled] != 5 {
		t.Errorf("counts = %v", counts)
	}
	if run.FinishedAt.Before(run.StartedAt) {
		t.Error("finish before start")
	}
}

func TestQuoteService_RunAll_NoCandidate(t *testing.T) {
	transport := newFakeTransport()
	for id := range okBodies {
		transport.errs[id] = errUnreachable
	}

	svc := newTestService(t, transport)
	run, err := svc.Run(context.Background(), domain.Query{Pair: exchange.MustPair(asset.XRP, asset.USD), Scope: domain.ScopeAll})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !run.NoCandidate() || run.Best != nil {
		t.Error("expected no candidate")
	}
	if apperror.GetCode(run.Err) != apperror.CodeNoCandidate {
		t.Errorf("code = %s, want %s", apperror.GetCode(run.Err), apperror.CodeNoCandidate)
	}
	if len(run.Notes) != 1 {
		t.Errorf("notes = %v, want the paymium note", run.Notes)
	}
}

func TestQuoteService_RunSingle(t *testing.T) {
	transport := newFakeTransport()
	svc := newTestService(t, transport)

	run, err := svc.Run(context.Background(), domain.Query{Pair: exchange.MustPair(asset.BTC, asset.EUR), Scope: "bitbay"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if transport.callCount() != 1 {
		t.Errorf("issued %d requests, want 1", transport.callCount())
	}
	if len(run.Results) != 1 || run.Results[0].Status != domain.StatusFulfilled {
		t.Errorf("results = %+v", run.Results)
	}
	if run.Best != nil {
		t.Error("single scope must not select a best price")
	}
}

func TestQuoteService_RunSingle_FailureSurfaces(t *testing.T) {
	transport := newFakeTransport()
	transport.errs[exchange.Bitstamp] = errUnreachable
	svc := newTestService(t, transport)

	run, err := svc.Run(context.Background(), domain.Query{Pair: exchange.MustPair(asset.BTC, asset.EUR), Scope: "bitstamp"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if apperror.GetCode(run.Err) != apperror.CodeTransportError {
		t.Errorf("run error code = %s", apperror.GetCode(run.Err))
	}
	if run.Rows()[0].Bid != domain.NotAvailable {
		t.Errorf("bid = %s", run.Rows()[0].Bid)
	}
}

func TestQuoteService_RunSingle_UnsupportedNote(t *testing.T) {
	svc := newTestService(t, newFakeTransport())

	run, err := svc.Run(context.Background(), domain.Query{Pair: exchange.MustPair(asset.ETH, asset.EUR), Scope: "paymium"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.Err != nil {
		t.Errorf("unsupported is not a failure, got %v", run.Err)
	}
	if len(run.Notes) != 1 {
		t.Errorf("notes = %v", run.Notes)
	}
}

func TestQuoteService_UnknownScope(t *testing.T) {
	svc := newTestService(t, newFakeTransport())

	_, err := svc.Run(context.Background(), domain.Query{Pair: exchange.MustPair(asset.BTC, asset.EUR), Scope: "mtgox"})
	if apperror.GetCode(err) != apperror.CodeExchangeNotFound {
		t.Errorf("code = %s, want %s", apperror.GetCode(err), apperror.CodeExchangeNotFound)
	}
}

func TestQuoteService_FreshRunEachTime(t *testing.T) {
	svc := newTestService(t, newFakeTransport())
	q := domain.Query{Pair: exchange.MustPair(asset.BTC, asset.EUR), Scope: domain.ScopeAll}

	a, _ := svc.Run(context.Background(), q)
	b, _ := svc.Run(context.Background(), q)
	if a.ID == b.ID {
		t.Error("runs share an id")
	}
	a.Results[0].Status = domain.StatusFailed
	if b.Results[0].Status != domain.StatusFulfilled {
		t.Error("runs share result storage")
	}
}
