package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	exchange "github.com/fd1az/bestprice/business/exchange/domain"
	"github.com/fd1az/bestprice/business/quote/domain"
	"github.com/fd1az/bestprice/internal/apperror"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...any)              {}
func (nopLogger) Info(ctx context.Context, msg string, args ...any)               {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)               {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any)              {}
func (nopLogger) Debugc(ctx context.Context, caller int, msg string, args ...any) {}
func (nopLogger) Infoc(ctx context.Context, caller int, msg string, args ...any)  {}
func (nopLogger) Warnc(ctx context.Context, caller int, msg string, args ...any)  {}
func (nopLogger) Errorc(ctx context.Context, caller int, msg string, args ...any) {}

type fakeRunner struct {
	registry *exchange.Registry
	queries  []domain.Query
	run      func(q domain.Query) (*domain.Run, error)
}

func (f *fakeRunner) Registry() *exchange.Registry { return f.registry }

func (f *fakeRunner) Run(ctx context.Context, q domain.Query) (*domain.Run, error) {
	f.queries = append(f.queries, q)
	return f.run(q)
}

func allRun(q domain.Query) (*domain.Run, error) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	run := domain.NewRun(q, start)
	run.Finish([]domain.QuoteResult{
		domain.Fulfilled(exchange.Kraken, "Kraken", decimal.RequireFromString("100"), decimal.RequireFromString("101")),
		domain.Unsupported(exchange.Paymium, "Paymium"),
	}, start.Add(250*time.Millisecond))
	run.Notes = []string{"Note: the exchange Paymium has quotation for BTCEUR only"}
	run.Best = &domain.BestPrice{
		BestBid: domain.Candidate{
			ExchangeID: exchange.Kraken, DisplayName: "Kraken",
			FeeRate: decimal.RequireFromString("0.0026"), Price: decimal.RequireFromString("100"),
			Effective: decimal.RequireFromString("99.74"),
		},
		BestAsk: domain.Candidate{
			ExchangeID: exchange.Kraken, DisplayName: "Kraken",
			FeeRate: decimal.RequireFromString("0.0026"), Price: decimal.RequireFromString("101"),
			Effective: decimal.RequireFromString("101.2626"),
		},
		ProfitPercent: decimal.RequireFromString("-1.5033"),
	}
	return run, nil
}

func newTestRouter(runner *fakeRunner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(runner, Defaults{Crypto: "btc", Fiat: "eur", Scope: "all"}, nopLogger{})
	return NewRouter(h, nopLogger{})
}

func do(t *testing.T, router *gin.Engine, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set(requestIDHeader, "req-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, w.Body.String())
	}
	return w, body
}

func TestGetQuotes_AllExchanges(t *testing.T) {
	runner := &fakeRunner{registry: exchange.DefaultRegistry(), run: allRun}
	router := newTestRouter(runner)

	w, body := do(t, router, "/v1/quotes?crypto=BTC&fiat=eur")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	if len(runner.queries) != 1 {
		t.Fatalf("service called %d times, want 1", len(runner.queries))
	}
	if got := runner.queries[0].String(); got != "BTC/EUR@all" {
		t.Errorf("query = %q, want BTC/EUR@all", got)
	}

	if body["request_id"] != "req-1" {
		t.Errorf("request_id = %v, want req-1", body["request_id"])
	}
	if body["caption"] != "BTC Price (EUR)" {
		t.Errorf("caption = %v", body["caption"])
	}

	results := body["results"].([]any)
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	paymium := results[1].(map[string]any)
	if paymium["status"] != "unsupported" || paymium["bid"] != "N/A" {
		t.Errorf("paymium row = %v", paymium)
	}

	best := body["best"].(map[string]any)
	if best["profit_percent"] != "-1.50" {
		t.Errorf("profit_percent = %v, want -1.50", best["profit_percent"])
	}
	bid := best["bid"].(map[string]any)
	if bid["label"] != "Kraken (fee: 0.26%)" || bid["effective"] != "99.74" {
		t.Errorf("best bid = %v", bid)
	}
	if _, ok := body["error"]; ok {
		t.Error("unexpected error object")
	}
}

func TestGetQuotes_NoCandidateIsStillOK(t *testing.T) {
	runner := &fakeRunner{
		registry: exchange.DefaultRegistry(),
		run: func(q domain.Query) (*domain.Run, error) {
			run := domain.NewRun(q, time.Now())
			run.Finish([]domain.QuoteResult{
				domain.Failed(exchange.Kraken, "Kraken", errors.New("timeout")),
			}, time.Now())
			run.Err = domain.ErrNoCandidate()
			return run, nil
		},
	}

	w, body := do(t, newTestRouter(runner), "/v1/quotes")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	errObj := body["error"].(map[string]any)
	if errObj["code"] != string(apperror.CodeNoCandidate) {
		t.Errorf("error code = %v, want %s", errObj["code"], apperror.CodeNoCandidate)
	}
	if _, ok := body["best"]; ok {
		t.Error("best must be absent without candidates")
	}
}

func TestGetQuotes_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		runErr     error
		wantStatus int
		wantCode   apperror.Code
	}{
		{
			name:       "unknown crypto",
			target:     "/v1/quotes?crypto=doge&fiat=eur",
			wantStatus: http.StatusBadRequest,
			wantCode:   apperror.CodeUnsupportedCurrency,
		},
		{
			name:       "fiat used as crypto",
			target:     "/v1/quotes?crypto=usd&fiat=eur",
			wantStatus: http.StatusBadRequest,
			wantCode:   apperror.CodeUnsupportedCurrency,
		},
		{
			name:       "unknown exchange",
			target:     "/v1/quotes?scope=gemini",
			runErr:     apperror.NotFound(apperror.CodeExchangeNotFound, "gemini"),
			wantStatus: http.StatusNotFound,
			wantCode:   apperror.CodeExchangeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{
				registry: exchange.DefaultRegistry(),
				run: func(q domain.Query) (*domain.Run, error) {
					if tt.runErr != nil {
						return nil, tt.runErr
					}
					return allRun(q)
				},
			}

			w, body := do(t, newTestRouter(runner), tt.target)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			errObj := body["error"].(map[string]any)
			if errObj["code"] != string(tt.wantCode) {
				t.Errorf("code = %v, want %s", errObj["code"], tt.wantCode)
			}
		})
	}
}

func TestListExchanges(t *testing.T) {
	runner := &fakeRunner{registry: exchange.DefaultRegistry()}
	w, body := do(t, newTestRouter(runner), "/v1/exchanges")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	list := body["exchanges"].([]any)
	if len(list) != exchange.DefaultRegistry().Len() {
		t.Fatalf("exchanges = %d, want %d", len(list), exchange.DefaultRegistry().Len())
	}

	first := list[0].(map[string]any)
	if first["id"] != exchange.Binance || first["label"] != "Binance (fee: 0.10%)" {
		t.Errorf("first exchange = %v", first)
	}

	last := list[len(list)-1].(map[string]any)
	if last["id"] != exchange.Paymium || last["fixed_pair"] != "BTC/EUR" {
		t.Errorf("last exchange = %v", last)
	}
}

func TestNoRoute(t *testing.T) {
	runner := &fakeRunner{registry: exchange.DefaultRegistry()}
	w, _ := do(t, newTestRouter(runner), "/v2/nothing")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
