package httpsource

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"

	exchange "github.com/fd1az/bestprice/business/exchange/domain"
	"github.com/fd1az/bestprice/internal/apperror"
	"github.com/fd1az/bestprice/internal/logger"
)

// mockLogger implements logger.LoggerInterface for testing.
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Info(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Warn(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Error(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Debugc(ctx context.Context, caller int, msg string, args ...any) {}
func (m *mockLogger) Infoc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Warnc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Errorc(ctx context.Context, caller int, msg string, args ...any) {}

var _ logger.LoggerInterface = (*mockLogger)(nil)

func newSource(t *testing.T, cfg Config) *Source {
	t.Helper()
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Second
	}
	s, err := New(cfg, []string{"kraken"}, &mockLogger{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.Header.Get("User-Agent") != "bestprice-test" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		fmt.Fprint(w, `{"bid": "1.5", "ask": "1.6"}`)
	}))
	defer server.Close()

	s := newSource(t, Config{UserAgent: "bestprice-test"})
	body, err := s.Fetch(context.Background(), "kraken", exchange.RequestTarget{URL: server.URL, Method: http.MethodPost})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(body) != `{"bid": "1.5", "ask": "1.6"}` {
		t.Errorf("body = %s", body)
	}
}

func TestFetch_Non2xxIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"NotFound"}`)
	}))
	defer server.Close()

	s := newSource(t, Config{})
	_, err := s.Fetch(context.Background(), "kraken", exchange.RequestTarget{URL: server.URL})
	if apperror.GetCode(err) != apperror.CodeTransportError {
		t.Errorf("code = %s, want %s (err=%v)", apperror.GetCode(err), apperror.CodeTransportError, err)
	}
}

func TestFetch_TimeoutIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	s := newSource(t, Config{Timeout: 20 * time.Millisecond})
	_, err := s.Fetch(context.Background(), "kraken", exchange.RequestTarget{URL: server.URL})
	if apperror.GetCode(err) != apperror.CodeTransportError {
		t.Errorf("code = %s, want %s", apperror.GetCode(err), apperror.CodeTransportError)
	}
}

func TestFetch_BreakerOpensAfterFailures(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	s := newSource(t, Config{BreakerMaxFailures: 2, BreakerOpenTimeout: time.Hour})
	target := exchange.RequestTarget{URL: server.URL}

	for i := 0; i < 2; i++ {
		if _, err := s.Fetch(context.Background(), "kraken", target); err == nil {
			t.Fatal("expected failure")
		}
	}

	_, err := s.Fetch(context.Background(), "kraken", target)
	if apperror.GetCode(err) != apperror.CodeCircuitOpen {
		t.Errorf("code = %s, want %s", apperror.GetCode(err), apperror.CodeCircuitOpen)
	}
	if hits.Load() != 2 {
		t.Errorf("server hit %d times, want 2", hits.Load())
	}
	if s.BreakerStates()["kraken"] != gobreaker.StateOpen {
		t.Errorf("state = %s, want open", s.BreakerStates()["kraken"])
	}
	if ok, msg := s.Check(context.Background()); ok || msg != "open breakers: kraken" {
		t.Errorf("Check() = %v %q, want not ready with kraken open", ok, msg)
	}
}

func TestFetch_OpenBreakerRecoversAcrossRuns(t *testing.T) {
	var healthy atomic.Bool
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if !healthy.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"bid":"1.5","ask":"1.6"}`)
	}))
	defer server.Close()

	s := newSource(t, Config{BreakerMaxFailures: 1, BreakerOpenTimeout: 50 * time.Millisecond})
	target := exchange.RequestTarget{URL: server.URL}

	if _, err := s.Fetch(context.Background(), "kraken", target); err == nil {
		t.Fatal("expected failure")
	}
	if _, err := s.Fetch(context.Background(), "kraken", target); apperror.GetCode(err) != apperror.CodeCircuitOpen {
		t.Fatalf("code = %s, want %s", apperror.GetCode(err), apperror.CodeCircuitOpen)
	}
	if hits.Load() != 1 {
		t.Fatalf("server hit %d times while open, want 1", hits.Load())
	}

	healthy.Store(true)
	time.Sleep(80 * time.Millisecond)

	if _, err := s.Fetch(context.Background(), "kraken", target); err != nil {
		t.Fatalf("half-open request failed: %v", err)
	}
	if s.BreakerStates()["kraken"] != gobreaker.StateClosed {
		t.Errorf("state = %s, want closed", s.BreakerStates()["kraken"])
	}
}

func TestCheck_ReadyWhileSomeBreakersClosed(t *testing.T) {
	s, err := New(Config{Timeout: time.Second}, []string{"kraken", "binance"}, &mockLogger{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if ok, msg := s.Check(context.Background()); !ok || msg != "2 exchanges reachable" {
		t.Errorf("Check() = %v %q", ok, msg)
	}
}

func TestFetch_UnknownExchangeSkipsBreaker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	s := newSource(t, Config{})
	body, err := s.Fetch(context.Background(), "other", exchange.RequestTarget{URL: server.URL})
	if err != nil || string(body) != "ok" {
		t.Errorf("body = %q, err = %v", body, err)
	}
}
