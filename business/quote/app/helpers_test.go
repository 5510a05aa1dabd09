package app

import (
	"context"
	"errors"
	"sync"
	"time"

	exchange "github.com/fd1az/bestprice/business/exchange/domain"
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

var errUnreachable = errors.New("connection refused")

// Bodies in each exchange's shape, all quoting bid 100 / ask 101 unless overridden.
var okBodies = map[string]string{
	exchange.Binance:  `{"symbol":"BTCEUR","bidPrice":"100.00","askPrice":"101.00"}`,
	exchange.Bitbay:   `{"status":"Ok","ticker":{"highestBid":"100","lowestAsk":"101"}}`,
	exchange.Bitstamp: `{"bid": "100", "ask": "101"}`,
	exchange.Coinbase: `{"ask":"101","bid":"100"}`,
	exchange.Kraken:   `{"error":[],"result":{"XXBTZEUR":{"a":["101.0","1","1"],"b":["100.0","1","1"]}}}`,
	exchange.Paymium:  `{"bid":100.0,"ask":101.0}`,
}

// fakeTransport answers from canned bodies with optional per-exchange delay.
type fakeTransport struct {
	mu      sync.Mutex
	bodies  map[string]string
	errs    map[string]error
	delays  map[string]time.Duration
	targets map[string]exchange.RequestTarget
	calls   int
}

func newFakeTransport() *fakeTransport {
	bodies := make(map[string]string, len(okBodies))
	for k, v := range okBodies {
		bodies[k] = v
	}
	return &fakeTransport{
		bodies:  bodies,
		errs:    map[string]error{},
		delays:  map[string]time.Duration{},
		targets: map[string]exchange.RequestTarget{},
	}
}

func (f *fakeTransport) Fetch(ctx context.Context, exchangeID string, target exchange.RequestTarget) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	f.targets[exchangeID] = target
	delay := f.delays[exchangeID]
	err := f.errs[exchangeID]
	body := f.bodies[exchangeID]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return []byte(body), nil
}

func (f *fakeTransport) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
