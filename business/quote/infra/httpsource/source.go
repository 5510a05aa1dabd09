// Package httpsource fetches exchange tickers over HTTP, guarded by one
// circuit breaker per exchange.
package httpsource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	exchange "github.com/fd1az/bestprice/business/exchange/domain"
	"github.com/fd1az/bestprice/business/quote/app"
	"github.com/fd1az/bestprice/internal/apperror"
	"github.com/fd1az/bestprice/internal/circuitbreaker"
	"github.com/fd1az/bestprice/internal/httpclient"
	"github.com/fd1az/bestprice/internal/logger"
)

const maxErrorSnippet = 120

// Config holds transport settings.
type Config struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64

	// BreakerMaxFailures consecutive failures open an exchange's breaker.
	BreakerMaxFailures uint32
	// BreakerOpenTimeout is how long an open breaker rejects calls.
	BreakerOpenTimeout time.Duration

	// RoundTripper overrides the HTTP transport, mainly for tests.
	RoundTripper http.RoundTripper
}

// Source implements app.Transport.
type Source struct {
	client   *httpclient.InstrumentedClient
	breakers map[string]*circuitbreaker.CircuitBreaker[[]byte]
	logger   logger.LoggerInterface
}

var _ app.Transport = (*Source)(nil)

// New creates a Source with a breaker for each exchange id.
func New(cfg Config, exchangeIDs []string, log logger.LoggerInterface) (*Source, error) {
	opts := []httpclient.ClientOption{
		httpclient.WithProviderName("exchanges"),
		httpclient.WithRequestTimeout(cfg.Timeout),
		httpclient.WithUserAgent(cfg.UserAgent),
		httpclient.WithMaxBodyBytes(cfg.MaxBodyBytes),
		httpclient.WithHeaders(map[string]string{"Accept": "application/json"}),
	}
	if cfg.RoundTripper != nil {
		opts = append(opts, httpclient.WithRoundTripper(cfg.RoundTripper))
	}

	client, err := httpclient.NewInstrumentedClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}

	s := &Source{
		client:   client,
		breakers: make(map[string]*circuitbreaker.CircuitBreaker[[]byte], len(exchangeIDs)),
		logger:   log,
	}

	for _, id := range exchangeIDs {
		cbCfg := circuitbreaker.DefaultConfig("exchange-" + id)
		if cfg.BreakerMaxFailures > 0 {
			cbCfg.MaxConsecutiveFailures = cfg.BreakerMaxFailures
		}
		if cfg.BreakerOpenTimeout > 0 {
			cbCfg.Timeout = cfg.BreakerOpenTimeout
		}
		cbCfg.IsSuccessful = func(err error) bool {
			// A caller giving up says nothing about the exchange.
			return err == nil || errors.Is(err, context.Canceled)
		}
		cbCfg.OnStateChange = func(name string, from, to gobreaker.State) {
			log.Info(context.Background(), "circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
		}
		s.breakers[id] = circuitbreaker.New[[]byte](cbCfg)
	}

	return s, nil
}

// Fetch requests target and returns the body of a 2xx response.
func (s *Source) Fetch(ctx context.Context, exchangeID string, target exchange.RequestTarget) ([]byte, error) {
	call := func() ([]byte, error) {
		resp, err := s.client.NewRequest(
			httpclient.WithResponseErrorHandler(statusError),
			httpclient.WithLabels(httpclient.NewLabel("exchange", exchangeID)),
		).Execute(ctx, target.Method, target.URL)
		if err != nil {
			return nil, err
		}
		return resp.Body(), nil
	}

	cb, ok := s.breakers[exchangeID]
	if !ok {
		body, err := call()
		return body, transportError(exchangeID, err)
	}

	body, err := cb.Execute(call)
	if circuitbreaker.IsRejection(err) {
		return nil, apperror.External(apperror.CodeCircuitOpen, exchangeID, err)
	}
	return body, transportError(exchangeID, err)
}

// BreakerStates returns the breaker state per exchange id.
func (s *Source) BreakerStates() map[string]gobreaker.State {
	states := make(map[string]gobreaker.State, len(s.breakers))
	for id, cb := range s.breakers {
		states[id] = cb.State()
	}
	return states
}

// Check reports readiness: unhealthy only when every breaker is open.
// Its signature matches health.CheckFunc.
func (s *Source) Check(ctx context.Context) (bool, string) {
	var open []string
	for id, state := range s.BreakerStates() {
		if state == gobreaker.StateOpen {
			open = append(open, id)
		}
	}
	if len(open) == 0 {
		return true, fmt.Sprintf("%d exchanges reachable", len(s.breakers))
	}
	sort.Strings(open)
	msg := "open breakers: " + strings.Join(open, ", ")
	return len(open) < len(s.breakers), msg
}

func transportError(exchangeID string, err error) error {
	if err == nil {
		return nil
	}
	return apperror.External(apperror.CodeTransportError, exchangeID, err)
}

// statusError rejects non-2xx responses.
func statusError(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	snippet := string(body)
	if len(snippet) > maxErrorSnippet {
		snippet = snippet[:maxErrorSnippet] + "..."
	}
	return fmt.Errorf("unexpected status %d: %s", status, snippet)
}
