package app

import (
	"context"
	"sync"
	"testing"
	"time"

	exchange "github.com/fd1az/bestprice/business/exchange/domain"
	"github.com/fd1az/bestprice/business/quote/domain"
	"github.com/fd1az/bestprice/internal/asset"
	"github.com/fd1az/bestprice/internal/ratelimit"
)

type recordingReporter struct {
	mu   sync.Mutex
	runs []*domain.Run
	errs []error
	got  chan struct{}
}

func newRecordingReporter() *recordingReporter {
	return &recordingReporter{got: make(chan struct{}, 16)}
}

func (r *recordingReporter) Start(ctx context.Context) error { return nil }
func (r *recordingReporter) Stop() error                     { return nil }

func (r *recordingReporter) Report(run *domain.Run) {
	r.mu.Lock()
	r.runs = append(r.runs, run)
	r.mu.Unlock()
	r.got <- struct{}{}
}

func (r *recordingReporter) ReportError(err error) {
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
	r.got <- struct{}{}
}

func (r *recordingReporter) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.got:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a report")
	}
}

func TestWatcher_Once(t *testing.T) {
	svc := newTestService(t, newFakeTransport())
	rep := newRecordingReporter()
	w := NewWatcher(svc, rep, ratelimit.NewWithBurst(100, 10), time.Hour, &mockLogger{})

	q := domain.Query{Pair: exchange.MustPair(asset.BTC, asset.EUR), Scope: domain.ScopeAll}
	if err := w.Run(context.Background(), q, true); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rep.runs) != 1 {
		t.Errorf("got %d runs, want 1", len(rep.runs))
	}
}

func TestWatcher_SubmitReplacesQuery(t *testing.T) {
	svc := newTestService(t, newFakeTransport())
	rep := newRecordingReporter()
	w := NewWatcher(svc, rep, ratelimit.NewWithBurst(100, 10), time.Hour, &mockLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, domain.Query{Pair: exchange.MustPair(asset.BTC, asset.EUR), Scope: domain.ScopeAll}, false)
	}()

	rep.wait(t)
	w.Submit(domain.Query{Pair: exchange.MustPair(asset.ETH, asset.USD), Scope: "kraken"})
	rep.wait(t)
	w.Refresh()
	rep.wait(t)
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	rep.mu.Lock()
	defer rep.mu.Unlock()
	if len(rep.runs) < 3 {
		t.Fatalf("got %d runs, want at least 3", len(rep.runs))
	}
	second := rep.runs[1]
	if second.Query.Scope != "kraken" || second.Query.Pair.Compact() != "ETHUSD" {
		t.Errorf("second query = %s", second.Query)
	}
	if rep.runs[2].Query.Scope != "kraken" {
		t.Error("refresh should keep the submitted query")
	}
}

func TestWatcher_ReportsRejectedQuery(t *testing.T) {
	svc := newTestService(t, newFakeTransport())
	rep := newRecordingReporter()
	w := NewWatcher(svc, rep, ratelimit.NewWithBurst(100, 10), time.Hour, &mockLogger{})

	err := w.Run(context.Background(), domain.Query{Pair: exchange.MustPair(asset.BTC, asset.EUR), Scope: "mtgox"}, true)
	if err == nil {
		t.Error("expected error for unknown exchange")
	}
	if len(rep.errs) != 1 {
		t.Errorf("got %d reported errors, want 1", len(rep.errs))
	}
}
