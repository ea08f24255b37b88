package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"baratcx/internal/domain/models"
	"baratcx/pkg/config"
)

// stubFetcher counts calls and serves scripted responses.
type stubFetcher struct {
	mu      sync.Mutex
	calls   int
	results []*Result
	errs    []error
	during  func(f *stubFetcher) // runs inside Fetch, before returning
}

func (f *stubFetcher) Fetch(context.Context, models.Kind) (*Result, error) {
	f.mu.Lock()
	i := f.calls
	f.calls++
	during := f.during
	f.mu.Unlock()

	if during != nil {
		during(f)
	}

	var res *Result
	var err error
	if i < len(f.results) {
		res = f.results[i]
	}
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return res, err
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestPoller(t *testing.T, fetch Fetcher, retries int) *Poller {
	t.Helper()
	p := NewPoller(models.KindStats, config.PollSpec{Interval: time.Hour, Retries: retries}, fetch, newTestLogger(t))
	p.backoff = time.Millisecond
	return p
}

func TestCycleRetriesUpToBudget(t *testing.T) {
	boom := errors.New("boom")
	fetch := &stubFetcher{errs: []error{boom, boom, boom, boom}}
	p := newTestPoller(t, fetch, 2)

	p.cycle(context.Background())

	if got := fetch.callCount(); got != 3 {
		t.Fatalf("expected retries+1 = 3 attempts, got %d", got)
	}
	res, err := p.Snapshot()
	if res != nil || !errors.Is(err, boom) {
		t.Fatalf("expected cached error state, got res=%v err=%v", res, err)
	}
}

func TestRetryStopsOnFirstSuccess(t *testing.T) {
	ok := &Result{Kind: models.KindStats, Source: SourceLive}
	fetch := &stubFetcher{
		errs:    []error{errors.New("transient"), nil, nil},
		results: []*Result{nil, ok, ok},
	}
	p := newTestPoller(t, fetch, 2)

	p.cycle(context.Background())

	if got := fetch.callCount(); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
	res, err := p.Snapshot()
	if err != nil || res != ok {
		t.Fatalf("expected cached success, got res=%v err=%v", res, err)
	}
}

func TestStaleWhileRevalidate(t *testing.T) {
	first := &Result{Kind: models.KindStats, Source: SourceLive, FetchedAt: time.Now()}
	fetch := &stubFetcher{
		results: []*Result{first, nil},
		errs:    []error{nil, errors.New("upstream down")},
	}
	p := newTestPoller(t, fetch, 0)

	p.cycle(context.Background())
	p.cycle(context.Background())

	res, err := p.Snapshot()
	if res != first {
		t.Fatalf("stale value must survive a failed refresh, got %v", res)
	}
	if err == nil {
		t.Fatal("failed refresh must be visible in the error state")
	}
}

func TestSupersededCycleIsDiscarded(t *testing.T) {
	stale := &Result{Kind: models.KindStats, Source: SourceLive}
	fetch := &stubFetcher{results: []*Result{stale}}
	p := newTestPoller(t, fetch, 0)

	// A refetch arriving while the cycle is in flight supersedes it.
	fetch.during = func(f *stubFetcher) {
		f.during = nil
		p.Refetch()
	}
	p.cycle(context.Background())

	if res, _ := p.Snapshot(); res != nil {
		t.Fatalf("superseded result must be discarded, got %v", res)
	}
}

func TestRefetchCoalesces(t *testing.T) {
	p := newTestPoller(t, &stubFetcher{}, 0)

	for i := 0; i < 5; i++ {
		p.Refetch()
	}
	if got := len(p.refetchCh); got != 1 {
		t.Fatalf("refetch requests must coalesce to one pending signal, got %d", got)
	}
}

func TestUpdateListenerSeesFreshResults(t *testing.T) {
	ok := &Result{Kind: models.KindStats, Source: SourceLive}
	fetch := &stubFetcher{results: []*Result{ok}}
	p := newTestPoller(t, fetch, 0)

	var notified atomic.Int32
	p.OnUpdate(func(res *Result) {
		if res != ok {
			t.Errorf("listener got %v", res)
		}
		notified.Add(1)
	})

	p.cycle(context.Background())
	if notified.Load() != 1 {
		t.Fatalf("listener called %d times, want 1", notified.Load())
	}
}

func TestRunStop(t *testing.T) {
	ok := &Result{Kind: models.KindStats, Source: SourceLive}
	fetch := &stubFetcher{results: []*Result{ok, ok, ok, ok, ok, ok, ok, ok}}
	p := NewPoller(models.KindStats, config.PollSpec{Interval: 5 * time.Millisecond}, fetch, newTestLogger(t))
	p.backoff = time.Millisecond

	go p.Run(context.Background())

	deadline := time.After(time.Second)
	for fetch.callCount() < 2 {
		select {
		case <-deadline:
			t.Fatal("poller never ticked")
		case <-time.After(time.Millisecond):
		}
	}

	p.Stop()
	p.Stop() // idempotent

	if res, _ := p.Snapshot(); res == nil {
		t.Fatal("no result cached after run")
	}
}

func TestRegistryFanOut(t *testing.T) {
	cfg := testConfig(config.PolicySynthetic)
	cfg.Polling.Market = config.PollSpec{Interval: time.Hour}
	cfg.Polling.Stats = config.PollSpec{Interval: time.Hour}
	cfg.Polling.Activity = config.PollSpec{Interval: time.Hour}
	cfg.Polling.Orders = config.PollSpec{Interval: time.Hour}

	ok := &Result{Kind: models.KindStats, Source: SourceLive}
	fetch := &stubFetcher{results: []*Result{ok}}
	r := NewRegistry(cfg, fetch, newTestLogger(t))

	var got atomic.Int32
	r.Listen(func(res *Result) { got.Add(1) })
	r.pollers[models.KindStats].cycle(context.Background())

	if got.Load() != 1 {
		t.Fatalf("listener called %d times, want 1", got.Load())
	}

	if _, err := r.Snapshot("bogus"); err == nil {
		t.Fatal("unknown stream must error")
	}
	if err := r.Refetch(models.KindStats); err != nil {
		t.Fatalf("Refetch: %v", err)
	}
}
