package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"baratcx/internal/domain/models"
	"baratcx/pkg/config"
	"baratcx/pkg/logger"
)

// Fetcher resolves one poll cycle for a stream.
type Fetcher interface {
	Fetch(ctx context.Context, kind models.Kind) (*Result, error)
}

// Poller drives one stream on a fixed interval and caches the latest result.
// Reads always return the cached value, even while a refresh is in flight or
// after it failed (stale-while-revalidate). Manual refetches coalesce: any
// number of requests arriving while a cycle runs trigger exactly one follow-up
// cycle, and results from a superseded cycle are discarded.
type Poller struct {
	kind  models.Kind
	spec  config.PollSpec
	fetch Fetcher
	log   *logger.Logger

	mu      sync.RWMutex
	current *Result
	lastErr error

	// gen is bumped by Refetch; a cycle that started under an older generation
	// stores nothing.
	gen       atomic.Uint64
	refetchCh chan struct{}
	stopOnce  sync.Once
	stopCh    chan struct{}
	done      chan struct{}

	onUpdate func(*Result)
	backoff  time.Duration
}

// NewPoller creates a poller for one stream. It does not start polling; call
// Run.
func NewPoller(kind models.Kind, spec config.PollSpec, fetch Fetcher, log *logger.Logger) *Poller {
	return &Poller{
		kind:      kind,
		spec:      spec,
		fetch:     fetch,
		log:       log,
		refetchCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
		backoff:   500 * time.Millisecond,
	}
}

// OnUpdate registers a callback invoked with every fresh result. Must be set
// before Run.
func (p *Poller) OnUpdate(fn func(*Result)) {
	p.onUpdate = fn
}

// Run polls until ctx is cancelled or Stop is called. An initial cycle runs
// immediately; afterwards cycles fire on the interval or on Refetch.
func (p *Poller) Run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.spec.Interval)
	defer ticker.Stop()

	p.cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.cycle(ctx)
		case <-p.refetchCh:
			// A manual refetch restarts the cadence so the next scheduled
			// cycle is a full interval away.
			ticker.Reset(p.spec.Interval)
			p.cycle(ctx)
		}
	}
}

// Refetch requests an immediate out-of-band cycle with a fresh retry budget.
// Safe to call from any goroutine; concurrent calls coalesce.
func (p *Poller) Refetch() {
	p.gen.Add(1)
	select {
	case p.refetchCh <- struct{}{}:
	default:
	}
}

// Snapshot returns the latest cached result and the error state of the most
// recent cycle. A nil result with a nil error means no cycle has completed yet.
func (p *Poller) Snapshot() (*Result, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current, p.lastErr
}

// Stop terminates the poll loop and waits for it to exit. Idempotent.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	<-p.done
}

// cycle runs one fetch with retries and stores the outcome, unless a refetch
// superseded this cycle while it ran.
func (p *Poller) cycle(ctx context.Context) {
	gen := p.gen.Load()
	res, err := p.attempt(ctx)

	if p.gen.Load() != gen {
		p.log.Debug("discarding superseded poll result",
			logger.String("kind", string(p.kind)))
		return
	}

	p.mu.Lock()
	p.lastErr = err
	if err == nil {
		p.current = res
	}
	p.mu.Unlock()

	if err != nil {
		p.log.Error("poll cycle failed, serving stale data",
			logger.String("kind", string(p.kind)),
			logger.String("code", models.ErrorCode(err)),
			logger.Error(err))
		return
	}
	if p.onUpdate != nil {
		p.onUpdate(res)
	}
}

// attempt tries the fetch up to retries+1 times with a short pause between
// attempts.
func (p *Poller) attempt(ctx context.Context) (*Result, error) {
	var lastErr error
	for i := 0; i <= p.spec.Retries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-p.stopCh:
				return nil, context.Canceled
			case <-time.After(p.backoff):
			}
		}

		res, err := p.fetch.Fetch(ctx, p.kind)
		if err == nil {
			return res, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
