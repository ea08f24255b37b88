package usecase

import (
	"context"
	"fmt"
	"sync"

	"baratcx/internal/domain/models"
	"baratcx/pkg/config"
	"baratcx/pkg/logger"
)

// Registry owns one poller per stream and fans fresh results out to
// registered listeners (the event publisher and the websocket hub).
type Registry struct {
	pollers map[models.Kind]*Poller
	log     *logger.Logger

	mu        sync.RWMutex
	listeners []func(*Result)

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRegistry builds pollers for every stream from the polling config.
func NewRegistry(cfg *config.Config, fetch Fetcher, log *logger.Logger) *Registry {
	r := &Registry{
		pollers: make(map[models.Kind]*Poller, len(models.Kinds)),
		log:     log,
	}
	for _, kind := range models.Kinds {
		p := NewPoller(kind, cfg.Spec(string(kind)), fetch, log)
		p.OnUpdate(r.dispatch)
		r.pollers[kind] = p
	}
	return r
}

// Listen registers a listener for every fresh result across all streams.
// Must be called before Start.
func (r *Registry) Listen(fn func(*Result)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Start launches every poll loop.
func (r *Registry) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	for kind, p := range r.pollers {
		r.wg.Add(1)
		go func(kind models.Kind, p *Poller) {
			defer r.wg.Done()
			r.log.Info("poller started", logger.String("kind", string(kind)))
			p.Run(ctx)
		}(kind, p)
	}
}

// Stop cancels every poll loop and waits for them to exit.
func (r *Registry) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	r.log.Info("all pollers stopped")
}

// Snapshot returns the latest cached result for a stream.
func (r *Registry) Snapshot(kind models.Kind) (*Result, error) {
	p, ok := r.pollers[kind]
	if !ok {
		return nil, fmt.Errorf("unknown stream %q", kind)
	}
	return p.Snapshot()
}

// Refetch requests an immediate refresh of a stream.
func (r *Registry) Refetch(kind models.Kind) error {
	p, ok := r.pollers[kind]
	if !ok {
		return fmt.Errorf("unknown stream %q", kind)
	}
	p.Refetch()
	return nil
}

func (r *Registry) dispatch(res *Result) {
	r.mu.RLock()
	listeners := r.listeners
	r.mu.RUnlock()
	for _, fn := range listeners {
		fn(res)
	}
}
