package state

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultRefreshInterval is the wall-clock cadence of the overdue
// transition pass.
const DefaultRefreshInterval = time.Hour

// Refresher periodically re-derives due statuses against the clock: a
// mount pass once at startup (only when there is billing data to refresh),
// then one pass per interval.
type Refresher struct {
	state    *AppState
	interval time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewRefresher(state *AppState, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Refresher{state: state, interval: interval}
}

// Start begins the refresh loop. Returns an error if already running.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("refresher is already running")
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	r.mu.Unlock()

	go r.runLoop(ctx)

	slog.InfoContext(ctx, "Status refresher started", "interval", r.interval)
	return nil
}

// Stop signals the loop and waits for it to drain, or for ctx.
func (r *Refresher) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	close(r.stopCh)

	select {
	case <-r.doneCh:
		slog.InfoContext(ctx, "Status refresher stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Status refresher stop timed out")
		return ctx.Err()
	}

	r.mu.Lock()
	r.running = false
	r.mu.Unlock()
	return nil
}

func (r *Refresher) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Refresher) runLoop(ctx context.Context) {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// Mount pass, skipped while either collection is still empty.
	if r.state.HasBillingData() {
		r.state.RefreshStatuses(ctx)
	}

	for {
		select {
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.state.RefreshStatuses(ctx)
		}
	}
}
