package lifecycle

import (
	"context"
	"time"
)

// Watcher re-evaluates an auction's lifecycle on a fixed interval and
// publishes each snapshot. Every caller owns its own Watcher and must stop
// it (via Stop or context cancellation) so no ticker leaks; a Watcher also
// shuts itself down after publishing its first ended snapshot, since the
// phase can never progress past ended.
type Watcher struct {
	snapshots chan Snapshot
	cancel    context.CancelFunc
	done      chan struct{}
}

// WatchConfig carries the auction window being observed. Clock is overridable
// for tests and defaults to time.Now; Interval defaults to one second.
type WatchConfig struct {
	StartDate time.Time
	EndDate   time.Time
	SoldOut   func() bool
	Interval  time.Duration
	Clock     func() time.Time
}

// Watch starts a watcher that evaluates immediately and then once per
// interval. The snapshot channel is closed when the watcher stops.
func Watch(ctx context.Context, cfg WatchConfig) *Watcher {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.SoldOut == nil {
		cfg.SoldOut = func() bool { return false }
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		snapshots: make(chan Snapshot, 1),
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	go w.run(ctx, cfg)
	return w
}

// Snapshots returns the channel snapshots are published on
func (w *Watcher) Snapshots() <-chan Snapshot {
	return w.snapshots
}

// Stop tears the watcher down and waits for its goroutine to exit. Safe to
// call more than once.
func (w *Watcher) Stop() {
	w.cancel()
	<-w.done
}

func (w *Watcher) run(ctx context.Context, cfg WatchConfig) {
	defer close(w.done)
	defer close(w.snapshots)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		snap := Evaluate(cfg.Clock(), cfg.StartDate, cfg.EndDate, cfg.SoldOut())
		select {
		case w.snapshots <- snap:
		case <-ctx.Done():
			return
		}
		if snap.Phase == PhaseEnded {
			return
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
