package lifecycle

import (
	"context"
	"time"
)

// Status is one snapshot pushed by a Watcher tick.
type Status struct {
	Phase     Phase
	Countdown string
}

// Watcher re-derives a session's status once per second while a view of it
// is open. It is independent of the garbage-collector interval; each open
// view runs (and cancels) its own watcher.
type Watcher struct {
	expiresAt           time.Time
	deletionScheduledAt time.Time
	submitted           bool
	interval            time.Duration
	now                 func() time.Time
}

// NewWatcher creates a watcher over the session's two fixed boundaries.
func NewWatcher(expiresAt, deletionScheduledAt time.Time, submitted bool) *Watcher {
	return &Watcher{
		expiresAt:           expiresAt,
		deletionScheduledAt: deletionScheduledAt,
		submitted:           submitted,
		interval:            time.Second,
		now:                 time.Now,
	}
}

// Run emits an immediate snapshot and then one per tick, closing the
// returned channel once the phase becomes terminal (no further ticks are
// needed; terminal is absorbing) or ctx is canceled.
func (w *Watcher) Run(ctx context.Context) <-chan Status {
	out := make(chan Status, 1)

	go func() {
		defer close(out)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		if !w.emit(ctx, out) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !w.emit(ctx, out) {
					return
				}
			}
		}
	}()

	return out
}

func (w *Watcher) emit(ctx context.Context, out chan<- Status) bool {
	now := w.now()
	st := Status{
		Phase:     Evaluate(now, w.expiresAt, w.deletionScheduledAt, w.submitted),
		Countdown: Countdown(now, w.expiresAt, w.deletionScheduledAt),
	}
	select {
	case out <- st:
	case <-ctx.Done():
		return false
	}
	return st.Phase != PhaseTerminal
}
