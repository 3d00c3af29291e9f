package countdown

import (
	"context"
	"sync"
	"time"

	"github.com/smokyabdulrahman/ramadan-live/internal/calendar"
)

// DefaultInterval is the recompute period. It must not exceed one second or
// the displayed countdown skips values and can sit at zero past a boundary.
const DefaultInterval = time.Second

// Ticker recomputes the countdown on a fixed interval for one snapshot at a
// time. Starting it again replaces the running loop; at most one loop emits.
type Ticker struct {
	interval time.Duration
	now      func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTicker creates a stopped Ticker. Zero interval or nil now use defaults.
func NewTicker(interval time.Duration, now func() time.Time) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if now == nil {
		now = time.Now
	}
	return &Ticker{interval: interval, now: now}
}

// Start stops any running loop, then emits the state for snap immediately
// and on every interval until ctx is done or Stop/Start is called.
// It returns false, starting nothing, when snap has no days.
func (t *Ticker) Start(ctx context.Context, snap *calendar.Snapshot, emit func(State)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	if snap.Unavailable() {
		return false
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done

	go t.run(ctx, done, snap, emit)
	return true
}

// Stop cancels the running loop and waits for it to exit.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Ticker) stopLocked() {
	if t.cancel == nil {
		return
	}
	t.cancel()
	<-t.done
	t.cancel = nil
	t.done = nil
}

func (t *Ticker) run(ctx context.Context, done chan struct{}, snap *calendar.Snapshot, emit func(State)) {
	defer close(done)

	tick := func() {
		if st, ok := Evaluate(t.now(), snap.Days, snap.Location); ok {
			emit(st)
		}
	}

	tick()
	tk := time.NewTicker(t.interval)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			// A Stop racing with the tick must not emit after it returns.
			if ctx.Err() != nil {
				return
			}
			tick()
		}
	}
}
