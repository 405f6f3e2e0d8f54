package boundary

import (
	"context"
	"sync"
	"time"
)

// stopper is satisfied by both one-shot timers and repeating tickers held in
// the arena.
type stopper interface {
	Stop()
}

// timerStopper adapts *time.Timer, whose Stop returns bool, to stopper.
type timerStopper struct {
	t *time.Timer
}

func (s timerStopper) Stop() {
	s.t.Stop()
}

// TimerArena tracks every timer a widget instance creates so Destroy can
// cancel them deterministically. Timers are never left to garbage
// collection.
type TimerArena struct {
	mu      sync.Mutex
	timers  map[uint64]stopper
	next    uint64
	done    chan struct{}
	stopped bool
}

// NewTimerArena constructs an empty arena.
func NewTimerArena() *TimerArena {
	return &TimerArena{
		timers: make(map[uint64]stopper),
		done:   make(chan struct{}),
	}
}

// TimerHandle identifies a tracked timer and allows early cancellation.
type TimerHandle struct {
	arena *TimerArena
	id    uint64
}

// Stop cancels the timer if it has not fired. Safe on the zero value and
// after StopAll.
func (h TimerHandle) Stop() {
	if h.arena == nil {
		return
	}
	h.arena.remove(h.id)
}

// AfterFunc schedules fn after d. A stopped arena drops the request; fn is
// removed from the arena once it fires.
func (a *TimerArena) AfterFunc(d time.Duration, fn func()) TimerHandle {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return TimerHandle{}
	}
	id := a.next
	a.next++
	timer := time.AfterFunc(d, func() {
		a.mu.Lock()
		delete(a.timers, id)
		a.mu.Unlock()
		fn()
	})
	a.timers[id] = timerStopper{t: timer}
	a.mu.Unlock()
	return TimerHandle{arena: a, id: id}
}

// Sleep blocks for d unless the context is cancelled or the arena is
// stopped. It returns the context error on cancellation and ErrArenaStopped
// once StopAll has run, so backoff loops can distinguish a destroyed widget
// from a timed-out caller.
func (a *TimerArena) Sleep(ctx context.Context, d time.Duration) error {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return ErrArenaStopped
	}
	a.mu.Unlock()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-a.done:
		return ErrArenaStopped
	}
}

// Stopped reports whether StopAll has run.
func (a *TimerArena) Stopped() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stopped
}

// Len reports the number of live timers, used by teardown tests.
func (a *TimerArena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.timers)
}

// StopAll cancels every tracked timer and rejects future registrations.
// Idempotent.
func (a *TimerArena) StopAll() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	a.stopped = true
	timers := make([]stopper, 0, len(a.timers))
	for _, t := range a.timers {
		timers = append(timers, t)
	}
	a.timers = make(map[uint64]stopper)
	close(a.done)
	a.mu.Unlock()

	for _, t := range timers {
		t.Stop()
	}
}

func (a *TimerArena) remove(id uint64) {
	a.mu.Lock()
	timer, ok := a.timers[id]
	if ok {
		delete(a.timers, id)
	}
	a.mu.Unlock()
	if ok {
		timer.Stop()
	}
}

// ErrArenaStopped is returned by Sleep after StopAll.
var ErrArenaStopped = NewError(CodeUnknown, "timer arena stopped")

type guardedTicker struct {
	ticker *time.Ticker
	quit   chan struct{}
	once   sync.Once
}

func (t *guardedTicker) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.quit)
	})
}

// GuardTimer creates a repeating timer whose callback runs inside the
// boundary, so a panicking tick neither kills the timer nor escapes to the
// host. The timer is tracked in the arena and stops with it.
func (b *Boundary) GuardTimer(arena *TimerArena, interval time.Duration, name string, fn func()) TimerHandle {
	if arena == nil || interval <= 0 {
		return TimerHandle{}
	}

	arena.mu.Lock()
	if arena.stopped {
		arena.mu.Unlock()
		return TimerHandle{}
	}
	id := arena.next
	arena.next++
	gt := &guardedTicker{
		ticker: time.NewTicker(interval),
		quit:   make(chan struct{}),
	}
	arena.timers[id] = gt
	arena.mu.Unlock()

	go func() {
		for {
			select {
			case <-gt.ticker.C:
				b.Run(name, func() error {
					fn()
					return nil
				})
			case <-gt.quit:
				return
			case <-arena.done:
				gt.Stop()
				return
			}
		}
	}()

	return TimerHandle{arena: arena, id: id}
}
