package sched

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/khanehapp/khaneh/state"
)

// manualClock collects scheduled callbacks and fires them on demand.
type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := t.stopped
	t.stopped = true
	return !was
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// fireExpired runs every timer that has not been stopped.
func (c *manualClock) fireExpired() {
	c.mu.Lock()
	timers := c.timers
	c.timers = nil
	c.mu.Unlock()
	for _, t := range timers {
		if !t.stopped {
			t.f()
		}
	}
}

type recordingSink struct {
	mu    sync.Mutex
	snaps []state.Snapshot
	err   error
}

func (r *recordingSink) Save(_ context.Context, snap state.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.snaps = append(r.snaps, snap)
	return nil
}

func (r *recordingSink) saved() []state.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]state.Snapshot(nil), r.snaps...)
}

func snapAt(rev uint64) state.Snapshot {
	return state.Snapshot{Revision: rev}
}

func TestBurstCoalescesToOneWrite(t *testing.T) {
	clock := &manualClock{}
	sink := &recordingSink{}
	s := New(sink, WithClock(clock))

	// Five mutations inside one quiet interval
	for rev := uint64(1); rev <= 5; rev++ {
		s.Notify(snapAt(rev))
	}
	clock.fireExpired()

	saved := sink.saved()
	if len(saved) != 1 {
		t.Fatalf("expected 1 write for a burst, got %d", len(saved))
	}
	if saved[0].Revision != 5 {
		t.Errorf("write must carry the final state, got revision %d", saved[0].Revision)
	}
}

func TestSpacedNotificationsEachWrite(t *testing.T) {
	clock := &manualClock{}
	sink := &recordingSink{}
	s := New(sink, WithClock(clock))

	for rev := uint64(1); rev <= 3; rev++ {
		s.Notify(snapAt(rev))
		clock.fireExpired() // quiet interval elapses between mutations
	}

	if got := len(sink.saved()); got != 3 {
		t.Errorf("expected 3 writes for spaced mutations, got %d", got)
	}
}

func TestFlushNowWritesPendingImmediately(t *testing.T) {
	clock := &manualClock{}
	sink := &recordingSink{}
	s := New(sink, WithClock(clock))

	s.Notify(snapAt(7))
	if err := s.FlushNow(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got := len(sink.saved()); got != 1 {
		t.Fatalf("expected immediate write, got %d", got)
	}

	// The armed timer was cancelled; firing it must not double-write
	clock.fireExpired()
	if got := len(sink.saved()); got != 1 {
		t.Errorf("timer fired after flush, %d writes", got)
	}
}

func TestFlushNowWithNothingPending(t *testing.T) {
	s := New(&recordingSink{}, WithClock(&manualClock{}))
	if err := s.FlushNow(); err != nil {
		t.Errorf("idle flush should be a no-op, got %v", err)
	}
}

func TestDisposeDropsPendingWrite(t *testing.T) {
	clock := &manualClock{}
	sink := &recordingSink{}
	s := New(sink, WithClock(clock))

	s.Notify(snapAt(1))
	s.Dispose()
	clock.fireExpired()

	if got := len(sink.saved()); got != 0 {
		t.Errorf("disposed scheduler wrote %d times", got)
	}

	// Notifications after dispose are ignored
	s.Notify(snapAt(2))
	clock.fireExpired()
	if got := len(sink.saved()); got != 0 {
		t.Errorf("notify after dispose wrote %d times", got)
	}
}

func TestWriteFailureDoesNotRetry(t *testing.T) {
	clock := &manualClock{}
	sink := &recordingSink{err: errors.New("storage offline")}
	s := New(sink, WithClock(clock))

	s.Notify(snapAt(1))
	clock.fireExpired()

	// No retry timer was armed
	clock.fireExpired()
	if got := len(sink.saved()); got != 0 {
		t.Errorf("failed write must not be retried automatically, got %d writes", got)
	}

	// The next mutation naturally re-arms a full write
	sink.mu.Lock()
	sink.err = nil
	sink.mu.Unlock()
	s.Notify(snapAt(2))
	clock.fireExpired()
	if got := len(sink.saved()); got != 1 {
		t.Errorf("expected recovery write, got %d", got)
	}
}

func TestSavingIndicatorBracketsWrite(t *testing.T) {
	clock := &manualClock{}
	sink := &recordingSink{}
	var transitions []bool
	s := New(sink,
		WithClock(clock),
		WithSavingIndicator(func(on bool) { transitions = append(transitions, on) }),
	)

	s.Notify(snapAt(1))
	clock.fireExpired()

	if len(transitions) != 2 || !transitions[0] || transitions[1] {
		t.Errorf("indicator transitions = %v, want [true false]", transitions)
	}
}
