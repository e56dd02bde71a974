// Package sched implements the debounced autosave pipeline. It observes
// canonical-state snapshots and commits the latest one to durable storage
// after a quiet interval, coalescing bursts of mutations into one write.
//
// The scheduler is deliberately independent of any presentation concern:
// it is driven entirely through Notify/FlushNow/Dispose, and its clock is
// injectable so tests advance time manually instead of sleeping.
package sched

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/khanehapp/khaneh/state"
)

// DefaultDelay is the debounce quiet interval.
const DefaultDelay = 2000 * time.Millisecond

// Sink receives the coalesced snapshot when the debounce fires. The app
// layer's sink writes items to the transactional item store and the other
// collections to their flat keys.
type Sink interface {
	Save(ctx context.Context, snap state.Snapshot) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, snap state.Snapshot) error

func (f SinkFunc) Save(ctx context.Context, snap state.Snapshot) error {
	return f(ctx, snap)
}

// Timer is the stoppable handle returned by a Clock.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. The real implementation delegates to
// time.AfterFunc; tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Scheduler debounces snapshot writes. Construct it only after the initial
// load has completed, so a startup notification can never persist an
// empty collection over previously saved data.
type Scheduler struct {
	mu       sync.Mutex
	delay    time.Duration
	clock    Clock
	sink     Sink
	onSaving func(bool)
	logger   *slog.Logger

	timer    Timer
	pending  *state.Snapshot
	disposed bool
}

// Option modifies a Scheduler.
type Option func(*Scheduler)

// WithDelay overrides the debounce interval.
func WithDelay(d time.Duration) Option {
	return func(s *Scheduler) { s.delay = d }
}

// WithClock substitutes the timer source, for tests.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithSavingIndicator registers a callback invoked with true when a write
// starts and false when it finishes, for a transient "saving" indicator.
func WithSavingIndicator(fn func(bool)) Option {
	return func(s *Scheduler) { s.onSaving = fn }
}

// WithLogger sets the logger for write failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// New creates a scheduler writing through sink.
func New(sink Sink, opts ...Option) *Scheduler {
	s := &Scheduler{
		delay:  DefaultDelay,
		clock:  realClock{},
		sink:   sink,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notify records the latest snapshot and re-arms the debounce timer,
// cancelling any pending one. A stream of notifications arriving faster
// than the delay produces exactly one write, issued after the stream goes
// quiet for the full interval.
func (s *Scheduler) Notify(snap state.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return
	}
	s.pending = &snap
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = s.clock.AfterFunc(s.delay, s.fire)
}

// fire runs when the debounce interval elapses with no new notifications.
func (s *Scheduler) fire() {
	s.mu.Lock()
	snap := s.pending
	s.pending = nil
	s.timer = nil
	disposed := s.disposed
	s.mu.Unlock()

	if snap == nil || disposed {
		return
	}
	s.write(*snap)
}

// FlushNow cancels any pending timer and writes the latest snapshot
// synchronously. With nothing pending it is a no-op.
func (s *Scheduler) FlushNow() error {
	s.mu.Lock()
	snap := s.pending
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	if snap == nil {
		return nil
	}
	return s.write(*snap)
}

// Dispose stops the scheduler. Pending state is dropped; call FlushNow
// first for a clean shutdown.
func (s *Scheduler) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.disposed = true
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// write commits one snapshot. A failure is logged and dropped: in-memory
// state stays authoritative and the next mutation re-arms a full write.
func (s *Scheduler) write(snap state.Snapshot) error {
	if s.onSaving != nil {
		s.onSaving(true)
		defer s.onSaving(false)
	}
	if err := s.sink.Save(context.Background(), snap); err != nil {
		s.logger.Error("autosave failed", "revision", snap.Revision, "error", err)
		return err
	}
	return nil
}
