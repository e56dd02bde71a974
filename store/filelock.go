package store

import (
	"context"
	"time"

	"github.com/gofrs/flock"
)

// FileLock guards the store file against other processes.
type FileLock interface {
	// TryLockContext attempts to acquire an exclusive lock with retries
	TryLockContext(ctx context.Context, retryInterval time.Duration) (bool, error)

	// Unlock releases the lock
	Unlock() error
}

// FileLockFactory creates FileLock instances.
type FileLockFactory interface {
	New(path string) FileLock
}

// FlockWrapper adapts github.com/gofrs/flock to the FileLock interface.
type FlockWrapper struct {
	flock *flock.Flock
}

func (f *FlockWrapper) TryLockContext(ctx context.Context, retryInterval time.Duration) (bool, error) {
	return f.flock.TryLockContext(ctx, retryInterval)
}

func (f *FlockWrapper) Unlock() error {
	return f.flock.Unlock()
}

// FlockFactory is the default factory, backed by flock.
type FlockFactory struct{}

func (FlockFactory) New(path string) FileLock {
	return &FlockWrapper{flock: flock.New(path)}
}
