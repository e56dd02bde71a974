package store

import "sync"

// OperationType defines whether an operation reads or writes store state.
type OperationType int

const (
	// ReadOperation only reads data; concurrent reads may proceed.
	ReadOperation OperationType = iota

	// WriteOperation modifies data; it is exclusive against all other
	// reads and writes.
	WriteOperation
)

// LockManager centralizes in-process locking for store operations. Keeping
// the lock/unlock pairing in one place prevents the lock/unlock/relock
// patterns that tend to deadlock, and guarantees every operation uses the
// right lock type.
type LockManager struct {
	mu *sync.RWMutex
}

// NewLockManager returns a ready-to-use lock manager.
func NewLockManager() *LockManager {
	return &LockManager{mu: &sync.RWMutex{}}
}

// Execute runs fn under the lock appropriate for the operation type. The
// lock is released via defer, so it is cleaned up even if fn panics.
func (lm *LockManager) Execute(opType OperationType, fn func() error) error {
	switch opType {
	case ReadOperation:
		lm.mu.RLock()
		defer lm.mu.RUnlock()
	case WriteOperation:
		lm.mu.Lock()
		defer lm.mu.Unlock()
	}
	return fn()
}
