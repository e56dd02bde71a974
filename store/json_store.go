package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/khanehapp/khaneh/types"
)

// storeVersion is written into the envelope metadata.
const storeVersion = "1.0"

// Constants for file locking.
const (
	lockTimeout    = 3 * time.Second
	lockMaxRetries = 3
	lockRetryDelay = 100 * time.Millisecond
)

// jsonItemStore implements ItemStore and TestItemStore on a JSON file.
type jsonItemStore struct {
	filePath    string
	lockManager *LockManager

	// File system abstractions, injectable for tests
	fs          FileSystem
	lockFactory FileLockFactory
	fileLock    FileLock // cross-process file locking

	// timeFunc supplies envelope timestamps, defaults to time.Now
	timeFunc func() time.Time
}

// New creates an item store backed by the JSON file at filePath. The file
// does not need to exist; the first Put creates it.
func New(filePath string) (ItemStore, error) {
	return newJSONItemStore(filePath)
}

// NewWithOptions creates an item store with custom dependencies. This is
// how tests substitute mock file systems, locks and clocks.
func NewWithOptions(filePath string, opts ...Option) (ItemStore, error) {
	return newJSONItemStore(filePath, opts...)
}

func newJSONItemStore(filePath string, opts ...Option) (*jsonItemStore, error) {
	s := &jsonItemStore{
		filePath:    filePath,
		lockManager: NewLockManager(),
		timeFunc:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.fs == nil {
		s.fs = &OSFileSystem{}
	}
	if s.lockFactory == nil {
		s.lockFactory = &FlockFactory{}
	}
	s.fileLock = s.lockFactory.New(filePath + ".lock")

	return s, nil
}

// SetTimeFunc sets a custom time function for deterministic timestamps.
func (s *jsonItemStore) SetTimeFunc(fn func() time.Time) {
	_ = s.lockManager.Execute(WriteOperation, func() error {
		s.timeFunc = fn
		return nil
	})
}

// acquireLock attempts to acquire the exclusive file lock with retries.
func (s *jsonItemStore) acquireLock(ctx context.Context) error {
	for i := 0; i < lockMaxRetries; i++ {
		locked, err := s.fileLock.TryLockContext(ctx, lockRetryDelay)
		if err != nil {
			return fmt.Errorf("failed to acquire lock: %w", err)
		}
		if locked {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}

	return fmt.Errorf("failed to acquire lock after %d attempts", lockMaxRetries)
}

func (s *jsonItemStore) releaseLock() error {
	return s.fileLock.Unlock()
}

// Get returns the last committed collection, or empty when the file has
// never been written.
func (s *jsonItemStore) Get(ctx context.Context) ([]types.Item, error) {
	var items []types.Item
	err := s.lockManager.Execute(ReadOperation, func() error {
		lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
		defer cancel()

		if err := s.acquireLock(lockCtx); err != nil {
			return err
		}
		defer func() { _ = s.releaseLock() }()

		data, err := s.load()
		if err != nil {
			return err
		}
		items = data.Items
		return nil
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []types.Item{}
	}
	return items, nil
}

// Put replaces the whole collection atomically.
func (s *jsonItemStore) Put(ctx context.Context, items []types.Item) error {
	return s.lockManager.Execute(WriteOperation, func() error {
		lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
		defer cancel()

		if err := s.acquireLock(lockCtx); err != nil {
			return err
		}
		defer func() { _ = s.releaseLock() }()

		// an unreadable or corrupt file is replaced wholesale; the write
		// itself still surfaces errors
		existing, err := s.load()
		if err != nil {
			existing = &StoreData{Items: []types.Item{}}
		}

		data := &StoreData{
			Items:    items,
			Metadata: existing.Metadata,
		}
		if data.Items == nil {
			data.Items = []types.Item{}
		}
		if data.Metadata.Version == "" {
			data.Metadata.Version = storeVersion
			data.Metadata.CreatedAt = s.timeFunc()
		}
		return s.save(data)
	})
}

// Clear removes all persisted items. Idempotent.
func (s *jsonItemStore) Clear(ctx context.Context) error {
	return s.Put(ctx, []types.Item{})
}

// Close releases resources. The file lock is acquired per operation, so
// there is nothing held between calls.
func (s *jsonItemStore) Close() error {
	return nil
}

// load reads the JSON file into an envelope. Caller must hold the lock.
func (s *jsonItemStore) load() (*StoreData, error) {
	empty := &StoreData{Items: []types.Item{}}

	if _, err := s.fs.Stat(s.filePath); errors.Is(err, os.ErrNotExist) {
		// File doesn't exist yet, that's OK
		return empty, nil
	}

	raw, err := s.fs.ReadFile(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(raw) == 0 {
		return empty, nil
	}

	var data StoreData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if data.Items == nil {
		data.Items = []types.Item{}
	}
	return &data, nil
}

// save writes the envelope to the JSON file atomically: write to a temp
// file, then rename over the target. Caller must hold the lock.
func (s *jsonItemStore) save(data *StoreData) error {
	data.Metadata.UpdatedAt = s.timeFunc()

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	tmpFile := s.filePath + ".tmp"
	if err := s.fs.WriteFile(tmpFile, raw, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	// Rename is atomic on most filesystems
	if err := s.fs.Rename(tmpFile, s.filePath); err != nil {
		_ = s.fs.Remove(tmpFile)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
