// Package store implements the transactional item store: a single-table,
// file-backed key/value store that holds the full shopping/pantry item
// collection under one logical key.
//
// The "transaction" scope is the whole-collection replace. Put writes the
// entire collection atomically (temp file plus rename, guarded by a
// cross-process file lock), so partial writes are never observable to a
// subsequent Get. That is sufficient because the collection is always read
// and written as a unit; this is not a general-purpose multi-record
// database.
package store

import (
	"context"
	"time"

	"github.com/khanehapp/khaneh/types"
)

// ItemStore is the contract the rest of the application depends on.
//
// All operations surface failures as errors; a failed open of the backing
// file or a failed read/write inside the replace is never silently folded
// into an alternate state. Callers log and decide.
type ItemStore interface {
	// Put persists the entire item collection atomically under the
	// store's single logical key, replacing whatever was there.
	Put(ctx context.Context, items []types.Item) error

	// Get returns the most recently committed collection, or an empty
	// collection if nothing has been committed yet.
	Get(ctx context.Context) ([]types.Item, error)

	// Clear atomically removes all persisted items. Clearing an already
	// empty store is a no-op, not an error.
	Clear(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// TestItemStore extends ItemStore with hooks for deterministic tests.
type TestItemStore interface {
	ItemStore

	// SetTimeFunc overrides the clock used for envelope metadata.
	SetTimeFunc(fn func() time.Time)
}

// StoreData is the on-disk envelope: the collection plus bookkeeping
// metadata. The envelope, not the bare array, is what the file holds.
type StoreData struct {
	Items    []types.Item `json:"items"`
	Metadata Metadata     `json:"metadata"`
}

// Metadata records envelope bookkeeping.
type Metadata struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
