// Package kv implements the flat key/value store that holds the secondary
// collections (incomes, meal plan, house tasks) and the legacy
// pre-migration item key. Each key maps to a single JSON-text file inside
// the store directory; writes share the item store's atomic
// temp-file-plus-rename discipline.
package kv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/khanehapp/khaneh/store"
)

// Well-known keys. These are the persisted-state layout, not arbitrary
// user input; new keys belong here.
const (
	KeyLegacyItems      = "shopping_items"
	KeyIncomes          = "finance_incomes"
	KeyRecurring        = "recurring_items"
	KeyMealPlan         = "meal_plan"
	KeyTasks            = "house_tasks"
	KeyBudget           = "monthly_budget"
	KeyMigrationVersion = "migration_version"
)

// Store is a directory of one-file-per-key JSON text entries.
type Store struct {
	dir string
	fs  store.FileSystem
}

// Option modifies a Store's dependencies.
type Option func(*Store)

// WithFileSystem substitutes the file system, for tests.
func WithFileSystem(fs store.FileSystem) Option {
	return func(s *Store) { s.fs = fs }
}

// New opens (creating if needed) the flat store rooted at dir.
func New(dir string, opts ...Option) (*Store, error) {
	s := &Store{dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	if s.fs == nil {
		s.fs = &store.OSFileSystem{}
	}
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return s, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get returns the value stored under key. The second return is false when
// the key is absent; absence is not an error.
func (s *Store) Get(key string) ([]byte, bool, error) {
	raw, err := s.fs.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return raw, true, nil
}

// Set writes value under key atomically.
func (s *Store) Set(key string, value []byte) error {
	target := s.path(key)
	tmp := target + ".tmp"
	if err := s.fs.WriteFile(tmp, value, 0644); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	if err := s.fs.Rename(tmp, target); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("failed to commit key %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	err := s.fs.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

// Has reports whether key exists.
func (s *Store) Has(key string) (bool, error) {
	_, err := s.fs.Stat(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat key %q: %w", key, err)
	}
	return true, nil
}

// Keys lists the stored keys, in no particular order.
func (s *Store) Keys() ([]string, error) {
	entries, err := s.fs.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list store directory: %w", err)
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	return keys, nil
}
