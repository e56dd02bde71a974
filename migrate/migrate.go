// Package migrate moves the legacy flat-key item collection into the
// transactional item store, exactly once.
//
// Ordering matters: the legacy content is committed to the new store
// before the legacy key is deleted, so a crash mid-migration can duplicate
// data but never lose it. A persisted marker key records that migration
// ran, which makes the "already migrated" check robust against the legacy
// key being reintroduced by an out-of-band restore.
package migrate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/khanehapp/khaneh/kv"
	"github.com/khanehapp/khaneh/store"
	"github.com/khanehapp/khaneh/types"
)

// Version is written under the marker key after a successful migration.
const Version = "1"

// Result reports what a migration pass did.
type Result struct {
	// Items is the migrated collection. Non-nil only when a migration
	// actually ran; the caller uses it as the authoritative initial state
	// and skips the normal load path.
	Items []types.Item

	// Migrated reports whether legacy data was moved this pass.
	Migrated bool

	// LegacyReintroduced reports that a legacy key was found even though
	// the marker says migration already ran. The key is left untouched;
	// the caller should log it.
	LegacyReintroduced bool
}

// Run performs the one-time legacy migration. It must be called at startup
// before any other access to the item store.
//
// With no legacy data (or with the marker already present) it returns a
// zero Result and the caller loads from the item store as usual. A corrupt
// legacy payload aborts the migration with an error; startup should log it
// and fall through to the normal load path.
func Run(ctx context.Context, legacy *kv.Store, items store.ItemStore) (*Result, error) {
	done, err := legacy.Has(kv.KeyMigrationVersion)
	if err != nil {
		return nil, fmt.Errorf("migration marker check failed: %w", err)
	}

	raw, present, err := legacy.Get(kv.KeyLegacyItems)
	if err != nil {
		return nil, fmt.Errorf("legacy store read failed: %w", err)
	}

	if done {
		// Marker wins. A reappearing legacy key is reported, not re-run.
		return &Result{LegacyReintroduced: present}, nil
	}
	if !present {
		return &Result{}, nil
	}

	var migrated []types.Item
	if err := json.Unmarshal(raw, &migrated); err != nil {
		return nil, fmt.Errorf("legacy items are corrupt: %w", err)
	}

	// Commit to the new store before touching the legacy copy.
	if err := items.Put(ctx, migrated); err != nil {
		return nil, fmt.Errorf("failed to commit migrated items: %w", err)
	}
	if err := legacy.Delete(kv.KeyLegacyItems); err != nil {
		return nil, fmt.Errorf("failed to delete legacy key: %w", err)
	}
	if err := legacy.Set(kv.KeyMigrationVersion, []byte(Version)); err != nil {
		return nil, fmt.Errorf("failed to write migration marker: %w", err)
	}

	return &Result{Items: migrated, Migrated: true}, nil
}
