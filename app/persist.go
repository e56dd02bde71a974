package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/khanehapp/khaneh/kv"
	"github.com/khanehapp/khaneh/state"
	"github.com/khanehapp/khaneh/store"
)

// persister is the scheduler sink. Items go to the transactional item
// store; the secondary collections and the budget go to their flat keys.
type persister struct {
	items store.ItemStore
	kv    *kv.Store
}

func (p *persister) Save(ctx context.Context, snap state.Snapshot) error {
	if err := p.items.Put(ctx, snap.Items); err != nil {
		return fmt.Errorf("failed to save items: %w", err)
	}
	if err := writeKey(p.kv, kv.KeyIncomes, snap.Incomes); err != nil {
		return err
	}
	if err := writeKey(p.kv, kv.KeyRecurring, snap.Recurring); err != nil {
		return err
	}
	if err := writeKey(p.kv, kv.KeyMealPlan, snap.MealPlan); err != nil {
		return err
	}
	if err := writeKey(p.kv, kv.KeyTasks, snap.Tasks); err != nil {
		return err
	}
	return writeKey(p.kv, kv.KeyBudget, snap.Budget)
}

// writeKey marshals a value under a flat key.
func writeKey(s *kv.Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", key, err)
	}
	if err := s.Set(key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// readKey unmarshals a flat key into v, leaving v untouched when the key
// is absent.
func readKey(s *kv.Store, key string, v any) error {
	data, ok, err := s.Get(key)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return nil
}
