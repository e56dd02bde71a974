// Package state holds the canonical in-memory copy of every collection:
// items, incomes, recurring obligations, meal plan and house tasks.
//
// The container is the only writer. Every mutation produces a new
// immutable Snapshot with a bumped revision, so the persistence scheduler
// can detect "changed since last write" by comparing revisions and derived
// views can safely hold a snapshot across a computation pass. Persisted
// copies and backups are serializations of snapshots, never sources of
// truth while the process runs.
package state

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/khanehapp/khaneh/store"
	"github.com/khanehapp/khaneh/types"
)

// ErrNotFound is returned by mutations that target a missing record.
var ErrNotFound = errors.New("record not found")

// Snapshot is an immutable view of the canonical state. Slices must not be
// mutated by holders; every mutation goes through the container, which
// copies before writing.
type Snapshot struct {
	Revision  uint64
	Items     []types.Item
	Incomes   []types.IncomeRecord
	Recurring []types.RecurringItem
	MealPlan  []types.MealEntry
	Tasks     []types.HouseTask
	Budget    int
}

// Container owns the canonical state and exposes typed mutations.
type Container struct {
	locks *store.LockManager
	snap  Snapshot

	// injectable for deterministic tests
	timeFunc func() time.Time
	newID    func() string
}

// Option modifies a Container's dependencies.
type Option func(*Container)

// WithTimeFunc sets a custom clock.
func WithTimeFunc(fn func() time.Time) Option {
	return func(c *Container) { c.timeFunc = fn }
}

// WithIDFunc sets a custom identifier generator.
func WithIDFunc(fn func() string) Option {
	return func(c *Container) { c.newID = fn }
}

// New creates a container seeded with the loaded collections. Budget comes
// from configuration, not from storage.
func New(initial Snapshot, opts ...Option) *Container {
	c := &Container{
		locks:    store.NewLockManager(),
		snap:     initial,
		timeFunc: time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.snap.Revision = 0
	return c
}

// Current returns the latest snapshot.
func (c *Container) Current() Snapshot {
	var snap Snapshot
	_ = c.locks.Execute(store.ReadOperation, func() error {
		snap = c.snap
		return nil
	})
	return snap
}

// mutate applies fn to a copy-on-write snapshot under the write lock and
// publishes it with the next revision.
func (c *Container) mutate(fn func(*Snapshot) error) (Snapshot, error) {
	var out Snapshot
	err := c.locks.Execute(store.WriteOperation, func() error {
		next := c.snap
		if err := fn(&next); err != nil {
			return err
		}
		next.Revision = c.snap.Revision + 1
		c.snap = next
		out = next
		return nil
	})
	return out, err
}

func cloneItems(items []types.Item) []types.Item {
	out := make([]types.Item, len(items))
	copy(out, items)
	return out
}

// normalizeItem fills defaults and enforces the mutation-time invariants:
// quantity floor of 1, recognized-or-misc category, creation timestamp set
// exactly once.
func (c *Container) normalizeItem(it types.Item) types.Item {
	if it.ID == "" {
		it.ID = c.newID()
	}
	if it.Quantity < 1 {
		it.Quantity = 1
	}
	if strings.TrimSpace(it.Category) == "" {
		it.Category = types.CategoryMisc
	}
	if !it.Status.Valid() {
		it.Status = types.StatusPending
	}
	if it.DateAdded.IsZero() {
		it.DateAdded = c.timeFunc()
	}
	return it
}

// AddItem creates one item and prepends it to the collection.
func (c *Container) AddItem(it types.Item) (Snapshot, error) {
	return c.mutate(func(s *Snapshot) error {
		next := make([]types.Item, 0, len(s.Items)+1)
		next = append(next, c.normalizeItem(it))
		next = append(next, s.Items...)
		s.Items = next
		return nil
	})
}

// AddItems bulk-prepends items, e.g. from a receipt extraction.
func (c *Container) AddItems(items []types.Item) (Snapshot, error) {
	return c.mutate(func(s *Snapshot) error {
		next := make([]types.Item, 0, len(s.Items)+len(items))
		for _, it := range items {
			next = append(next, c.normalizeItem(it))
		}
		next = append(next, s.Items...)
		s.Items = next
		return nil
	})
}

// EditItem replaces the item with the same ID in place.
func (c *Container) EditItem(updated types.Item) (Snapshot, error) {
	return c.mutate(func(s *Snapshot) error {
		items := cloneItems(s.Items)
		for i := range items {
			if items[i].ID == updated.ID {
				if updated.Quantity < 1 {
					updated.Quantity = 1
				}
				// DateAdded is set at creation; edits don't refresh it
				updated.DateAdded = items[i].DateAdded
				items[i] = updated
				s.Items = items
				return nil
			}
		}
		return ErrNotFound
	})
}

// ToggleStatus flips an item between PENDING and BOUGHT.
func (c *Container) ToggleStatus(id string) (Snapshot, error) {
	return c.mutate(func(s *Snapshot) error {
		items := cloneItems(s.Items)
		for i := range items {
			if items[i].ID == id {
				items[i].Status = items[i].Status.Toggle()
				s.Items = items
				return nil
			}
		}
		return ErrNotFound
	})
}

// AdjustQuantity changes an item's quantity by delta, never below 1.
func (c *Container) AdjustQuantity(id string, delta int) (Snapshot, error) {
	return c.mutate(func(s *Snapshot) error {
		items := cloneItems(s.Items)
		for i := range items {
			if items[i].ID == id {
				q := items[i].Quantity + delta
				if q < 1 {
					q = 1
				}
				items[i].Quantity = q
				s.Items = items
				return nil
			}
		}
		return ErrNotFound
	})
}

// DeleteItem removes an item.
func (c *Container) DeleteItem(id string) (Snapshot, error) {
	return c.mutate(func(s *Snapshot) error {
		items := make([]types.Item, 0, len(s.Items))
		found := false
		for _, it := range s.Items {
			if it.ID == id {
				found = true
				continue
			}
			items = append(items, it)
		}
		if !found {
			return ErrNotFound
		}
		s.Items = items
		return nil
	})
}

// Restock returns a bought item to the shopping list: status back to
// PENDING and DateAdded refreshed. This is the only operation that
// refreshes DateAdded.
func (c *Container) Restock(id string) (Snapshot, error) {
	return c.mutate(func(s *Snapshot) error {
		items := cloneItems(s.Items)
		for i := range items {
			if items[i].ID == id {
				items[i].Status = types.StatusPending
				items[i].DateAdded = c.timeFunc()
				s.Items = items
				return nil
			}
		}
		return ErrNotFound
	})
}

// ReplaceItems swaps the whole item collection, e.g. after a restore.
func (c *Container) ReplaceItems(items []types.Item) (Snapshot, error) {
	return c.mutate(func(s *Snapshot) error {
		s.Items = cloneItems(items)
		return nil
	})
}

// AddIncome appends an income record.
func (c *Container) AddIncome(rec types.IncomeRecord) (Snapshot, error) {
	return c.mutate(func(s *Snapshot) error {
		if rec.ID == "" {
			rec.ID = c.newID()
		}
		if rec.Date.IsZero() {
			rec.Date = c.timeFunc()
		}
		next := make([]types.IncomeRecord, 0, len(s.Incomes)+1)
		next = append(next, s.Incomes...)
		next = append(next, rec)
		s.Incomes = next
		return nil
	})
}

// DeleteIncome removes an income record.
func (c *Container) DeleteIncome(id string) (Snapshot, error) {
	return c.mutate(func(s *Snapshot) error {
		next := make([]types.IncomeRecord, 0, len(s.Incomes))
		found := false
		for _, rec := range s.Incomes {
			if rec.ID == id {
				found = true
				continue
			}
			next = append(next, rec)
		}
		if !found {
			return ErrNotFound
		}
		s.Incomes = next
		return nil
	})
}

// SetRecurring replaces the recurring obligations wholesale; their
// lifecycle is owned by the presentation layer.
func (c *Container) SetRecurring(items []types.RecurringItem) (Snapshot, error) {
	return c.mutate(func(s *Snapshot) error {
		next := make([]types.RecurringItem, len(items))
		copy(next, items)
		s.Recurring = next
		return nil
	})
}

// SetMealPlan replaces the meal plan wholesale (bulk AI generation or
// manual editing both go through here).
func (c *Container) SetMealPlan(plan []types.MealEntry) (Snapshot, error) {
	return c.mutate(func(s *Snapshot) error {
		next := make([]types.MealEntry, len(plan))
		copy(next, plan)
		for i := range next {
			if next[i].ID == "" {
				next[i].ID = c.newID()
			}
		}
		s.MealPlan = next
		return nil
	})
}

// ToggleCooked flips a meal's cooked flag and returns the entry as it is
// after the toggle, so the caller can orchestrate ingredient deduction.
func (c *Container) ToggleCooked(id string) (types.MealEntry, Snapshot, error) {
	var toggled types.MealEntry
	snap, err := c.mutate(func(s *Snapshot) error {
		plan := make([]types.MealEntry, len(s.MealPlan))
		copy(plan, s.MealPlan)
		for i := range plan {
			if plan[i].ID == id {
				plan[i].IsCooked = !plan[i].IsCooked
				toggled = plan[i]
				s.MealPlan = plan
				return nil
			}
		}
		return ErrNotFound
	})
	return toggled, snap, err
}

// AddTask creates a house task due immediately.
func (c *Container) AddTask(task types.HouseTask) (Snapshot, error) {
	return c.mutate(func(s *Snapshot) error {
		if task.ID == "" {
			task.ID = c.newID()
		}
		if task.NextDue.IsZero() {
			task.NextDue = c.timeFunc()
		}
		next := make([]types.HouseTask, 0, len(s.Tasks)+1)
		next = append(next, s.Tasks...)
		next = append(next, task)
		s.Tasks = next
		return nil
	})
}

// DeleteTask removes a house task.
func (c *Container) DeleteTask(id string) (Snapshot, error) {
	return c.mutate(func(s *Snapshot) error {
		next := make([]types.HouseTask, 0, len(s.Tasks))
		found := false
		for _, task := range s.Tasks {
			if task.ID == id {
				found = true
				continue
			}
			next = append(next, task)
		}
		if !found {
			return ErrNotFound
		}
		s.Tasks = next
		return nil
	})
}

// ToggleTask marks a task done or undoes that. Completion records
// LastDone and advances NextDue by the frequency's day delta; undoing
// reverses the advance and clears LastDone. ONCE tasks never reschedule.
func (c *Container) ToggleTask(id string) (Snapshot, error) {
	return c.mutate(func(s *Snapshot) error {
		tasks := make([]types.HouseTask, len(s.Tasks))
		copy(tasks, s.Tasks)
		for i := range tasks {
			if tasks[i].ID != id {
				continue
			}
			task := tasks[i]
			days := task.Frequency.RescheduleDays()
			if task.DoneToday {
				task.DoneToday = false
				task.LastDone = nil
				task.NextDue = task.NextDue.AddDate(0, 0, -days)
			} else {
				now := c.timeFunc()
				task.DoneToday = true
				task.LastDone = &now
				task.NextDue = task.NextDue.AddDate(0, 0, days)
			}
			tasks[i] = task
			s.Tasks = tasks
			return nil
		}
		return ErrNotFound
	})
}

// SetBudget sets the configured monthly budget scalar.
func (c *Container) SetBudget(budget int) (Snapshot, error) {
	return c.mutate(func(s *Snapshot) error {
		if budget < 0 {
			budget = 0
		}
		s.Budget = budget
		return nil
	})
}

// Restore replaces the collections covered by a backup document. Tasks are
// intentionally left alone unless the document carries them; that mirrors
// the backup envelope, where tasks are an optional field.
func (c *Container) Restore(items []types.Item, incomes []types.IncomeRecord, recurring []types.RecurringItem, plan []types.MealEntry, tasks []types.HouseTask, budget int) (Snapshot, error) {
	return c.mutate(func(s *Snapshot) error {
		s.Items = cloneItems(items)
		s.Incomes = append([]types.IncomeRecord(nil), incomes...)
		s.Recurring = append([]types.RecurringItem(nil), recurring...)
		s.MealPlan = append([]types.MealEntry(nil), plan...)
		if tasks != nil {
			s.Tasks = append([]types.HouseTask(nil), tasks...)
		}
		if budget >= 0 {
			s.Budget = budget
		}
		return nil
	})
}
