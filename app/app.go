// Package app wires the persistence stores, the canonical state, the
// autosave scheduler and the assistant into one facade. Every mutating
// entry point funnels through here so a state change is always followed
// by a scheduler notification.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/khanehapp/khaneh/assist"
	"github.com/khanehapp/khaneh/backup"
	"github.com/khanehapp/khaneh/calendar"
	"github.com/khanehapp/khaneh/config"
	"github.com/khanehapp/khaneh/internal/matching"
	"github.com/khanehapp/khaneh/internal/validation"
	"github.com/khanehapp/khaneh/kv"
	"github.com/khanehapp/khaneh/migrate"
	"github.com/khanehapp/khaneh/sched"
	"github.com/khanehapp/khaneh/state"
	"github.com/khanehapp/khaneh/store"
	"github.com/khanehapp/khaneh/types"
)

// ErrEmptyBackup reports a restore payload that carries no data. Applying
// it would wipe the household, so callers must pass force to proceed.
var ErrEmptyBackup = errors.New("backup is empty; restoring would erase all data")

// itemStoreFile is the item store filename inside the data directory.
const itemStoreFile = "items.json"

// kvDir is the flat-store subdirectory inside the data directory.
const kvDir = "kv"

// App is the application facade.
type App struct {
	cfg       *config.Config
	items     store.ItemStore
	kv        *kv.Store
	state     *state.Container
	sched     *sched.Scheduler
	cal       calendar.Calendar
	assistant assist.Assistant
	logger    *slog.Logger
	nowFunc   func() time.Time
}

// Option adjusts an App's dependencies before it starts.
type Option func(*App)

// WithLogger substitutes the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithAssistant substitutes the assistant, for tests or custom backends.
func WithAssistant(as assist.Assistant) Option {
	return func(a *App) { a.assistant = as }
}

// WithTimeFunc substitutes the clock used for stamping new records.
func WithTimeFunc(fn func() time.Time) Option {
	return func(a *App) { a.nowFunc = fn }
}

// Open loads persisted state, runs the one-time legacy migration, and
// starts the autosave scheduler. The scheduler is created only after the
// initial load completes, so startup can never persist empty collections
// over existing data.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	a := &App{
		cfg:     cfg,
		logger:  slog.Default(),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	var err error
	a.kv, err = kv.New(filepath.Join(cfg.DataDir, kvDir))
	if err != nil {
		return nil, fmt.Errorf("failed to open key-value store: %w", err)
	}

	a.items, err = store.New(filepath.Join(cfg.DataDir, itemStoreFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open item store: %w", err)
	}

	result, err := migrate.Run(ctx, a.kv, a.items)
	switch {
	case err != nil:
		// a corrupt legacy payload must not block startup; the key is
		// left in place for manual inspection
		a.logger.Error("legacy migration failed", "error", err)
	case result.Migrated:
		a.logger.Info("migrated legacy items", "count", len(result.Items))
	case result.LegacyReintroduced:
		a.logger.Warn("legacy item key reappeared after migration; ignoring it")
	}

	a.state = state.New(a.loadInitial(ctx), state.WithTimeFunc(a.nowFunc))
	a.cal = calendar.ForName(cfg.Calendar)

	if a.assistant == nil {
		if cfg.AI.Enabled() {
			a.assistant, err = assist.NewService(assist.Config{
				BaseURL: cfg.AI.BaseURL,
				Model:   cfg.AI.Model,
				APIKey:  cfg.AI.APIKey,
			})
			if err != nil {
				a.items.Close()
				return nil, fmt.Errorf("failed to configure assistant: %w", err)
			}
		} else {
			a.assistant = assist.Disabled{}
		}
	}

	sink := &persister{items: a.items, kv: a.kv}
	a.sched = sched.New(sink,
		sched.WithDelay(cfg.SaveDelay),
		sched.WithLogger(a.logger),
	)

	return a, nil
}

// loadInitial reads every persisted collection. An unreadable or corrupt
// collection is logged and replaced with an empty one so startup never
// fails on bad data.
func (a *App) loadInitial(ctx context.Context) state.Snapshot {
	var snap state.Snapshot

	items, err := a.items.Get(ctx)
	if err != nil {
		a.logger.Error("failed to load items, starting empty", "error", err)
	}
	snap.Items = items

	a.readCollection(kv.KeyIncomes, &snap.Incomes)
	a.readCollection(kv.KeyRecurring, &snap.Recurring)
	a.readCollection(kv.KeyMealPlan, &snap.MealPlan)
	a.readCollection(kv.KeyTasks, &snap.Tasks)

	// the configured budget seeds a fresh install; a persisted budget wins
	snap.Budget = a.cfg.MonthlyBudget
	a.readCollection(kv.KeyBudget, &snap.Budget)

	return snap
}

func (a *App) readCollection(key string, v any) {
	if err := readKey(a.kv, key, v); err != nil {
		a.logger.Error("failed to load collection, starting empty", "key", key, "error", err)
	}
}

// Snapshot returns the current immutable state.
func (a *App) Snapshot() state.Snapshot {
	return a.state.Current()
}

// Calendar returns the configured display calendar.
func (a *App) Calendar() calendar.Calendar {
	return a.cal
}

// Assistant returns the configured assistant.
func (a *App) Assistant() assist.Assistant {
	return a.assistant
}

// notify forwards a successful mutation to the autosave scheduler.
func (a *App) notify(snap state.Snapshot, err error) (state.Snapshot, error) {
	if err != nil {
		return snap, err
	}
	a.sched.Notify(snap)
	return snap, nil
}

// AddItem adds one shopping item.
func (a *App) AddItem(it types.Item) (state.Snapshot, error) {
	if err := validation.ValidateItem(it); err != nil {
		return a.state.Current(), err
	}
	return a.notify(a.state.AddItem(it))
}

// AddItems adds several items at once, e.g. from receipt extraction.
func (a *App) AddItems(items []types.Item) (state.Snapshot, error) {
	for _, it := range items {
		if err := validation.ValidateItem(it); err != nil {
			return a.state.Current(), err
		}
	}
	return a.notify(a.state.AddItems(items))
}

// EditItem replaces an item's editable fields.
func (a *App) EditItem(it types.Item) (state.Snapshot, error) {
	if err := validation.ValidateItem(it); err != nil {
		return a.state.Current(), err
	}
	return a.notify(a.state.EditItem(it))
}

// ToggleItem flips an item between PENDING and BOUGHT.
func (a *App) ToggleItem(id string) (state.Snapshot, error) {
	return a.notify(a.state.ToggleStatus(id))
}

// AdjustQuantity changes an item's quantity by delta, floored at one.
func (a *App) AdjustQuantity(id string, delta int) (state.Snapshot, error) {
	return a.notify(a.state.AdjustQuantity(id, delta))
}

// DeleteItem removes an item.
func (a *App) DeleteItem(id string) (state.Snapshot, error) {
	return a.notify(a.state.DeleteItem(id))
}

// Restock puts a pantry item back on the shopping list.
func (a *App) Restock(id string) (state.Snapshot, error) {
	return a.notify(a.state.Restock(id))
}

// AddIncome records an income entry.
func (a *App) AddIncome(rec types.IncomeRecord) (state.Snapshot, error) {
	if err := validation.ValidateIncome(rec); err != nil {
		return a.state.Current(), err
	}
	return a.notify(a.state.AddIncome(rec))
}

// DeleteIncome removes an income entry.
func (a *App) DeleteIncome(id string) (state.Snapshot, error) {
	return a.notify(a.state.DeleteIncome(id))
}

// SetRecurring replaces the recurring obligations.
func (a *App) SetRecurring(items []types.RecurringItem) (state.Snapshot, error) {
	return a.notify(a.state.SetRecurring(items))
}

// SetMealPlan replaces the weekly meal plan.
func (a *App) SetMealPlan(plan []types.MealEntry) (state.Snapshot, error) {
	return a.notify(a.state.SetMealPlan(plan))
}

// ToggleCooked flips a meal's cooked flag. When the meal turns cooked and
// consume is set, its ingredients are deducted from the pantry.
func (a *App) ToggleCooked(id string, consume bool) (types.MealEntry, error) {
	entry, snap, err := a.state.ToggleCooked(id)
	if err != nil {
		return entry, err
	}
	a.sched.Notify(snap)

	if entry.IsCooked && consume && len(entry.Ingredients) > 0 {
		if _, err := a.ConsumeIngredients(entry.Ingredients); err != nil {
			return entry, err
		}
	}
	return entry, nil
}

// ConsumeIngredients deducts one unit of each matched pantry item. An
// item consumed down to zero goes back on the shopping list the same way
// Restock puts it there. Unmatched ingredients are skipped.
func (a *App) ConsumeIngredients(ingredients []string) (state.Snapshot, error) {
	snap := a.state.Current()
	items := make([]types.Item, len(snap.Items))
	copy(items, snap.Items)

	for _, ing := range ingredients {
		i := matching.FindInPantry(items, ing)
		if i < 0 {
			continue
		}
		items[i].Quantity--
		if items[i].Quantity <= 0 {
			items[i].Quantity = 1
			items[i].Status = types.StatusPending
			items[i].DateAdded = a.nowFunc()
		}
	}
	return a.notify(a.state.ReplaceItems(items))
}

// AddTask adds a house task.
func (a *App) AddTask(task types.HouseTask) (state.Snapshot, error) {
	if err := validation.ValidateTask(task); err != nil {
		return a.state.Current(), err
	}
	if task.Frequency == "" {
		task.Frequency = types.FreqOnce
	}
	return a.notify(a.state.AddTask(task))
}

// DeleteTask removes a house task.
func (a *App) DeleteTask(id string) (state.Snapshot, error) {
	return a.notify(a.state.DeleteTask(id))
}

// ToggleTask completes or un-completes a task for today, rescheduling
// its next due date by the task's frequency.
func (a *App) ToggleTask(id string) (state.Snapshot, error) {
	return a.notify(a.state.ToggleTask(id))
}

// ResetItems wipes the whole item collection. Incomes, meal plan and
// tasks are untouched.
func (a *App) ResetItems() (state.Snapshot, error) {
	return a.notify(a.state.ReplaceItems(nil))
}

// SetBudget sets the monthly budget ceiling.
func (a *App) SetBudget(budget int) (state.Snapshot, error) {
	return a.notify(a.state.SetBudget(budget))
}

// Backup serializes the current state into a backup envelope and returns
// it with a suggested filename.
func (a *App) Backup() ([]byte, string, error) {
	now := a.nowFunc()
	data, err := backup.Export(a.state.Current(), now)
	if err != nil {
		return nil, "", err
	}
	return data, backup.Filename(now), nil
}

// Restore replaces the whole household state from a backup payload and
// flushes it to disk immediately. An empty envelope would wipe the
// household, so it is applied only when confirmEmpty says so; a nil
// callback rejects it with ErrEmptyBackup.
func (a *App) Restore(data []byte, confirmEmpty func() bool) error {
	env, err := backup.Decode(data)
	if err != nil {
		return err
	}
	if env.Empty() && (confirmEmpty == nil || !confirmEmpty()) {
		return ErrEmptyBackup
	}

	snap, err := a.state.Restore(env.Items, env.Incomes, env.RecurringItems, env.MealPlan, env.Tasks, env.Budget)
	if err != nil {
		return err
	}
	a.sched.Notify(snap)
	return a.sched.FlushNow()
}

// Flush forces any pending autosave to disk now.
func (a *App) Flush() error {
	return a.sched.FlushNow()
}

// Close flushes pending writes, stops the scheduler and releases the
// store lock.
func (a *App) Close() error {
	flushErr := a.sched.FlushNow()
	a.sched.Dispose()
	closeErr := a.items.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
