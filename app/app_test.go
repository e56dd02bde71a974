package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khanehapp/khaneh/config"
	"github.com/khanehapp/khaneh/kv"
	"github.com/khanehapp/khaneh/types"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DataDir:       t.TempDir(),
		MonthlyBudget: 10000,
		SaveDelay:     20 * time.Millisecond,
		Calendar:      "gregorian",
	}
}

func openApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestOpenFreshInstall(t *testing.T) {
	cfg := testConfig(t)
	a := openApp(t, cfg)

	snap := a.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Empty(t, snap.Tasks)
	assert.Equal(t, 10000, snap.Budget, "configured budget seeds a fresh install")
}

func TestMutationsPersistAcrossReopen(t *testing.T) {
	cfg := testConfig(t)

	a := openApp(t, cfg)
	_, err := a.AddItem(types.Item{Name: "Milk", Category: "Groceries", Price: 50, Quantity: 2, Unit: "pc"})
	require.NoError(t, err)
	_, err = a.AddIncome(types.IncomeRecord{Title: "Salary", Amount: 5000})
	require.NoError(t, err)
	_, err = a.SetBudget(7000)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b := openApp(t, cfg)
	snap := b.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "Milk", snap.Items[0].Name)
	assert.NotEmpty(t, snap.Items[0].ID)
	require.Len(t, snap.Incomes, 1)
	assert.Equal(t, 7000, snap.Budget, "persisted budget wins over configured seed")
}

func TestLegacyMigrationOnOpen(t *testing.T) {
	cfg := testConfig(t)

	legacy := []types.Item{
		{ID: "l1", Name: "Rice", Category: "Groceries", Price: 80, Quantity: 1, Unit: "kg", Status: types.StatusPending, DateAdded: time.Now().UTC()},
	}
	payload, err := json.Marshal(legacy)
	require.NoError(t, err)

	seed, err := kv.New(filepath.Join(cfg.DataDir, "kv"))
	require.NoError(t, err)
	require.NoError(t, seed.Set(kv.KeyLegacyItems, payload))

	a := openApp(t, cfg)
	snap := a.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "Rice", snap.Items[0].Name)

	has, err := seed.Has(kv.KeyLegacyItems)
	require.NoError(t, err)
	assert.False(t, has, "legacy key must be deleted after commit")
}

func TestOpenSurvivesCorruptItemFile(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DataDir, itemStoreFile), []byte(`{not json`), 0o644))

	a := openApp(t, cfg)
	snap := a.Snapshot()
	assert.Empty(t, snap.Items, "an unreadable item file starts an empty collection")

	_, err := a.AddItem(types.Item{Name: "Milk", Category: "Groceries", Price: 50, Quantity: 1, Unit: "pc"})
	require.NoError(t, err)
	assert.Len(t, a.Snapshot().Items, 1)
}

func TestConsumeIngredientsDeductsPantry(t *testing.T) {
	cfg := testConfig(t)
	a := openApp(t, cfg)

	snap, err := a.AddItems([]types.Item{
		{Name: "Tomato", Category: "Fruits & Vegetables", Price: 10, Quantity: 3, Unit: "kg"},
		{Name: "Onion", Category: "Fruits & Vegetables", Price: 5, Quantity: 1, Unit: "kg"},
	})
	require.NoError(t, err)
	for _, it := range snap.Items {
		_, err = a.ToggleItem(it.ID)
		require.NoError(t, err)
	}

	snap, err = a.ConsumeIngredients([]string{"tomato", "onion", "saffron"})
	require.NoError(t, err)

	byName := map[string]types.Item{}
	for _, it := range snap.Items {
		byName[it.Name] = it
	}
	assert.Equal(t, 2, byName["Tomato"].Quantity)
	assert.Equal(t, types.StatusBought, byName["Tomato"].Status)
	assert.Equal(t, types.StatusPending, byName["Onion"].Status, "fully consumed items go back on the list")
	assert.Equal(t, 1, byName["Onion"].Quantity)
}

func TestToggleCookedConsumes(t *testing.T) {
	cfg := testConfig(t)
	a := openApp(t, cfg)

	snap, err := a.AddItem(types.Item{Name: "Pasta", Category: "Groceries", Price: 20, Quantity: 2, Unit: "pack"})
	require.NoError(t, err)
	_, err = a.ToggleItem(snap.Items[0].ID)
	require.NoError(t, err)

	snap, err = a.SetMealPlan([]types.MealEntry{
		{Day: "Saturday", Type: types.MealDinner, FoodName: "Pasta Night", Ingredients: []string{"pasta"}},
	})
	require.NoError(t, err)

	entry, err := a.ToggleCooked(snap.MealPlan[0].ID, true)
	require.NoError(t, err)
	assert.True(t, entry.IsCooked)
	assert.Equal(t, 1, a.Snapshot().Items[0].Quantity)

	// toggling back off never un-consumes
	entry, err = a.ToggleCooked(snap.MealPlan[0].ID, true)
	require.NoError(t, err)
	assert.False(t, entry.IsCooked)
	assert.Equal(t, 1, a.Snapshot().Items[0].Quantity)
}

func TestResetItemsKeepsOtherCollections(t *testing.T) {
	cfg := testConfig(t)
	a := openApp(t, cfg)

	_, err := a.AddItem(types.Item{Name: "Milk", Category: "Groceries", Price: 50, Quantity: 1, Unit: "pc"})
	require.NoError(t, err)
	_, err = a.AddIncome(types.IncomeRecord{Title: "Salary", Amount: 5000})
	require.NoError(t, err)

	snap, err := a.ResetItems()
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
	assert.Len(t, snap.Incomes, 1)
}

func TestInvalidInputRejected(t *testing.T) {
	cfg := testConfig(t)
	a := openApp(t, cfg)

	_, err := a.AddItem(types.Item{Name: "   "})
	assert.Error(t, err)
	_, err = a.AddIncome(types.IncomeRecord{Title: "Salary", Amount: 0})
	assert.Error(t, err)
	_, err = a.AddTask(types.HouseTask{Title: "Laundry", Frequency: "HOURLY"})
	assert.Error(t, err)

	snap := a.Snapshot()
	assert.Zero(t, snap.Revision, "rejected input must not advance state")
}

func TestRestoreRejectsEmptyWithoutForce(t *testing.T) {
	cfg := testConfig(t)
	a := openApp(t, cfg)

	_, err := a.AddItem(types.Item{Name: "Milk", Category: "Groceries", Price: 50, Quantity: 1, Unit: "pc"})
	require.NoError(t, err)

	err = a.Restore([]byte(`{}`), nil)
	assert.ErrorIs(t, err, ErrEmptyBackup)

	declined := false
	err = a.Restore([]byte(`{}`), func() bool { declined = true; return false })
	assert.ErrorIs(t, err, ErrEmptyBackup)
	assert.True(t, declined, "confirmation callback must be consulted")
	assert.Len(t, a.Snapshot().Items, 1, "rejected restore must not touch state")

	require.NoError(t, a.Restore([]byte(`{}`), func() bool { return true }))
	assert.Empty(t, a.Snapshot().Items)
}

func TestRestoreSecondaryOnlyEnvelopeNeedsConfirmation(t *testing.T) {
	cfg := testConfig(t)
	a := openApp(t, cfg)

	_, err := a.AddItem(types.Item{Name: "Milk", Category: "Groceries", Price: 50, Quantity: 1, Unit: "pc"})
	require.NoError(t, err)
	_, err = a.AddIncome(types.IncomeRecord{Title: "Salary", Amount: 5000})
	require.NoError(t, err)

	// a meal plan alone does not make the backup non-empty; restoring it
	// unconfirmed would wipe items and incomes
	payload := []byte(`{"items":[],"incomes":[],"mealPlan":[{"id":"m1","day":"Saturday","type":"DINNER","foodName":"Stew"}]}`)
	err = a.Restore(payload, nil)
	assert.ErrorIs(t, err, ErrEmptyBackup)
	assert.Len(t, a.Snapshot().Items, 1)
	assert.Len(t, a.Snapshot().Incomes, 1)

	require.NoError(t, a.Restore(payload, func() bool { return true }))
	snap := a.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Empty(t, snap.Incomes)
	require.Len(t, snap.MealPlan, 1)
	assert.Equal(t, "Stew", snap.MealPlan[0].FoodName)
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	a := openApp(t, cfg)

	_, err := a.AddItem(types.Item{Name: "Milk", Category: "Groceries", Price: 50, Quantity: 1, Unit: "pc"})
	require.NoError(t, err)
	_, err = a.AddTask(types.HouseTask{Title: "Laundry", Frequency: types.FreqWeekly})
	require.NoError(t, err)

	data, name, err := a.Backup()
	require.NoError(t, err)
	assert.Contains(t, name, "khaneh-backup-")

	confirm := func() bool { return true }
	require.NoError(t, a.Restore([]byte(`{"items":[],"tasks":[]}`), confirm))
	assert.Empty(t, a.Snapshot().Items)
	assert.Empty(t, a.Snapshot().Tasks, "a present empty tasks array clears tasks")

	require.NoError(t, a.Restore(data, nil))
	snap := a.Snapshot()
	require.Len(t, snap.Items, 1)
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, "Laundry", snap.Tasks[0].Title)
}
