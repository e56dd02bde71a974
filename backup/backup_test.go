package backup

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khanehapp/khaneh/state"
	"github.com/khanehapp/khaneh/types"
)

func TestExportDecodeRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	snap := state.Snapshot{
		Items: []types.Item{
			{ID: "i1", Name: "Milk", Category: "Groceries", Price: 50, Quantity: 2, Unit: "pc", Status: types.StatusPending, DateAdded: now},
		},
		Incomes: []types.IncomeRecord{
			{ID: "in1", Title: "Salary", Amount: 5000, Date: now},
		},
		Tasks: []types.HouseTask{
			{ID: "t1", Title: "Laundry", Frequency: types.FreqWeekly, NextDue: now},
		},
		Budget: 12000,
	}

	data, err := Export(snap, now)
	require.NoError(t, err)

	env, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, Version, env.Version)
	assert.Equal(t, now, env.Timestamp)
	assert.Equal(t, snap.Items, env.Items)
	assert.Equal(t, snap.Incomes, env.Incomes)
	assert.Equal(t, snap.Tasks, env.Tasks)
	assert.Equal(t, 12000, env.Budget)
	assert.Empty(t, env.MealPlan)
	assert.False(t, env.Empty())
}

func TestExportEmitsArraysForEmptyCollections(t *testing.T) {
	data, err := Export(state.Snapshot{}, time.Now())
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"items", "incomes", "recurringItems", "mealPlan", "tasks"} {
		assert.JSONEqf(t, "[]", string(raw[key]), "key %q", key)
	}
}

func TestDecodeNormalizesBareObject(t *testing.T) {
	env, err := Decode([]byte(`{}`))
	require.NoError(t, err)

	assert.NotNil(t, env.Items)
	assert.Empty(t, env.Items)
	assert.NotNil(t, env.Incomes)
	assert.NotNil(t, env.RecurringItems)
	assert.NotNil(t, env.MealPlan)
	assert.Zero(t, env.Budget)
	assert.Nil(t, env.Tasks, "absent tasks must stay nil")
	assert.True(t, env.Empty())
}

func TestDecodeNormalizesMalformedFields(t *testing.T) {
	payload := `{
		"version": "four",
		"items": {"not": "an array"},
		"incomes": 42,
		"budget": "lots",
		"tasks": null
	}`
	env, err := Decode([]byte(payload))
	require.NoError(t, err)

	assert.Empty(t, env.Items)
	assert.Empty(t, env.Incomes)
	assert.Zero(t, env.Budget)
	assert.Zero(t, env.Version)
	assert.NotNil(t, env.Tasks, "present tasks normalize to empty, not nil")
	assert.Empty(t, env.Tasks)
}

func TestEmptyIgnoresSecondaryCollections(t *testing.T) {
	payload := `{
		"items": [],
		"incomes": [],
		"mealPlan": [{"id": "m1", "day": "2025/06/10", "type": "DINNER", "foodName": "Stew"}],
		"budget": 9000
	}`
	env, err := Decode([]byte(payload))
	require.NoError(t, err)

	assert.Len(t, env.MealPlan, 1)
	assert.True(t, env.Empty(), "no items and no incomes is empty regardless of other fields")
}

func TestDecodeRejectsNonObject(t *testing.T) {
	for _, payload := range []string{`[]`, `"backup"`, `42`, `null`, `not json`} {
		_, err := Decode([]byte(payload))
		assert.ErrorIsf(t, err, ErrInvalidFormat, "payload %q", payload)
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "khaneh-backup-2025-06-10_23-59-00.json", Filename(now))
}
