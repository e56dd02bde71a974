// Package backup implements the whole-state backup envelope: a single
// versioned JSON document carrying every collection plus the budget.
// Restore is lenient about shape so that hand-edited or older files
// still load, but a payload that is not a JSON object is rejected.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/khanehapp/khaneh/state"
	"github.com/khanehapp/khaneh/types"
)

// Version is the current envelope version. Older envelopes are accepted;
// missing collections decode as empty.
const Version = 4

// ErrInvalidFormat marks a payload whose top level is not a JSON object.
var ErrInvalidFormat = errors.New("backup: payload is not a backup object")

// Envelope is the serialized backup document. Tasks is nil when the
// envelope predates task support, which restore treats as "leave tasks
// alone" rather than "clear tasks".
type Envelope struct {
	Version        int                   `json:"version"`
	Timestamp      time.Time             `json:"timestamp"`
	Items          []types.Item          `json:"items"`
	Incomes        []types.IncomeRecord  `json:"incomes"`
	RecurringItems []types.RecurringItem `json:"recurringItems"`
	MealPlan       []types.MealEntry     `json:"mealPlan"`
	Budget         int                   `json:"budget"`
	Tasks          []types.HouseTask     `json:"tasks,omitempty"`
}

// Empty reports whether the envelope carries neither items nor incomes.
// Restoring such an envelope wipes the two primary collections, so
// callers must confirm first even when secondary collections are present.
func (e *Envelope) Empty() bool {
	return len(e.Items) == 0 && len(e.Incomes) == 0
}

// Export serializes a full snapshot into an indented envelope. Collections
// are emitted as arrays even when empty so the file round-trips cleanly.
func Export(snap state.Snapshot, now time.Time) ([]byte, error) {
	env := Envelope{
		Version:        Version,
		Timestamp:      now.UTC(),
		Items:          emptyIfNil(snap.Items),
		Incomes:        emptyIfNil(snap.Incomes),
		RecurringItems: emptyIfNil(snap.Recurring),
		MealPlan:       emptyIfNil(snap.MealPlan),
		Budget:         snap.Budget,
		Tasks:          emptyIfNil(snap.Tasks),
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize backup: %w", err)
	}
	return data, nil
}

// Filename returns the suggested name for a backup written at the given
// time.
func Filename(now time.Time) string {
	return fmt.Sprintf("khaneh-backup-%s.json", now.Format("2006-01-02_15-04-05"))
}

// Decode parses and normalizes a backup payload. Collections that are
// missing or malformed come back as empty slices, a missing or malformed
// budget comes back as zero, and only a non-object top level is an error.
// The tasks field alone distinguishes absent from empty.
func Decode(data []byte) (*Envelope, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if raw == nil {
		return nil, ErrInvalidFormat
	}

	env := &Envelope{
		Items:          decodeSlice[types.Item](raw["items"]),
		Incomes:        decodeSlice[types.IncomeRecord](raw["incomes"]),
		RecurringItems: decodeSlice[types.RecurringItem](raw["recurringItems"]),
		MealPlan:       decodeSlice[types.MealEntry](raw["mealPlan"]),
	}
	if msg, ok := raw["version"]; ok {
		_ = json.Unmarshal(msg, &env.Version)
	}
	if msg, ok := raw["timestamp"]; ok {
		_ = json.Unmarshal(msg, &env.Timestamp)
	}
	if msg, ok := raw["budget"]; ok {
		_ = json.Unmarshal(msg, &env.Budget)
	}
	if msg, ok := raw["tasks"]; ok {
		tasks := decodeSlice[types.HouseTask](msg)
		env.Tasks = tasks
	}
	return env, nil
}

// decodeSlice tolerates absent or malformed collections, normalizing
// them to an empty slice.
func decodeSlice[T any](msg json.RawMessage) []T {
	if len(msg) == 0 {
		return []T{}
	}
	var out []T
	if err := json.Unmarshal(msg, &out); err != nil || out == nil {
		return []T{}
	}
	return out
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
