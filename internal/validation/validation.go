// Package validation checks user-supplied records before they enter the
// canonical state. Normalization (defaults, floors) happens in the state
// layer; validation rejects what cannot be sensibly defaulted.
package validation

import (
	"fmt"
	"strings"

	"github.com/khanehapp/khaneh/types"
)

// ValidateItem checks a shopping item from user input.
func ValidateItem(it types.Item) error {
	if strings.TrimSpace(it.Name) == "" {
		return fmt.Errorf("item name cannot be empty")
	}
	if it.Price < 0 {
		return fmt.Errorf("item %q: price cannot be negative", it.Name)
	}
	if it.Quantity < 0 {
		return fmt.Errorf("item %q: quantity cannot be negative", it.Name)
	}
	if it.Status != "" && !it.Status.Valid() {
		return fmt.Errorf("item %q: invalid status %q", it.Name, it.Status)
	}
	return nil
}

// ValidateIncome checks an income record from user input.
func ValidateIncome(rec types.IncomeRecord) error {
	if strings.TrimSpace(rec.Title) == "" {
		return fmt.Errorf("income title cannot be empty")
	}
	if rec.Amount <= 0 {
		return fmt.Errorf("income %q: amount must be positive", rec.Title)
	}
	return nil
}

// ValidateTask checks a house task from user input. An empty frequency is
// allowed and treated as ONCE downstream.
func ValidateTask(task types.HouseTask) error {
	if strings.TrimSpace(task.Title) == "" {
		return fmt.Errorf("task title cannot be empty")
	}
	switch task.Frequency {
	case "", types.FreqOnce, types.FreqDaily, types.FreqWeekly, types.FreqMonthly:
		return nil
	default:
		return fmt.Errorf("task %q: unknown frequency %q", task.Title, task.Frequency)
	}
}
