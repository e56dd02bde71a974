// Package types defines the domain model shared by every khaneh package:
// shopping/pantry items, income records, recurring obligations, meal plan
// entries, house tasks and the backup envelope.
//
// All records are plain values. The canonical copies live in the state
// container; anything persisted or exported is a serialized snapshot of
// those values, never a second source of truth.
package types

import "time"

// ItemStatus distinguishes items still to purchase from items already
// bought (in the pantry, counting against the budget).
type ItemStatus string

const (
	StatusPending ItemStatus = "PENDING"
	StatusBought  ItemStatus = "BOUGHT"
)

// Toggle returns the opposite status. Transitions are a free toggle,
// there is no ordering constraint between the two states.
func (s ItemStatus) Toggle() ItemStatus {
	if s == StatusBought {
		return StatusPending
	}
	return StatusBought
}

// Valid reports whether s is one of the two recognized statuses.
func (s ItemStatus) Valid() bool {
	return s == StatusPending || s == StatusBought
}

// Item is a purchasable or trackable good. ID is unique within the
// collection. DateAdded is set once at creation and refreshed only by an
// explicit restock.
type Item struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	SubCategory string     `json:"subCategory,omitempty"`
	Quantity    int        `json:"quantity"`
	Unit        string     `json:"unit"`
	Price       int        `json:"estimatedPrice"`
	Status      ItemStatus `json:"status"`
	DateAdded   time.Time  `json:"dateAdded"`
	ExpiryDate  *time.Time `json:"expiryDate,omitempty"`
	Barcode     string     `json:"barcode,omitempty"`
	ImageRef    string     `json:"imageUrl,omitempty"`
	StoreName   string     `json:"storeName,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// Cost returns the item's contribution to spend: unit price times quantity.
func (it Item) Cost() int {
	return it.Price * it.Quantity
}

// IncomeRecord is an explicit user-entered income entry. Records are
// created and deleted, never mutated in place.
type IncomeRecord struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Amount   int       `json:"amount"`
	Date     time.Time `json:"date"`
	Category string    `json:"category"`
}

// RecurringPeriod is the cadence of a recurring obligation. Only a monthly
// period exists today; the type keeps the wire format open.
type RecurringPeriod string

const PeriodMonthly RecurringPeriod = "MONTHLY"

// RecurringItem is a recurring monthly obligation (rent, utilities).
// The core persists it verbatim inside backups; lifecycle is owned by the
// presentation layer.
type RecurringItem struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Amount       int             `json:"amount"`
	Category     string          `json:"category"`
	Period       RecurringPeriod `json:"period"`
	DueDay       int             `json:"dueDay"`
	LastPaidDate *time.Time      `json:"lastPaidDate,omitempty"`
}

// MealType labels a meal plan slot.
type MealType string

const (
	MealLunch  MealType = "LUNCH"
	MealDinner MealType = "DINNER"
)

// MealEntry is one slot of the weekly meal plan. Ingredients are free-form
// names resolved against pantry items by fuzzy matching at read time; no
// stored relation exists.
type MealEntry struct {
	ID          string   `json:"id"`
	Day         string   `json:"day"`
	Type        MealType `json:"type"`
	FoodName    string   `json:"foodName"`
	Ingredients []string `json:"ingredients"`
	IsCooked    bool     `json:"isCooked"`
}

// TaskCategory classifies a house task.
type TaskCategory string

const (
	TaskCleaning    TaskCategory = "CLEANING"
	TaskMaintenance TaskCategory = "MAINTENANCE"
	TaskPlants      TaskCategory = "PLANTS"
	TaskCar         TaskCategory = "CAR"
	TaskOther       TaskCategory = "OTHER"
)

// TaskFrequency is how often a house task recurs.
type TaskFrequency string

const (
	FreqOnce    TaskFrequency = "ONCE"
	FreqDaily   TaskFrequency = "DAILY"
	FreqWeekly  TaskFrequency = "WEEKLY"
	FreqMonthly TaskFrequency = "MONTHLY"
)

// RescheduleDays returns the calendar-day delta applied to NextDue when a
// task of this frequency is completed. ONCE tasks never reschedule.
func (f TaskFrequency) RescheduleDays() int {
	switch f {
	case FreqDaily:
		return 1
	case FreqWeekly:
		return 7
	case FreqMonthly:
		return 30
	default:
		return 0
	}
}

// HouseTask is a recurring household chore. Toggling it done advances
// NextDue by the frequency delta; toggling it back undoes the advance and
// clears LastDone.
type HouseTask struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Category  TaskCategory  `json:"category"`
	Frequency TaskFrequency `json:"frequency"`
	LastDone  *time.Time    `json:"lastDone,omitempty"`
	NextDue   time.Time     `json:"nextDue"`
	DoneToday bool          `json:"isDoneToday"`
}
