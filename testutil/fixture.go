// Package testutil provides a shared household fixture for tests that
// need a populated state: items across tabs and statuses, incomes, a
// meal plan and tasks, all with fixed dates so derived views are
// deterministic.
package testutil

import (
	"time"

	"github.com/khanehapp/khaneh/state"
	"github.com/khanehapp/khaneh/types"
)

// Now is the fixed "current time" the fixture is built around. Tests
// that inject a clock should use it so month boundaries line up.
var Now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// UniverseData gives typed access to the fixture's notable records.
type UniverseData struct {
	// Shopping list (PENDING)
	Milk    types.Item // supermarket tab
	Bread   types.Item // supermarket tab
	Shampoo types.Item // personal tab

	// Pantry (BOUGHT)
	Rice      types.Item // bought this month at Local Market
	Detergent types.Item // bought this month at Hyper
	OldOil    types.Item // bought last month, outside the current window

	// Finances
	Salary types.IncomeRecord

	// Meal plan
	RiceNight types.MealEntry // uncooked, ingredients match the pantry

	// Tasks
	Laundry  types.HouseTask // weekly, due today
	FixShelf types.HouseTask // one-off, overdue
}

// Universe returns the fixture and the snapshot holding it.
func Universe() (UniverseData, state.Snapshot) {
	day := func(d int) time.Time { return Now.AddDate(0, 0, d-15) }

	u := UniverseData{
		Milk: types.Item{
			ID: "item-milk", Name: "Milk", Category: "Protein & Dairy",
			Price: 50, Quantity: 2, Unit: "pc",
			Status: types.StatusPending, DateAdded: day(14),
		},
		Bread: types.Item{
			ID: "item-bread", Name: "Bread", Category: "Bakery",
			Price: 20, Quantity: 1, Unit: "pc",
			Status: types.StatusPending, DateAdded: day(13),
		},
		Shampoo: types.Item{
			ID: "item-shampoo", Name: "Shampoo", Category: "Beauty & Grooming",
			Price: 120, Quantity: 1, Unit: "pc",
			Status: types.StatusPending, DateAdded: day(12),
		},
		Rice: types.Item{
			ID: "item-rice", Name: "Rice", Category: "Groceries",
			Price: 80, Quantity: 3, Unit: "kg", StoreName: "Local Market",
			Status: types.StatusBought, DateAdded: day(5),
		},
		Detergent: types.Item{
			ID: "item-detergent", Name: "Detergent", Category: "Cleaning Supplies",
			Price: 60, Quantity: 1, Unit: "pc", StoreName: "Hyper",
			Status: types.StatusBought, DateAdded: day(5),
		},
		OldOil: types.Item{
			ID: "item-oil", Name: "Cooking Oil", Category: "Groceries",
			Price: 200, Quantity: 1, Unit: "l",
			Status: types.StatusBought, DateAdded: Now.AddDate(0, -1, 0),
		},
		Salary: types.IncomeRecord{
			ID: "income-salary", Title: "Salary", Amount: 9000, Date: day(1),
		},
		RiceNight: types.MealEntry{
			ID: "meal-rice", Day: "Saturday", Type: types.MealDinner,
			FoodName: "Rice Night", Ingredients: []string{"rice"},
		},
		Laundry: types.HouseTask{
			ID: "task-laundry", Title: "Laundry",
			Frequency: types.FreqWeekly, NextDue: Now,
		},
		FixShelf: types.HouseTask{
			ID: "task-shelf", Title: "Fix the shelf",
			Frequency: types.FreqOnce, NextDue: day(10),
		},
	}

	snap := state.Snapshot{
		Items: []types.Item{
			u.Milk, u.Bread, u.Shampoo, u.Rice, u.Detergent, u.OldOil,
		},
		Incomes:  []types.IncomeRecord{u.Salary},
		MealPlan: []types.MealEntry{u.RiceNight},
		Tasks:    []types.HouseTask{u.Laundry, u.FixShelf},
		Budget:   1000,
	}
	return u, snap
}
