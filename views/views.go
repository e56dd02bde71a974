// Package views derives every read model from the canonical state: spend
// and budget figures, category breakdowns, purchase history sessions,
// pantry groupings, the filtered shopping list and the gamification score.
//
// Everything here is a pure function of a snapshot plus an injected
// calendar and reference time. Nothing is cached across calls and nothing
// writes back into canonical state; views are recomputed on demand so
// partial-invalidation staleness cannot exist.
package views

import (
	"sort"
	"strings"
	"time"

	"github.com/khanehapp/khaneh/calendar"
	"github.com/khanehapp/khaneh/types"
)

// BudgetCriticalPercent is the utilization threshold that flips the budget
// indicator to critical.
const BudgetCriticalPercent = 85.0

// DisplayLimit caps the shopping list view unless explicitly expanded.
// It is a rendering optimization only; counts always use the full set.
const DisplayLimit = 10

// MonthlySpend sums price times quantity over BOUGHT items whose DateAdded
// falls in the current calendar month of the active calendar (month/year
// equality, not a rolling thirty days).
func MonthlySpend(items []types.Item, cal calendar.Calendar, now time.Time) int {
	current := cal.Convert(now)
	total := 0
	for _, it := range items {
		if it.Status != types.StatusBought {
			continue
		}
		if cal.Convert(it.DateAdded).SameMonth(current) {
			total += it.Cost()
		}
	}
	return total
}

// BudgetUtilization returns spend as a percentage of the monthly budget,
// clamped to [0,100]. A zero or negative budget reports zero utilization.
func BudgetUtilization(totalSpent, monthlyBudget int) float64 {
	if monthlyBudget <= 0 {
		return 0
	}
	pct := float64(totalSpent) / float64(monthlyBudget) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// BudgetCritical reports whether utilization crossed the critical line.
func BudgetCritical(utilization float64) bool {
	return utilization > BudgetCriticalPercent
}

// CategoryTotal is one slice of the category breakdown.
type CategoryTotal struct {
	Category string
	Total    int
	Percent  float64
}

// CategoryBreakdown groups BOUGHT items by category, summing price times
// quantity, sorted descending by sum. Percent is of total spend.
func CategoryBreakdown(items []types.Item) []CategoryTotal {
	sums := make(map[string]int)
	total := 0
	for _, it := range items {
		if it.Status != types.StatusBought {
			continue
		}
		sums[it.Category] += it.Cost()
		total += it.Cost()
	}

	out := make([]CategoryTotal, 0, len(sums))
	for cat, sum := range sums {
		ct := CategoryTotal{Category: cat, Total: sum}
		if total > 0 {
			ct.Percent = float64(sum) / float64(total) * 100
		}
		out = append(out, ct)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Session is a day+store bucket of bought items, the unit of display in
// purchase history.
type Session struct {
	Store string
	Items []types.Item
	Total int
}

// DayGroup is one calendar day of purchase history.
type DayGroup struct {
	Date     calendar.Date
	Sessions []Session
	Total    int
}

// Sessions groups BOUGHT items by calendar day, then by store name within
// each day. Items without a store name fall into the Misc bucket. Days are
// sorted most-recent-first; store order within a day is alphabetical and
// not load-bearing.
func Sessions(items []types.Item, cal calendar.Calendar) []DayGroup {
	byDay := make(map[string]map[string][]types.Item)
	dates := make(map[string]calendar.Date)

	for _, it := range items {
		if it.Status != types.StatusBought {
			continue
		}
		date := cal.Convert(it.DateAdded)
		dk := date.String()
		storeName := it.StoreName
		if storeName == "" {
			storeName = types.CategoryMisc
		}
		if byDay[dk] == nil {
			byDay[dk] = make(map[string][]types.Item)
			dates[dk] = date
		}
		byDay[dk][storeName] = append(byDay[dk][storeName], it)
	}

	dayKeys := make([]string, 0, len(byDay))
	for dk := range byDay {
		dayKeys = append(dayKeys, dk)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dayKeys)))

	out := make([]DayGroup, 0, len(dayKeys))
	for _, dk := range dayKeys {
		group := DayGroup{Date: dates[dk]}
		stores := make([]string, 0, len(byDay[dk]))
		for storeName := range byDay[dk] {
			stores = append(stores, storeName)
		}
		sort.Strings(stores)
		for _, storeName := range stores {
			sess := Session{Store: storeName, Items: byDay[dk][storeName]}
			for _, it := range sess.Items {
				sess.Total += it.Cost()
			}
			group.Sessions = append(group.Sessions, sess)
			group.Total += sess.Total
		}
		out = append(out, group)
	}
	return out
}

// PantryGroup is one collapsible category of bought items.
type PantryGroup struct {
	Category string
	Items    []types.Item
}

// PantryGroups groups BOUGHT items by category; within each category the
// most recently (re)stocked item comes first. Categories follow the
// recognized display order, unknowns trailing alphabetically.
func PantryGroups(items []types.Item) []PantryGroup {
	byCat := make(map[string][]types.Item)
	for _, it := range items {
		if it.Status != types.StatusBought {
			continue
		}
		byCat[it.Category] = append(byCat[it.Category], it)
	}

	order := make(map[string]int, len(types.Categories))
	for i, c := range types.Categories {
		order[c] = i
	}
	cats := make([]string, 0, len(byCat))
	for c := range byCat {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		oi, iok := order[cats[i]]
		oj, jok := order[cats[j]]
		switch {
		case iok && jok:
			return oi < oj
		case iok:
			return true
		case jok:
			return false
		default:
			return cats[i] < cats[j]
		}
	})

	out := make([]PantryGroup, 0, len(cats))
	for _, c := range cats {
		group := PantryGroup{Category: c, Items: byCat[c]}
		sort.SliceStable(group.Items, func(i, j int) bool {
			return group.Items[i].DateAdded.After(group.Items[j].DateAdded)
		})
		out = append(out, group)
	}
	return out
}

// FilterOptions selects PENDING items for the shopping list view.
type FilterOptions struct {
	// Query matches name, barcode or category, case-insensitively.
	Query string

	// Tab picks the category bucket; the three buckets partition the
	// recognized set.
	Tab types.Tab

	// ShowAll lifts the display cap.
	ShowAll bool
}

// FilterResult is a filtered shopping list page.
type FilterResult struct {
	// Items is the display slice, capped at DisplayLimit unless ShowAll.
	Items []types.Item

	// TotalCount is the size of the full filtered set; counts and badges
	// use this, never len(Items).
	TotalCount int
}

// Filter returns PENDING items in the active tab matching the query,
// newest first.
func Filter(items []types.Item, opts FilterOptions) FilterResult {
	query := strings.ToLower(strings.TrimSpace(opts.Query))

	matched := make([]types.Item, 0, len(items))
	for _, it := range items {
		if it.Status == types.StatusBought {
			continue
		}
		if !types.InTab(it.Category, opts.Tab) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(it.Name), query) &&
			!strings.Contains(strings.ToLower(it.Barcode), query) &&
			!strings.Contains(strings.ToLower(it.Category), query) {
			continue
		}
		matched = append(matched, it)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].DateAdded.After(matched[j].DateAdded)
	})

	res := FilterResult{Items: matched, TotalCount: len(matched)}
	if !opts.ShowAll && len(matched) > DisplayLimit {
		res.Items = matched[:DisplayLimit]
	}
	return res
}

// Level is the derived gamification score. It is recomputed from counts on
// every call; no level or XP is ever stored, so replaying history always
// reproduces the same score.
type Level struct {
	Level       int
	XP          int
	NextLevelXP int
	Title       string
}

// Score derives the household level from the item count and the number of
// tasks completed today.
func Score(items []types.Item, tasks []types.HouseTask) Level {
	done := 0
	for _, t := range tasks {
		if t.DoneToday {
			done++
		}
	}
	xp := len(items)*5 + done*10
	level := xp/100 + 1

	title := "Active Homemaker"
	if level > 5 {
		title = "Senior Manager"
	}
	return Level{Level: level, XP: xp % 100, NextLevelXP: 100, Title: title}
}
