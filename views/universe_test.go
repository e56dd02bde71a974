package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khanehapp/khaneh/testutil"
	"github.com/khanehapp/khaneh/types"
)

func TestUniverseDerivedViews(t *testing.T) {
	u, snap := testutil.Universe()

	// Rice 80x3 + Detergent 60x1 count this month; last month's oil does not.
	spent := MonthlySpend(snap.Items, cal, testutil.Now)
	assert.Equal(t, 300, spent)
	assert.Equal(t, 30.0, BudgetUtilization(spent, snap.Budget))

	// All-time expenses include last month's oil: 240 + 60 + 200.
	summary := Summarize(snap)
	assert.Equal(t, 9000, summary.TotalIncome)
	assert.Equal(t, 500, summary.TotalExpenses)
	assert.Equal(t, 8500, summary.Balance)

	groups := Sessions(snap.Items, cal)
	require.Len(t, groups, 2, "purchases span two days")
	require.Len(t, groups[0].Sessions, 2, "most recent day has two stores")
	assert.Equal(t, types.CategoryMisc, groups[1].Sessions[0].Store, "oil has no store name")

	res := Filter(snap.Items, FilterOptions{Tab: types.TabSupermarket})
	require.Len(t, res.Items, 2)
	assert.Equal(t, u.Milk.Name, res.Items[0].Name, "newest pending first")
}
