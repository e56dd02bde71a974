package types

// Tab is the top-level shopping list tab. Each tab owns a fixed bucket of
// categories; the three buckets partition the recognized category set.
type Tab string

const (
	TabSupermarket Tab = "SUPERMARKET"
	TabPersonal    Tab = "PERSONAL"
	TabHome        Tab = "HOME"
)

// CategoryMisc is the fallback category for items the recognized set does
// not cover, and the session bucket for bought items without a store name.
const CategoryMisc = "Misc"

// SupermarketCategories are the grocery-run categories.
var SupermarketCategories = []string{
	"Groceries",
	"Fruits & Vegetables",
	"Protein & Dairy",
	"Bakery",
	"Beverages",
	"Snacks",
}

// PersonalCategories cover personal spending outside the weekly shop.
var PersonalCategories = []string{
	"Health & Medical",
	"Beauty & Grooming",
	"Clothing",
	"Leisure & Dining",
	"Transport",
}

// HomeCategories cover household upkeep.
var HomeCategories = []string{
	"Cleaning Supplies",
	"Appliances",
	"Services & Repairs",
	"Utilities",
	CategoryMisc,
}

// Categories is the full recognized set, in display order.
var Categories = func() []string {
	all := make([]string, 0, len(SupermarketCategories)+len(PersonalCategories)+len(HomeCategories))
	all = append(all, SupermarketCategories...)
	all = append(all, PersonalCategories...)
	all = append(all, HomeCategories...)
	return all
}()

// CategoriesForTab returns the category bucket owned by a tab. Unknown
// tabs fall back to the home bucket, matching the shopping list's default.
func CategoriesForTab(tab Tab) []string {
	switch tab {
	case TabSupermarket:
		return SupermarketCategories
	case TabPersonal:
		return PersonalCategories
	default:
		return HomeCategories
	}
}

// InTab reports whether a category belongs to the given tab's bucket.
func InTab(category string, tab Tab) bool {
	for _, c := range CategoriesForTab(tab) {
		if c == category {
			return true
		}
	}
	return false
}
