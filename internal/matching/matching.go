// Package matching resolves free-text ingredient names against pantry
// item names. Names come from different sources (recipes, receipts,
// manual entry) so matching is normalized and bidirectional.
package matching

import (
	"strings"

	"github.com/khanehapp/khaneh/types"
)

// Normalize lowercases a name and collapses surrounding and internal
// runs of whitespace to single spaces.
func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// NameMatches reports whether an ingredient name and an item name refer
// to the same product. Containment runs both ways so "tomato" matches
// "cherry tomato" and "cherry tomato" matches "tomato".
func NameMatches(ingredient, itemName string) bool {
	a := Normalize(ingredient)
	b := Normalize(itemName)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// FindInPantry returns the index of the first BOUGHT item whose name
// matches the ingredient, or -1. Items are scanned in slice order so
// callers get a deterministic pick when several match.
func FindInPantry(items []types.Item, ingredient string) int {
	for i, it := range items {
		if it.Status != types.StatusBought {
			continue
		}
		if NameMatches(ingredient, it.Name) {
			return i
		}
	}
	return -1
}
