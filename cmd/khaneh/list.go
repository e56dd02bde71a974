package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanehapp/khaneh/types"
	"github.com/khanehapp/khaneh/views"
)

var (
	listTab   string
	listQuery string
	listAll   bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the shopping list",
	Long: `Show pending items in the selected tab, newest first.

Only the ten most recent matches are shown unless --all is set.

Examples:
  khaneh list                      # Supermarket tab
  khaneh list --tab home           # Household tab
  khaneh list --query milk         # Search by name, barcode or category
  khaneh list --all                # Lift the display cap`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tab, err := parseTab(listTab)
		if err != nil {
			return err
		}

		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		res := views.Filter(a.Snapshot().Items, views.FilterOptions{
			Query:   listQuery,
			Tab:     tab,
			ShowAll: listAll,
		})

		if done, err := emit(res); done || err != nil {
			return err
		}

		if len(res.Items) == 0 {
			fmt.Println("No items found.")
			return nil
		}

		w := newTable()
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tQTY\tPRICE")
		for _, it := range res.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d %s\t%d\n", it.ID, it.Name, it.Category, it.Quantity, it.Unit, it.Price)
		}
		w.Flush()

		if res.TotalCount > len(res.Items) {
			fmt.Printf("Showing %d of %d items (use --all for the rest).\n", len(res.Items), res.TotalCount)
		}
		return nil
	},
}

func parseTab(name string) (types.Tab, error) {
	switch strings.ToLower(name) {
	case "", "supermarket", "super":
		return types.TabSupermarket, nil
	case "personal":
		return types.TabPersonal, nil
	case "home":
		return types.TabHome, nil
	default:
		return "", fmt.Errorf("unknown tab %q (supermarket, personal or home)", name)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listTab, "tab", "t", "supermarket", "tab: supermarket, personal or home")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "filter by name, barcode or category")
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "show all matches, not just the newest ten")
}
