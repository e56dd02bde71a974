package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanehapp/khaneh/types"
)

var (
	addCategory string
	addPrice    int
	addQuantity int
	addUnit     string
	addBarcode  string
	addStore    string
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an item to the shopping list",
	Long: `Add a new item to the shopping list.

Examples:
  khaneh add "Milk" --category Groceries --price 50 --quantity 2 --unit pc
  khaneh add "Shampoo" --category "Beauty & Grooming" --price 120
  khaneh add "Rice" --barcode 6260100000000 --store "Local Market"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if name == "" {
			return fmt.Errorf("name cannot be empty")
		}

		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		snap, err := a.AddItem(types.Item{
			Name:      name,
			Category:  addCategory,
			Price:     addPrice,
			Quantity:  addQuantity,
			Unit:      addUnit,
			Barcode:   addBarcode,
			StoreName: addStore,
		})
		if err != nil {
			return fmt.Errorf("failed to add item: %w", err)
		}

		added := snap.Items[0]
		fmt.Printf("Added %q (%s) with ID %s\n", added.Name, added.Category, added.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "item category (defaults to Misc)")
	addCmd.Flags().IntVarP(&addPrice, "price", "p", 0, "estimated unit price")
	addCmd.Flags().IntVarP(&addQuantity, "quantity", "q", 1, "quantity (floored at 1)")
	addCmd.Flags().StringVarP(&addUnit, "unit", "u", "pc", "unit of measure")
	addCmd.Flags().StringVar(&addBarcode, "barcode", "", "product barcode")
	addCmd.Flags().StringVar(&addStore, "store", "", "store name used for purchase history")
}
