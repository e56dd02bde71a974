package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// buyCmd represents the buy command
var buyCmd = &cobra.Command{
	Use:   "buy <id>",
	Short: "Toggle an item between pending and bought",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		snap, err := a.ToggleItem(args[0])
		if err != nil {
			return fmt.Errorf("failed to toggle item: %w", err)
		}
		for _, it := range snap.Items {
			if it.ID == args[0] {
				fmt.Printf("%q is now %s\n", it.Name, it.Status)
				break
			}
		}
		return nil
	},
}

var qtyDelta int

// qtyCmd represents the qty command
var qtyCmd = &cobra.Command{
	Use:   "qty <id>",
	Short: "Adjust an item's quantity",
	Long: `Adjust an item's quantity by a signed delta. Quantity never drops
below one.

Examples:
  khaneh qty 3f2a... --delta 2
  khaneh qty 3f2a... --delta -1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		snap, err := a.AdjustQuantity(args[0], qtyDelta)
		if err != nil {
			return fmt.Errorf("failed to adjust quantity: %w", err)
		}
		for _, it := range snap.Items {
			if it.ID == args[0] {
				fmt.Printf("%q quantity is now %d %s\n", it.Name, it.Quantity, it.Unit)
				break
			}
		}
		return nil
	},
}

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.DeleteItem(args[0]); err != nil {
			return fmt.Errorf("failed to delete item: %w", err)
		}
		fmt.Println("Item deleted.")
		return nil
	},
}

// restockCmd represents the restock command
var restockCmd = &cobra.Command{
	Use:   "restock <id>",
	Short: "Put a pantry item back on the shopping list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.Restock(args[0]); err != nil {
			return fmt.Errorf("failed to restock item: %w", err)
		}
		fmt.Println("Item is back on the shopping list.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buyCmd)
	rootCmd.AddCommand(qtyCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(restockCmd)

	qtyCmd.Flags().IntVarP(&qtyDelta, "delta", "d", 1, "signed quantity change")
}
