package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/khanehapp/khaneh/types"
)

// receiptCmd represents the receipt command
var receiptCmd = &cobra.Command{
	Use:   "receipt <file>",
	Short: "Extract items from a receipt text file",
	Long: `Extract purchased products from a plain-text receipt and add them
to the list as bought items. The assistant must be configured.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := os.ReadFile(filepath.Clean(args[0]))
		if err != nil {
			return fmt.Errorf("failed to read receipt: %w", err)
		}

		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		lines, err := a.Assistant().ExtractReceipt(context.Background(), string(text))
		if err != nil {
			return fmt.Errorf("could not extract receipt: %w", err)
		}
		if len(lines) == 0 {
			fmt.Println("No products found on the receipt.")
			return nil
		}

		items := make([]types.Item, 0, len(lines))
		for _, line := range lines {
			items = append(items, types.Item{
				Name:     line.Name,
				Category: line.Category,
				Price:    line.Price / line.Quantity,
				Quantity: line.Quantity,
				Unit:     "pc",
				Status:   types.StatusBought,
			})
		}
		if _, err := a.AddItems(items); err != nil {
			return fmt.Errorf("failed to add items: %w", err)
		}

		fmt.Printf("Added %d items from the receipt.\n", len(items))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(receiptCmd)
}
