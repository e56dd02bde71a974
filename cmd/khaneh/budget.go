package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// budgetCmd represents the budget command
var budgetCmd = &cobra.Command{
	Use:   "budget [amount]",
	Short: "Show or set the monthly budget",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 0 {
			fmt.Printf("Monthly budget: %d\n", a.Snapshot().Budget)
			return nil
		}

		amount, err := strconv.Atoi(args[0])
		if err != nil || amount < 0 {
			return fmt.Errorf("amount must be a non-negative integer")
		}
		if _, err := a.SetBudget(amount); err != nil {
			return fmt.Errorf("failed to set budget: %w", err)
		}
		fmt.Printf("Monthly budget set to %d.\n", amount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(budgetCmd)
}
