package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/khanehapp/khaneh/types"
	"github.com/khanehapp/khaneh/views"
)

// financeCmd represents the finance command
var financeCmd = &cobra.Command{
	Use:   "finance",
	Short: "Show income, expenses and the category breakdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		snap := a.Snapshot()
		summary := views.Summarize(snap)
		breakdown := views.CategoryBreakdown(snap.Items)

		out := struct {
			Summary   views.FinanceSummary  `json:"summary" yaml:"summary"`
			Breakdown []views.CategoryTotal `json:"breakdown" yaml:"breakdown"`
		}{summary, breakdown}

		if done, err := emit(out); done || err != nil {
			return err
		}

		fmt.Printf("Income:   %d\n", summary.TotalIncome)
		fmt.Printf("Expenses: %d\n", summary.TotalExpenses)
		fmt.Printf("Balance:  %d\n\n", summary.Balance)

		w := newTable()
		fmt.Fprintln(w, "CATEGORY\tSPENT\tSHARE")
		for _, ct := range breakdown {
			fmt.Fprintf(w, "%s\t%d\t%.1f%%\n", ct.Category, ct.Total, ct.Percent)
		}
		w.Flush()
		return nil
	},
}

var (
	incomeAmount   int
	incomeCategory string
)

// incomeCmd represents the income command
var incomeCmd = &cobra.Command{
	Use:   "income",
	Short: "Manage income records",
}

var incomeAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Record an income entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if incomeAmount <= 0 {
			return fmt.Errorf("amount must be positive")
		}

		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		_, err = a.AddIncome(types.IncomeRecord{
			Title:    args[0],
			Amount:   incomeAmount,
			Date:     time.Now(),
			Category: incomeCategory,
		})
		if err != nil {
			return fmt.Errorf("failed to record income: %w", err)
		}
		fmt.Printf("Recorded income %q: %d\n", args[0], incomeAmount)
		return nil
	},
}

var incomeRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete an income entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.DeleteIncome(args[0]); err != nil {
			return fmt.Errorf("failed to delete income: %w", err)
		}
		fmt.Println("Income entry deleted.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(financeCmd)
	rootCmd.AddCommand(incomeCmd)
	incomeCmd.AddCommand(incomeAddCmd)
	incomeCmd.AddCommand(incomeRemoveCmd)

	incomeAddCmd.Flags().IntVarP(&incomeAmount, "amount", "a", 0, "income amount")
	incomeAddCmd.Flags().StringVarP(&incomeCategory, "category", "c", "", "income category")
}
