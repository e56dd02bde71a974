package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/khanehapp/khaneh/views"
)

// dashboardCmd represents the dashboard command
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show this month's spending, budget and household score",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		snap := a.Snapshot()
		now := time.Now()
		spent := views.MonthlySpend(snap.Items, a.Calendar(), now)
		utilization := views.BudgetUtilization(spent, snap.Budget)
		level := views.Score(snap.Items, snap.Tasks)

		summary := struct {
			MonthlySpend int         `json:"monthlySpend" yaml:"monthlySpend"`
			Budget       int         `json:"budget" yaml:"budget"`
			Utilization  float64     `json:"utilization" yaml:"utilization"`
			Critical     bool        `json:"critical" yaml:"critical"`
			Score        views.Level `json:"score" yaml:"score"`
		}{spent, snap.Budget, utilization, views.BudgetCritical(utilization), level}

		if done, err := emit(summary); done || err != nil {
			return err
		}

		fmt.Printf("Spent this month: %d\n", spent)
		if snap.Budget > 0 {
			fmt.Printf("Budget: %d (%.1f%% used)\n", snap.Budget, utilization)
			if summary.Critical {
				fmt.Println("Warning: budget nearly exhausted.")
			}
		} else {
			fmt.Println("No monthly budget set.")
		}
		fmt.Printf("Level %d (%s), %d/%d XP\n", level.Level, level.Title, level.XP, level.NextLevelXP)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
