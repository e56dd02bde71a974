package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// mealsCmd represents the meals command
var mealsCmd = &cobra.Command{
	Use:   "meals",
	Short: "Show the weekly meal plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		plan := a.Snapshot().MealPlan

		if done, err := emit(plan); done || err != nil {
			return err
		}

		if len(plan) == 0 {
			fmt.Println("No meal plan yet. Try: khaneh meals plan")
			return nil
		}

		w := newTable()
		fmt.Fprintln(w, "ID\tDAY\tMEAL\tFOOD\tCOOKED")
		for _, m := range plan {
			cooked := ""
			if m.IsCooked {
				cooked = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", m.ID, m.Day, m.Type, m.FoodName, cooked)
		}
		w.Flush()
		return nil
	},
}

// mealsPlanCmd represents the meals plan command
var mealsPlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a weekly plan from the pantry with the assistant",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		snap := a.Snapshot()
		plan, err := a.Assistant().PlanWeek(context.Background(), snap.Items)
		if err != nil {
			return fmt.Errorf("failed to generate a plan: %w", err)
		}

		if _, err := a.SetMealPlan(plan); err != nil {
			return fmt.Errorf("failed to save the plan: %w", err)
		}
		fmt.Printf("Planned %d meals.\n", len(plan))
		return nil
	},
}

var cookConsume bool

// cookCmd represents the cook command
var cookCmd = &cobra.Command{
	Use:   "cook <meal-id>",
	Short: "Mark a meal cooked, optionally deducting its ingredients",
	Long: `Mark a meal cooked or uncooked. With --consume, marking a meal
cooked deducts one unit of each matched pantry item; fully consumed items
go back on the shopping list.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		entry, err := a.ToggleCooked(args[0], cookConsume)
		if err != nil {
			return fmt.Errorf("failed to toggle meal: %w", err)
		}
		if entry.IsCooked {
			fmt.Printf("%q marked cooked.\n", entry.FoodName)
		} else {
			fmt.Printf("%q marked not cooked.\n", entry.FoodName)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mealsCmd)
	rootCmd.AddCommand(cookCmd)
	mealsCmd.AddCommand(mealsPlanCmd)

	cookCmd.Flags().BoolVar(&cookConsume, "consume", false, "deduct ingredients from the pantry")
}
