package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/khanehapp/khaneh/types"
	"github.com/khanehapp/khaneh/views"
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Ask the household assistant a question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		reply, err := a.Assistant().Chat(context.Background(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Println(reply)
		return nil
	},
}

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Get an assistant's take on this month's spending",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		snap := a.Snapshot()
		spent := views.MonthlySpend(snap.Items, a.Calendar(), time.Now())

		breakdown := map[string]int{}
		for _, ct := range views.CategoryBreakdown(snap.Items) {
			breakdown[ct.Category] = ct.Total
		}

		analysis, err := a.Assistant().AnalyzeBudget(context.Background(), spent, snap.Budget, breakdown)
		if err != nil {
			return err
		}
		fmt.Println(analysis)
		return nil
	},
}

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <barcode>",
	Short: "Identify a product by barcode and add it to the list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := context.Background()
		product, err := a.Assistant().IdentifyProduct(ctx, args[0])
		if err != nil {
			return fmt.Errorf("could not identify barcode: %w", err)
		}

		price, err := a.Assistant().EstimatePrice(ctx, product.Name)
		if err != nil {
			price = 0
		}

		snap, err := a.AddItem(types.Item{
			Name:     product.Name,
			Category: product.Category,
			Barcode:  args[0],
			Price:    price,
			Quantity: 1,
			Unit:     "pc",
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
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(scanCmd)
}
