package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khanehapp/khaneh/views"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show purchase history grouped by day and store",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		groups := views.Sessions(a.Snapshot().Items, a.Calendar())

		if done, err := emit(groups); done || err != nil {
			return err
		}

		if len(groups) == 0 {
			fmt.Println("No purchases recorded yet.")
			return nil
		}

		for _, day := range groups {
			fmt.Printf("%s (total %d)\n", day.Date, day.Total)
			for _, sess := range day.Sessions {
				fmt.Printf("  %s: %d\n", sess.Store, sess.Total)
				for _, it := range sess.Items {
					fmt.Printf("    %s x%d = %d\n", it.Name, it.Quantity, it.Cost())
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
