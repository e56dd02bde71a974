package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khanehapp/khaneh/views"
)

// pantryCmd represents the pantry command
var pantryCmd = &cobra.Command{
	Use:   "pantry",
	Short: "Show bought items grouped by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		groups := views.PantryGroups(a.Snapshot().Items)

		if done, err := emit(groups); done || err != nil {
			return err
		}

		if len(groups) == 0 {
			fmt.Println("The pantry is empty.")
			return nil
		}

		w := newTable()
		for _, g := range groups {
			fmt.Fprintf(w, "%s\t\t\n", g.Category)
			for _, it := range g.Items {
				fmt.Fprintf(w, "  %s\t%d %s\t%s\n", it.Name, it.Quantity, it.Unit, it.ID)
			}
		}
		w.Flush()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pantryCmd)
}
