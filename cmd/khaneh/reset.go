package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetYes bool

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every shopping and pantry item",
	Long: `Delete the whole item collection. Finances, meal plan and tasks
are kept. Requires --yes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			return fmt.Errorf("refusing to delete all items without --yes")
		}

		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.ResetItems(); err != nil {
			return fmt.Errorf("failed to reset items: %w", err)
		}
		fmt.Println("All items deleted.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "confirm deletion")
}
