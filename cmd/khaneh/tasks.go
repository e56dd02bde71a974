package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/khanehapp/khaneh/types"
	"github.com/khanehapp/khaneh/views"
)

// tasksCmd represents the tasks command
var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Show house tasks due today",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		due := views.TasksDueToday(a.Snapshot().Tasks, time.Now())

		if done, err := emit(due); done || err != nil {
			return err
		}

		if len(due) == 0 {
			fmt.Println("Nothing due today.")
			return nil
		}

		w := newTable()
		fmt.Fprintln(w, "ID\tTASK\tFREQUENCY\tDONE")
		for _, task := range due {
			done := ""
			if task.DoneToday {
				done = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", task.ID, task.Title, task.Frequency, done)
		}
		w.Flush()
		return nil
	},
}

var (
	taskFrequency string
	taskCategory  string
)

var tasksAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a house task",
	Long: `Add a house task due today.

Examples:
  khaneh tasks add "Laundry" --frequency weekly
  khaneh tasks add "Fix the tap" --frequency once`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		freq, err := parseFrequency(taskFrequency)
		if err != nil {
			return err
		}

		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		_, err = a.AddTask(types.HouseTask{
			Title:     args[0],
			Category:  types.TaskCategory(taskCategory),
			Frequency: freq,
		})
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}
		fmt.Printf("Task %q added.\n", args[0])
		return nil
	},
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Complete a task for today (run again to undo)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		snap, err := a.ToggleTask(args[0])
		if err != nil {
			return fmt.Errorf("failed to toggle task: %w", err)
		}
		for _, task := range snap.Tasks {
			if task.ID == args[0] {
				if task.DoneToday {
					fmt.Printf("%q done. Next due %s.\n", task.Title, task.NextDue.Format("2006-01-02"))
				} else {
					fmt.Printf("%q back to due.\n", task.Title)
				}
				break
			}
		}
		return nil
	},
}

var tasksRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.DeleteTask(args[0]); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		fmt.Println("Task deleted.")
		return nil
	},
}

func parseFrequency(name string) (types.TaskFrequency, error) {
	switch strings.ToLower(name) {
	case "once":
		return types.FreqOnce, nil
	case "daily":
		return types.FreqDaily, nil
	case "weekly":
		return types.FreqWeekly, nil
	case "monthly":
		return types.FreqMonthly, nil
	default:
		return "", fmt.Errorf("unknown frequency %q (once, daily, weekly or monthly)", name)
	}
}

func init() {
	rootCmd.AddCommand(tasksCmd)
	tasksCmd.AddCommand(tasksAddCmd)
	tasksCmd.AddCommand(tasksDoneCmd)
	tasksCmd.AddCommand(tasksRemoveCmd)

	tasksAddCmd.Flags().StringVarP(&taskFrequency, "frequency", "f", "once", "once, daily, weekly or monthly")
	tasksAddCmd.Flags().StringVarP(&taskCategory, "category", "c", "", "task category")
}
