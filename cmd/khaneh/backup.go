package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/khanehapp/khaneh/app"
)

var backupOut string

// backupCmd represents the backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a full backup file",
	Long: `Write the whole household state to a single JSON backup file.

Examples:
  khaneh backup                       # ./khaneh-backup-<timestamp>.json
  khaneh backup --out /tmp/house.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		data, name, err := a.Backup()
		if err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}

		path := backupOut
		if path == "" {
			path = name
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write backup file: %w", err)
		}
		fmt.Printf("Backup written to %s\n", path)
		return nil
	},
}

var restoreForce bool

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace all data from a backup file",
	Long: `Replace the whole household state from a backup file. The current
data is overwritten. Restoring a backup that carries no data is refused
unless --force is set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(filepath.Clean(args[0]))
		if err != nil {
			return fmt.Errorf("failed to read backup file: %w", err)
		}

		a, err := getApp()
		if err != nil {
			return err
		}
		defer a.Close()

		var confirmEmpty func() bool
		if restoreForce {
			confirmEmpty = func() bool { return true }
		}
		if err := a.Restore(data, confirmEmpty); err != nil {
			if errors.Is(err, app.ErrEmptyBackup) {
				return fmt.Errorf("%w (use --force to erase everything)", err)
			}
			return fmt.Errorf("failed to restore: %w", err)
		}
		fmt.Println("Backup restored.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)

	backupCmd.Flags().StringVar(&backupOut, "out", "", "output file path")
	restoreCmd.Flags().BoolVar(&restoreForce, "force", false, "allow restoring an empty backup")
}
