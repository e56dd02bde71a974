package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/khanehapp/khaneh/app"
	"github.com/khanehapp/khaneh/config"
)

var (
	outputFormat string
	logLevel     string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "khaneh",
	Short: "Household management from the command line",
	Long: `Khaneh keeps a household's shopping list, pantry, finances, meal
plan and chores in one embedded store.

Configuration Sources (in order of precedence):
1. Environment variables (KHANEH_*)
2. Configuration file (KHANEH_CONFIG path or default locations)
3. Built-in defaults

Configuration File Discovery:
  KHANEH_CONFIG=/path/to/khaneh.yaml  # Custom config file path
  ./khaneh.yaml                       # Current directory
  ~/.khaneh/khaneh.yaml               # User directory
  /etc/khaneh/khaneh.yaml             # System directory`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging(logLevel)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "o", "table", "output format: table, json or yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")
}

// getApp opens the application with the resolved configuration. Callers
// must Close it.
func getApp() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	a, err := app.Open(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	return a, nil
}
