// Package config loads application settings from a config file and
// environment variables via Viper.
//
// Sources, in order of precedence:
//  1. Environment variables (KHANEH_*)
//  2. Configuration file (KHANEH_CONFIG path or default locations)
//  3. Built-in defaults
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the resolved application configuration.
type Config struct {
	// DataDir holds the item store file and the key-value store.
	DataDir string `mapstructure:"data_dir"`

	// MonthlyBudget is the spending ceiling in whole currency units.
	// Zero means no budget is set.
	MonthlyBudget int `mapstructure:"monthly_budget"`

	// SaveDelay is the autosave quiet interval.
	SaveDelay time.Duration `mapstructure:"save_delay"`

	// Calendar selects the display calendar, "jalali" or "gregorian".
	Calendar string `mapstructure:"calendar"`

	// AI configures the optional assistant endpoint. Leaving BaseURL
	// empty disables assistant features.
	AI AIConfig `mapstructure:"ai"`
}

// AIConfig is the assistant endpoint section.
type AIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	APIKey  string `mapstructure:"api_key"`
}

// Enabled reports whether an assistant endpoint is configured.
func (c AIConfig) Enabled() bool {
	return c.BaseURL != "" && c.Model != ""
}

// Load resolves the configuration. A missing config file is not an
// error; defaults and environment variables still apply.
func Load() (*Config, error) {
	v := viper.New()

	if configFile := os.Getenv("KHANEH_CONFIG"); configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("khaneh")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.khaneh")
		v.AddConfigPath("/etc/khaneh")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("KHANEH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("monthly_budget", 0)
	v.SetDefault("save_delay", 2*time.Second)
	v.SetDefault("calendar", "jalali")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.api_key", "")

	// a missing config file falls back to defaults and env
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".khaneh"
	}
	return filepath.Join(home, ".khaneh")
}
