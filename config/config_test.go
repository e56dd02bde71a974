package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("KHANEH_CONFIG", "")
	dir := t.TempDir()
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.DataDir)
	assert.Zero(t, cfg.MonthlyBudget)
	assert.Equal(t, 2*time.Second, cfg.SaveDelay)
	assert.Equal(t, "jalali", cfg.Calendar)
	assert.False(t, cfg.AI.Enabled())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "khaneh.yaml")
	body := `
data_dir: /var/lib/khaneh
monthly_budget: 15000
save_delay: 500ms
calendar: gregorian
ai:
  base_url: http://localhost:1234/v1
  model: local-chat
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("KHANEH_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/khaneh", cfg.DataDir)
	assert.Equal(t, 15000, cfg.MonthlyBudget)
	assert.Equal(t, 500*time.Millisecond, cfg.SaveDelay)
	assert.Equal(t, "gregorian", cfg.Calendar)
	assert.True(t, cfg.AI.Enabled())
	assert.Equal(t, "local-chat", cfg.AI.Model)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("KHANEH_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "khaneh.yaml")
	require.NoError(t, os.WriteFile(path, []byte("monthly_budget: 100\n"), 0o644))
	t.Setenv("KHANEH_CONFIG", path)
	t.Setenv("KHANEH_MONTHLY_BUDGET", "900")
	t.Setenv("KHANEH_AI_MODEL", "remote-chat")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 900, cfg.MonthlyBudget)
	assert.Equal(t, "remote-chat", cfg.AI.Model)
}
