package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultWorkdayMinutes, cfg.Planning.WorkdayMinutes)
	assert.Equal(t, DefaultOverhead, cfg.Planning.Overhead)
	assert.Equal(t, DefaultChartScriptURL, cfg.Chart.ScriptURL)
	assert.Equal(t, "table", cfg.Output.Format)
	assert.True(t, cfg.TUI.ShowHelp)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkdayMinutes, cfg.Planning.WorkdayMinutes)
}

func TestLoadConfig_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[database]
path = "/tmp/test.db"

[planning]
workday_minutes = 420
holidays = ["2026-01-01"]

[output]
format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test.db", cfg.DatabasePath())
	assert.Equal(t, 420, cfg.Planning.WorkdayMinutes)
	assert.Equal(t, "json", cfg.Output.Format)
	// Untouched values keep their defaults.
	assert.Equal(t, DefaultOverhead, cfg.Planning.Overhead)

	cal, err := cfg.Calendar()
	require.NoError(t, err)
	assert.Equal(t, 420, cal.WorkdayMinutes)
	assert.Equal(t, []string{"2026-01-01"}, cal.Holidays.Dates())
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"bad format":   "[output]\nformat = \"xml\"\n",
		"bad minutes":  "[planning]\nworkday_minutes = -5\n",
		"bad overhead": "[planning]\noverhead = 0.5\n",
		"bad holiday":  "[planning]\nholidays = [\"not-a-date\"]\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".toml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := DefaultConfig()
	cfg.Planning.WorkdayMinutes = 400
	cfg.Chart.ScriptURL = "file:///opt/highcharts-gantt.js"
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 400, loaded.Planning.WorkdayMinutes)
	assert.Equal(t, "file:///opt/highcharts-gantt.js", loaded.Chart.ScriptURL)
}

func TestConfigPath_UsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	assert.Equal(t, "/tmp/xdg-config/montaje/config.toml", ConfigPath())

	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	assert.Equal(t, "/tmp/xdg-data/montaje", DataPath())

	cfg := DefaultConfig()
	assert.Equal(t, "/tmp/xdg-data/montaje/montaje.db", cfg.DatabasePath())
}
