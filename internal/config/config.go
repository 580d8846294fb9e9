// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/ivalero/montaje/internal/workcal"
)

// Default configuration values.
const (
	DefaultWorkdayMinutes = 465
	DefaultOverhead       = 1.20
	DefaultChartScriptURL = "https://code.highcharts.com/gantt/highcharts-gantt.js"
	DefaultOutputFormat   = "table"
)

// Config represents the montaje configuration.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Planning PlanningConfig `toml:"planning"`
	Chart    ChartConfig    `toml:"chart"`
	Output   OutputConfig   `toml:"output"`
	TUI      TUIConfig      `toml:"tui"`
}

// DatabaseConfig holds the SQLite location.
type DatabaseConfig struct {
	Path string `toml:"path"` // Empty = default data dir
}

// PlanningConfig holds the calendar and scheduling defaults.
type PlanningConfig struct {
	WorkdayMinutes int      `toml:"workday_minutes"`
	Overhead       float64  `toml:"overhead"`
	Holidays       []string `toml:"holidays"` // YYYY-MM-DD; empty = built-in 2025 set
}

// ChartConfig holds Gantt chart rendering settings.
type ChartConfig struct {
	ScriptURL string `toml:"script_url"` // Highcharts Gantt script source
}

// OutputConfig holds default output options.
type OutputConfig struct {
	Format string `toml:"format"` // table, json, csv
}

// TUIConfig holds TUI-specific settings.
type TUIConfig struct {
	ShowHelp         bool   `toml:"show_help"`
	ClipboardCommand string `toml:"clipboard_command"` // Auto-detected if empty
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "", // Resolved lazily against the data dir
		},
		Planning: PlanningConfig{
			WorkdayMinutes: DefaultWorkdayMinutes,
			Overhead:       DefaultOverhead,
			Holidays:       nil,
		},
		Chart: ChartConfig{
			ScriptURL: DefaultChartScriptURL,
		},
		Output: OutputConfig{
			Format: DefaultOutputFormat,
		},
		TUI: TUIConfig{
			ShowHelp: true,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "montaje", "config.toml")
}

// DataPath returns the path to the data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "montaje")
}

// DatabasePath resolves the SQLite file location: the configured path
// if set, otherwise montaje.db in the data directory.
func (c *Config) DatabasePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	return filepath.Join(DataPath(), "montaje.db")
}

// Calendar builds the working calendar from the configured holidays
// and shift length.
func (c *Config) Calendar() (*workcal.Calendar, error) {
	holidays := workcal.Default2025()
	if len(c.Planning.Holidays) > 0 {
		var err error
		holidays, err = workcal.NewHolidays(c.Planning.Holidays)
		if err != nil {
			return nil, fmt.Errorf("planning.holidays: %w", err)
		}
	}
	return workcal.New(holidays, c.Planning.WorkdayMinutes), nil
}

// Validate checks config values that would break planning.
func (c *Config) Validate() error {
	if c.Planning.WorkdayMinutes <= 0 || c.Planning.WorkdayMinutes > 24*60 {
		return fmt.Errorf("planning.workday_minutes must be between 1 and 1440, got %d", c.Planning.WorkdayMinutes)
	}
	if c.Planning.Overhead < 1 {
		return fmt.Errorf("planning.overhead must be at least 1, got %g", c.Planning.Overhead)
	}
	switch c.Output.Format {
	case "table", "json", "csv":
	default:
		return fmt.Errorf("output.format must be table, json or csv, got %q", c.Output.Format)
	}
	if _, err := c.Calendar(); err != nil {
		return err
	}
	return nil
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	// Start with defaults
	cfg := DefaultConfig()

	// Check if file exists
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// No config file, use defaults
			return cfg, nil
		}
		return nil, err
	}

	// Parse TOML
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	path := DataPath()
	if path == "" {
		return errors.New("unable to determine data directory")
	}
	return os.MkdirAll(path, 0755)
}
