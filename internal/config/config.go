package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/Akashdeep-Patra/zippy-table/internal/table"
)

// Column is one configured table column.
type Column struct {
	Header   string `mapstructure:"header"`
	Prop     string `mapstructure:"prop"`
	Renderer string `mapstructure:"renderer"`
}

// Config holds the resolved application configuration.
type Config struct {
	// Theme name: "dark" (default) or "light".
	Theme string `mapstructure:"theme"`
	// RowHeight is the height of one row in terminal lines.
	RowHeight int `mapstructure:"row_height"`
	// SelectionMode is "row" or "multi-row".
	SelectionMode string `mapstructure:"selection_mode"`
	// Preload builds renderers for off-screen rows while idle.
	Preload       bool          `mapstructure:"preload"`
	PreloadBudget time.Duration `mapstructure:"preload_budget"`
	// ColumnSeparator is the width of the gap drawn between columns.
	ColumnSeparator int `mapstructure:"column_separator"`
	// DisableScrollCompensation ignores wheel deltas as a scroll hint. The
	// terminal applies scrolling before the frame runs, so it defaults on.
	DisableScrollCompensation bool `mapstructure:"disable_scroll_compensation"`
	HideHeader                bool `mapstructure:"hide_header"`
	MinColumnSize             int  `mapstructure:"min_column_size"`
	Padding                   int  `mapstructure:"padding"`
	BufferRows                int  `mapstructure:"buffer_rows"`
	// WatchDebounce is how long file events settle before a reload.
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`
	LogFile       string        `mapstructure:"log_file"`
	LogLevel      string        `mapstructure:"log_level"`
	// Columns overrides inferred columns when non-empty.
	Columns []Column    `mapstructure:"columns"`
	Keys    KeyBindings `mapstructure:"keys"`
}

// Load reads configuration from ~/.config/zt/config.yaml, then ./config.yaml,
// then ZT_* environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath(Directory())
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvPrefix("ZT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is fine; use defaults.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the table cannot work with.
func (c *Config) Validate() error {
	if _, err := table.ParseSelectionMode(c.SelectionMode); err != nil {
		return fmt.Errorf("selection_mode: %w", err)
	}
	if c.RowHeight < 1 {
		return fmt.Errorf("row_height must be at least 1, got %d", c.RowHeight)
	}
	if c.PreloadBudget <= 0 {
		return fmt.Errorf("preload_budget must be positive, got %s", c.PreloadBudget)
	}
	for i, col := range c.Columns {
		if col.Prop == "" {
			return fmt.Errorf("columns[%d]: prop is required", i)
		}
	}
	return nil
}

// TableOptions translates the table settings into table options.
func (c *Config) TableOptions() []table.Option {
	mode, _ := table.ParseSelectionMode(c.SelectionMode)
	return []table.Option{
		table.WithRowHeight(c.RowHeight),
		table.WithSelectionMode(mode),
		table.WithPreload(c.Preload),
		table.WithPreloadBudget(c.PreloadBudget),
		table.WithColumnSeparator(c.ColumnSeparator),
		table.WithDisableScrollCompensation(c.DisableScrollCompensation),
		table.WithHideHeader(c.HideHeader),
		table.WithMinColumnSize(c.MinColumnSize),
		table.WithPadding(c.Padding),
		table.WithBufferRows(c.BufferRows),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("theme", "dark")
	v.SetDefault("row_height", 1)
	v.SetDefault("selection_mode", string(table.SelectionRow))
	v.SetDefault("preload", true)
	v.SetDefault("preload_budget", table.DefaultPreloadBudget)
	v.SetDefault("column_separator", 1)
	v.SetDefault("disable_scroll_compensation", true)
	v.SetDefault("hide_header", false)
	v.SetDefault("min_column_size", 4)
	v.SetDefault("padding", 2)
	v.SetDefault("buffer_rows", table.DefaultBufferRows)
	v.SetDefault("watch_debounce", 500*time.Millisecond)
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")
	for name, keys := range DefaultKeyBindings().entries() {
		v.SetDefault("keys."+name, keys)
	}
}

// Directory is where the config file is looked up first.
func Directory() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "zt")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "zt")
}
