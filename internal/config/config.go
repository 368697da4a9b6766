package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	History HistoryConfig `mapstructure:"history"`
	Editor  EditorConfig  `mapstructure:"editor"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// File is where the editor logs; empty discards.
	File string `mapstructure:"file"`
}

type HistoryConfig struct {
	// Limit caps the undo stack, 0 means unbounded.
	Limit int `mapstructure:"limit"`
}

type EditorConfig struct {
	// Step is the distance, as a fraction of the larger bbox side, an arrow
	// key moves the selected vertex.
	Step float64 `mapstructure:"step"`
	// Tolerance is the distance under which two coordinates count as equal
	// when comparing against a reference geometry.
	Tolerance float64 `mapstructure:"tolerance"`
}

type MetricsConfig struct {
	// File receives the metrics registry in text format on exit; empty
	// disables the dump.
	File string `mapstructure:"file"`
}

// Load reads configuration from an optional file and environment
// variables. An explicit path must exist; otherwise geoedit.yaml is looked
// up in the working directory and $HOME/.config/geoedit.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("history.limit", 0)
	v.SetDefault("editor.step", 0.02)
	v.SetDefault("editor.tolerance", 1e-9)
	v.SetDefault("metrics.file", "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("geoedit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/geoedit")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	// Environment variables: GEOEDIT_LOG_LEVEL → log.level
	v.SetEnvPrefix("GEOEDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that configuration values are sane.
func (c *Config) Validate() error {
	var errs []string

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be json or text, got %q", c.Log.Format))
	}
	if c.History.Limit < 0 {
		errs = append(errs, fmt.Sprintf("history.limit must not be negative, got %d", c.History.Limit))
	}
	if c.Editor.Step <= 0 || c.Editor.Step > 1 {
		errs = append(errs, fmt.Sprintf("editor.step must be in (0, 1], got %g", c.Editor.Step))
	}
	if c.Editor.Tolerance < 0 {
		errs = append(errs, fmt.Sprintf("editor.tolerance must not be negative, got %g", c.Editor.Tolerance))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
