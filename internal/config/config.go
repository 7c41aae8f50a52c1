// Package config provides configuration management for the structure
// tracker.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	apperrors "b3-tracker/internal/errors"
	"b3-tracker/internal/results"
)

// Config holds all application configuration.
type Config struct {
	Costs   CostsConfig   `mapstructure:"costs"`
	Logging LoggingConfig `mapstructure:"logging"`
	UI      UIConfig      `mapstructure:"ui"`
}

// CostsConfig holds the fixed cost constants of the cost model. Values
// are strings so they parse with exact decimal precision.
type CostsConfig struct {
	BrokerageFee   string `mapstructure:"brokerage_fee"`
	EmolumentsRate string `mapstructure:"emoluments_rate"`
	TaxRate        string `mapstructure:"tax_rate"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

// UIConfig holds output-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/b3-tracker"
	}
	return filepath.Join(home, ".config", "b3-tracker")
}

// DefaultDBPath returns the default ledger database path.
func DefaultDBPath() string {
	return filepath.Join(DefaultConfigDir(), "ledger.db")
}

// Load loads configuration from the specified directory. If configDir
// is empty, the default config directory is used. A missing config file
// is not an error: defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	defaults := results.DefaultCostConfig()
	v.SetDefault("costs.brokerage_fee", defaults.BrokerageFee.String())
	v.SetDefault("costs.emoluments_rate", defaults.EmolumentsRate.String())
	v.SetDefault("costs.tax_rate", defaults.TaxRate.String())
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 7)
	v.SetDefault("logging.max_age", 30)
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "2006-01-02")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, err := c.CostConfig(); err != nil {
		return err
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", apperrors.ErrConfigInvalid, c.Logging.Level)
	}
	return nil
}

// CostConfig parses the configured cost constants into the aggregator's
// cost configuration.
func (c *Config) CostConfig() (results.CostConfig, error) {
	fee, err := decimal.NewFromString(c.Costs.BrokerageFee)
	if err != nil {
		return results.CostConfig{}, fmt.Errorf("%w: brokerage_fee %q", apperrors.ErrConfigInvalid, c.Costs.BrokerageFee)
	}
	rate, err := decimal.NewFromString(c.Costs.EmolumentsRate)
	if err != nil {
		return results.CostConfig{}, fmt.Errorf("%w: emoluments_rate %q", apperrors.ErrConfigInvalid, c.Costs.EmolumentsRate)
	}
	tax, err := decimal.NewFromString(c.Costs.TaxRate)
	if err != nil {
		return results.CostConfig{}, fmt.Errorf("%w: tax_rate %q", apperrors.ErrConfigInvalid, c.Costs.TaxRate)
	}
	if fee.IsNegative() || rate.IsNegative() || tax.IsNegative() {
		return results.CostConfig{}, fmt.Errorf("%w: cost constants must not be negative", apperrors.ErrConfigInvalid)
	}
	return results.CostConfig{
		BrokerageFee:   fee,
		EmolumentsRate: rate,
		TaxRate:        tax,
	}, nil
}
