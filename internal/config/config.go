// Package config provides configuration management for the simulator.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Margin     MarginConfig     `mapstructure:"margin"`
	Chain      ChainConfig      `mapstructure:"chain"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// SimulationConfig holds pricing and PnL simulation parameters.
type SimulationConfig struct {
	RiskFreeRate      float64 `mapstructure:"risk_free_rate"`
	YearDays          float64 `mapstructure:"year_days"`
	StdDevRange       float64 `mapstructure:"stddev_range"`
	Simulations       int     `mapstructure:"simulations"`
	MonteCarlo        bool    `mapstructure:"monte_carlo"`
	MonteCarloSeed    uint64  `mapstructure:"monte_carlo_seed"`
	DefaultVolatility float64 `mapstructure:"default_volatility"`
}

// MarginConfig holds margin calculation parameters.
type MarginConfig struct {
	StockMarginPct float64 `mapstructure:"stock_margin_pct"`
}

// ChainConfig holds option chain filter thresholds.
type ChainConfig struct {
	MinOpenInterest int     `mapstructure:"min_open_interest"`
	DeltaMin        float64 `mapstructure:"delta_min"`
	DeltaMax        float64 `mapstructure:"delta_max"`
	MinPrice        float64 `mapstructure:"min_price"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/optionsim"
	}
	return filepath.Join(home, ".config", "optionsim")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}
	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// First run: write a template, then continue on defaults.
			if werr := createTemplateConfig(configDir); werr != nil {
				return werr
			}
			return v.Unmarshal(target)
		}
		return err
	}
	return v.Unmarshal(target)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("simulation.risk_free_rate", 0.05)
	v.SetDefault("simulation.year_days", 365.0)
	v.SetDefault("simulation.stddev_range", 3.0)
	v.SetDefault("simulation.simulations", 1000)
	v.SetDefault("simulation.monte_carlo", false)
	v.SetDefault("simulation.monte_carlo_seed", 0)
	v.SetDefault("simulation.default_volatility", 0.25)

	v.SetDefault("margin.stock_margin_pct", 0.25)

	v.SetDefault("chain.min_open_interest", 10)
	v.SetDefault("chain.delta_min", 0.03)
	v.SetDefault("chain.delta_max", 0.97)
	v.SetDefault("chain.min_price", 10.0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", false)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPTIONSIM_RISK_FREE_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Simulation.RiskFreeRate = f
		}
	}
	if v := os.Getenv("OPTIONSIM_SIMULATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Simulation.Simulations = n
		}
	}
	if v := os.Getenv("OPTIONSIM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Simulation.YearDays <= 0 {
		return fmt.Errorf("year_days must be positive")
	}
	if c.Simulation.StdDevRange <= 0 {
		return fmt.Errorf("stddev_range must be positive")
	}
	if c.Simulation.Simulations < 2 {
		return fmt.Errorf("simulations must be at least 2")
	}
	if c.Simulation.RiskFreeRate < 0 {
		return fmt.Errorf("risk_free_rate must be non-negative")
	}
	if c.Margin.StockMarginPct <= 0 || c.Margin.StockMarginPct > 1 {
		return fmt.Errorf("stock_margin_pct must be in (0, 1]")
	}
	if c.Chain.DeltaMin < 0 || c.Chain.DeltaMax > 1 || c.Chain.DeltaMin >= c.Chain.DeltaMax {
		return fmt.Errorf("chain delta bounds must satisfy 0 <= delta_min < delta_max <= 1")
	}
	return nil
}
