package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_CreatesTemplateAndUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// First run writes the template for later editing.
	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Errorf("config.toml not created: %v", err)
	}

	if cfg.Simulation.RiskFreeRate != 0.05 {
		t.Errorf("risk_free_rate = %f, want 0.05", cfg.Simulation.RiskFreeRate)
	}
	if cfg.Simulation.YearDays != 365 {
		t.Errorf("year_days = %f, want 365", cfg.Simulation.YearDays)
	}
	if cfg.Simulation.Simulations != 1000 {
		t.Errorf("simulations = %d, want 1000", cfg.Simulation.Simulations)
	}
	if cfg.Simulation.MonteCarlo {
		t.Error("monte_carlo should default off")
	}
	if cfg.Margin.StockMarginPct != 0.25 {
		t.Errorf("stock_margin_pct = %f, want 0.25", cfg.Margin.StockMarginPct)
	}
	if cfg.Chain.MinOpenInterest != 10 {
		t.Errorf("min_open_interest = %d, want 10", cfg.Chain.MinOpenInterest)
	}
	if cfg.Logging.Level != "info" || !cfg.Logging.Console || cfg.Logging.File {
		t.Errorf("logging defaults = %+v", cfg.Logging)
	}
}

func TestLoad_ReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	contents := `[simulation]
risk_free_rate = 0.03
simulations = 500

[margin]
stock_margin_pct = 0.5
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Simulation.RiskFreeRate != 0.03 {
		t.Errorf("risk_free_rate = %f, want 0.03", cfg.Simulation.RiskFreeRate)
	}
	if cfg.Simulation.Simulations != 500 {
		t.Errorf("simulations = %d, want 500", cfg.Simulation.Simulations)
	}
	if cfg.Margin.StockMarginPct != 0.5 {
		t.Errorf("stock_margin_pct = %f, want 0.5", cfg.Margin.StockMarginPct)
	}
	// Unset keys fall through to defaults.
	if cfg.Simulation.YearDays != 365 {
		t.Errorf("year_days = %f, want default 365", cfg.Simulation.YearDays)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OPTIONSIM_RISK_FREE_RATE", "0.02")
	t.Setenv("OPTIONSIM_SIMULATIONS", "250")
	t.Setenv("OPTIONSIM_LOG_LEVEL", "debug")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Simulation.RiskFreeRate != 0.02 {
		t.Errorf("risk_free_rate = %f, want 0.02", cfg.Simulation.RiskFreeRate)
	}
	if cfg.Simulation.Simulations != 250 {
		t.Errorf("simulations = %d, want 250", cfg.Simulation.Simulations)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Simulation: SimulationConfig{
				RiskFreeRate: 0.05,
				YearDays:     365,
				StdDevRange:  3,
				Simulations:  1000,
			},
			Margin: MarginConfig{StockMarginPct: 0.25},
			Chain:  ChainConfig{MinOpenInterest: 10, DeltaMin: 0.03, DeltaMax: 0.97, MinPrice: 10},
		}
	}

	if err := (func() *Config { c := valid(); return &c })().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero year days", func(c *Config) { c.Simulation.YearDays = 0 }},
		{"negative stddev range", func(c *Config) { c.Simulation.StdDevRange = -1 }},
		{"one simulation", func(c *Config) { c.Simulation.Simulations = 1 }},
		{"negative rate", func(c *Config) { c.Simulation.RiskFreeRate = -0.01 }},
		{"zero stock margin", func(c *Config) { c.Margin.StockMarginPct = 0 }},
		{"stock margin above one", func(c *Config) { c.Margin.StockMarginPct = 1.5 }},
		{"inverted delta bounds", func(c *Config) { c.Chain.DeltaMin = 0.9; c.Chain.DeltaMax = 0.1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
