package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Option Strategy Simulator Configuration

[simulation]
# Annualized risk-free rate used by the pricing kernel
risk_free_rate = 0.05
# Day-count convention: days per year
year_days = 365.0
# Width of the simulated price range in standard deviations each side
stddev_range = 3.0
# Number of price points per PnL profile (and Monte Carlo draws)
simulations = 1000
# Estimate expected profit by Monte Carlo instead of the closed form
monte_carlo = false
# Seed for reproducible Monte Carlo runs; 0 seeds from the clock
monte_carlo_seed = 0
# Volatility assumed when a leg supplies neither mark nor volatility
default_volatility = 0.25

[margin]
# Maintenance percentage applied to stock legs; brokers range 0.2 - 0.5
stock_margin_pct = 0.25

[chain]
# Liquidity filter applied by the purge operation
min_open_interest = 10
delta_min = 0.03
delta_max = 0.97
min_price = 10.0

[logging]
# Log level: debug, info, warn, error
level = "info"
# Write human-readable logs to the console
console = true
# Write rotated JSON logs under the config directory
file = false
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	return nil
}
