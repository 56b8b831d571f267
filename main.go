package main

import (
	"fmt"
	"os"

	"optionsim/internal/cli"
	"optionsim/internal/config"
	"optionsim/internal/logging"
)

func main() {
	configDir := configDirFromArgs(os.Args[1:])

	cfg, err := config.Load(configDir)
	logger := logging.NewLogger()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load config, using defaults")
		cfg = defaultConfig()
	} else {
		logCfg := logging.DefaultLogConfig()
		logCfg.Level = cfg.Logging.Level
		logCfg.Console = cfg.Logging.Console
		logCfg.File = cfg.Logging.File
		logger = logging.NewLoggerWithConfig(logCfg)
	}

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// configDirFromArgs pulls the --config flag out ahead of cobra parsing, since
// the config must be loaded before the command tree is built.
func configDirFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if len(arg) > len("--config=") && arg[:len("--config=")] == "--config=" {
			return arg[len("--config="):]
		}
	}
	return ""
}

func defaultConfig() *config.Config {
	return &config.Config{
		Simulation: config.SimulationConfig{
			RiskFreeRate:      0.05,
			YearDays:          365,
			StdDevRange:       3,
			Simulations:       1000,
			DefaultVolatility: 0.25,
		},
		Margin: config.MarginConfig{StockMarginPct: 0.25},
		Chain: config.ChainConfig{
			MinOpenInterest: 10,
			DeltaMin:        0.03,
			DeltaMax:        0.97,
			MinPrice:        10,
		},
		Logging: config.LoggingConfig{Level: "info", Console: true},
	}
}
