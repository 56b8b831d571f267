package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"optionsim/internal/config"
	"optionsim/internal/logging"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-08-23"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:   "optionsim",
		Short: "Option strategy pricing and risk simulator",
		Long: `optionsim prices European options, solves implied volatility and simulates
probability-weighted PnL profiles for multi-leg option strategies.

Legs are given as KIND:STRIKE:QTY[:key=value...] where KIND is C, P or S.
Use 'optionsim help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/optionsim)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newPriceCmd(app))
	rootCmd.AddCommand(newIVCmd(app))
	rootCmd.AddCommand(newProbCmd(app))
	rootCmd.AddCommand(newExpectedMoveCmd(app))
	rootCmd.AddCommand(newSimulateCmd(app))
	rootCmd.AddCommand(newChainCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("optionsim v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Simulation")
	output.Printf("  Risk-free rate:  %.4f\n", cfg.Simulation.RiskFreeRate)
	output.Printf("  Year days:       %.0f\n", cfg.Simulation.YearDays)
	output.Printf("  StdDev range:    %.1f\n", cfg.Simulation.StdDevRange)
	output.Printf("  Simulations:     %d\n", cfg.Simulation.Simulations)
	output.Printf("  Monte Carlo:     %v\n", cfg.Simulation.MonteCarlo)
	output.Println()

	output.Bold("Margin")
	output.Printf("  Stock margin %%:  %.2f\n", cfg.Margin.StockMarginPct)
	output.Println()

	output.Bold("Chain")
	output.Printf("  Min open int:    %d\n", cfg.Chain.MinOpenInterest)
	output.Printf("  Delta bounds:    %.2f - %.2f\n", cfg.Chain.DeltaMin, cfg.Chain.DeltaMax)
	output.Printf("  Min price:       %.2f\n", cfg.Chain.MinPrice)

	return nil
}
