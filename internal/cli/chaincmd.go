package cli

import (
	"github.com/spf13/cobra"

	"optionsim/internal/chain"
	simerrors "optionsim/internal/errors"
	"optionsim/internal/logging"
	"optionsim/internal/margin"
	"optionsim/internal/models"
	"optionsim/internal/strategy"
)

func newChainCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Work with option chain CSV snapshots",
		Long: `Load an option chain snapshot from CSV, inspect it, and assemble
strategies from quoted contracts. Column names follow the TastyTrade export
format.`,
	}

	cmd.PersistentFlags().String("file", "", "chain CSV file")
	cmd.PersistentFlags().Bool("no-purge", false, "skip the liquidity filter")
	cmd.MarkPersistentFlagRequired("file")

	cmd.AddCommand(newChainSymbolsCmd(app))
	cmd.AddCommand(newChainInfoCmd(app))
	cmd.AddCommand(newChainBuildCmd(app))
	return cmd
}

// loadChain loads and optionally purges the chain named by the --file flag.
func loadChain(cmd *cobra.Command, app *App) (chain.Chain, error) {
	path, _ := cmd.Flags().GetString("file")
	noPurge, _ := cmd.Flags().GetBool("no-purge")

	ch, err := chain.Load(path)
	if err != nil {
		return nil, err
	}
	app.Logger.Debug().Str("file", path).Int("contracts", len(ch)).Msg("Chain loaded")

	if !noPurge {
		ch = ch.Purge(chain.PurgeOptions{
			MinOpenInterest: app.Config.Chain.MinOpenInterest,
			DeltaMin:        app.Config.Chain.DeltaMin,
			DeltaMax:        app.Config.Chain.DeltaMax,
			MinPrice:        app.Config.Chain.MinPrice,
		})
		if len(ch) == 0 {
			return nil, simerrors.ErrChainEmpty
		}
	}
	return ch, nil
}

func newChainSymbolsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "symbols",
		Short: "List underlying symbols in the chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ch, err := loadChain(cmd, app)
			if err != nil {
				return err
			}
			symbols := ch.Symbols()
			if output.IsJSON() {
				return output.JSON(symbols)
			}
			for _, sym := range symbols {
				output.Println(sym)
			}
			return nil
		},
	}
}

func newChainInfoCmd(app *App) *cobra.Command {
	var dte int
	cmd := &cobra.Command{
		Use:   "info SYMBOL",
		Short: "Show chain metrics for one symbol and expiration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ch, err := loadChain(cmd, app)
			if err != nil {
				return err
			}

			sub := ch.ForSymbol(args[0])
			if len(sub) == 0 {
				return simerrors.ErrContractNotFound
			}
			exp, err := sub.ForDTE(dte, false)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"symbol":             exp.UnderlyingSymbol(),
					"underlying_price":   exp.UnderlyingPrice(),
					"days_to_expiration": exp.DaysToExpiration(),
					"contracts":          len(exp.Contracts),
					"average_iv":         exp.AverageIV(),
					"volume_ratio":       exp.VolumeRatio(),
					"volatility_ratio":   exp.VolatilityRatio(),
					"expire_days":        sub.ExpireDays(),
				})
			}

			output.Bold("%s @ %.2f", exp.UnderlyingSymbol(), exp.UnderlyingPrice())
			output.Printf("  DTE:              %d (%d contracts)\n", exp.DaysToExpiration(), len(exp.Contracts))
			output.Printf("  Average IV:       %.4f\n", exp.AverageIV())
			output.Printf("  Volume ratio:     %+.3f\n", exp.VolumeRatio())
			output.Printf("  Volatility ratio: %+.3f\n", exp.VolatilityRatio())
			output.Printf("  Expirations:      %v\n", sub.ExpireDays())
			return nil
		},
	}
	cmd.Flags().IntVarP(&dte, "dte", "d", 30, "target days to expiration (closest match)")
	return cmd
}

func newChainBuildCmd(app *App) *cobra.Command {
	var (
		dte      int
		quantity int
		delta    float64
		otmDelta float64
		width    float64
		strike   float64
		kind     string
	)
	cmd := &cobra.Command{
		Use:       "build SYMBOL SHAPE",
		Short:     "Assemble a strategy from quoted contracts and simulate it",
		Long:      "SHAPE is one of: single, straddle, strangle, spread, condor.",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"single", "straddle", "strangle", "spread", "condor"},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ch, err := loadChain(cmd, app)
			if err != nil {
				return err
			}

			sub := ch.ForSymbol(args[0])
			if len(sub) == 0 {
				return simerrors.ErrContractNotFound
			}
			exp, err := sub.ForDTE(dte, false)
			if err != nil {
				return err
			}

			var legs []strategy.LegInput
			switch args[1] {
			case "single":
				legs, err = exp.Single(quantity, models.Kind(kind), delta)
			case "straddle":
				if strike == 0 {
					strike = exp.UnderlyingPrice()
				}
				legs, err = exp.Straddle(chain.StraddleSpec{
					Quantity: quantity,
					Strike:   strike,
				})
			case "strangle":
				legs, err = exp.Strangle(chain.StrangleSpec{
					Quantity: quantity,
					Delta:    delta,
				})
			case "spread":
				legs, err = exp.Spread(chain.SpreadSpec{
					Quantity: quantity,
					Kind:     models.Kind(kind),
					Delta:    delta,
					OTMDelta: otmDelta,
					Width:    width,
				})
			case "condor":
				legs, err = exp.IronCondor(chain.CondorSpec{
					Quantity: quantity,
					Delta:    delta,
					OTMDelta: otmDelta,
					Width:    width,
				})
			default:
				return simerrors.NewValidationError("shape", args[1],
					"must be single, straddle, strangle, spread or condor")
			}
			if err != nil {
				return err
			}

			simCfg := app.Config.Simulation
			s, err := strategy.New(strategy.Config{
				UnderlyingPrice: exp.UnderlyingPrice(),
				Symbol:          exp.UnderlyingSymbol(),
				Title:           args[1],
				RiskFreeRate:    simCfg.RiskFreeRate,
				YearDays:        simCfg.YearDays,
				StdDevRange:     simCfg.StdDevRange,
				Simulations:     simCfg.Simulations,
				MonteCarlo:      simCfg.MonteCarlo,
				Seed:            simCfg.MonteCarloSeed,
			})
			if err != nil {
				return err
			}
			for _, in := range legs {
				if err := s.AddLeg(in); err != nil {
					return err
				}
			}
			if err := s.AddPnL(); err != nil {
				return err
			}

			calc := margin.Calculator{StockMarginPct: app.Config.Margin.StockMarginPct}
			req := calc.Calculate(s)

			pop, err := s.POP(0)
			if err != nil {
				return err
			}
			expected, err := s.ExpectedProfit(0)
			if err != nil {
				return err
			}
			logging.LogSimulation(logging.WithSymbol(app.Logger, s.Symbol()),
				s.Symbol(), len(s.Legs()), pop, expected)

			if output.IsJSON() {
				return printSimulationJSON(output, s, req)
			}
			return printSimulation(output, s, req)
		},
	}

	cmd.Flags().IntVarP(&dte, "dte", "d", 30, "target days to expiration (closest match)")
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "contracts per leg")
	cmd.Flags().Float64Var(&delta, "delta", 0.3, "inner leg delta magnitude")
	cmd.Flags().Float64Var(&otmDelta, "otm-delta", 0, "outer leg delta magnitude")
	cmd.Flags().Float64Var(&width, "width", 0, "outer leg strike distance")
	cmd.Flags().Float64Var(&strike, "strike", 0, "straddle strike (0 = at the money)")
	cmd.Flags().StringVarP(&kind, "type", "t", "C", "option type for single and spread: C or P")
	return cmd
}
