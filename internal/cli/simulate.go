package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	simerrors "optionsim/internal/errors"
	"optionsim/internal/logging"
	"optionsim/internal/margin"
	"optionsim/internal/models"
	"optionsim/internal/strategy"
	"optionsim/pkg/utils"
)

// parseLegSpec parses a leg flag of the form KIND:STRIKE:QTY[:key=value...].
// KIND is C, P or S; optional keys are vol, mark, days, delta and symbol.
func parseLegSpec(spec string) (strategy.LegInput, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 3 {
		return strategy.LegInput{}, simerrors.NewValidationError("leg", spec,
			"expected KIND:STRIKE:QTY[:key=value...]")
	}

	kind := models.Kind(strings.ToUpper(parts[0]))
	if !kind.Valid() {
		return strategy.LegInput{}, simerrors.NewValidationError("leg", spec,
			`kind must be "C", "P" or "S"`)
	}

	strike, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return strategy.LegInput{}, simerrors.NewValidationError("leg", spec, "invalid strike")
	}
	qty, err := strconv.Atoi(parts[2])
	if err != nil {
		return strategy.LegInput{}, simerrors.NewValidationError("leg", spec, "invalid quantity")
	}

	in := strategy.LegInput{Kind: kind, Strike: strike, Quantity: qty}
	for _, kv := range parts[3:] {
		key, value, found := strings.Cut(kv, "=")
		if !found {
			return strategy.LegInput{}, simerrors.NewValidationError("leg", spec,
				fmt.Sprintf("expected key=value, got %q", kv))
		}
		if key == "symbol" {
			in.Symbol = value
			continue
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return strategy.LegInput{}, simerrors.NewValidationError("leg", spec,
				fmt.Sprintf("invalid value for %s", key))
		}
		switch key {
		case "vol":
			in.Volatility = f
		case "mark":
			in.Mark = f
		case "days":
			in.Days = f
		case "delta":
			in.Delta = f
		default:
			return strategy.LegInput{}, simerrors.NewValidationError("leg", spec,
				fmt.Sprintf("unknown key %q", key))
		}
	}
	return in, nil
}

func newSimulateCmd(app *App) *cobra.Command {
	var (
		legSpecs    []string
		underlying  float64
		symbol      string
		title       string
		volOverride float64
		monteCarlo  bool
		seed        uint64
		sims        int
		partitions  int
		atDTE       []float64
		daysForward float64
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a strategy's PnL profile and margin requirement",
		Long: `Simulate probability-weighted PnL profiles for a multi-leg strategy.

Each --leg takes KIND:STRIKE:QTY with optional key=value suffixes:

  optionsim simulate -u 100 --leg C:105:-1:vol=0.2:days=30 --leg C:110:1:vol=0.2:days=30

Profile 0 is the payoff at expiration; --partitions and --at-dte add forward
profiles at earlier horizons.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if len(legSpecs) == 0 {
				return simerrors.NewValidationError("leg", "", "at least one --leg is required")
			}

			simCfg := app.Config.Simulation
			if monteCarlo {
				simCfg.MonteCarlo = true
			}
			if seed != 0 {
				simCfg.MonteCarloSeed = seed
			}
			if sims != 0 {
				simCfg.Simulations = sims
			}

			s, err := strategy.New(strategy.Config{
				UnderlyingPrice:    underlying,
				Symbol:             symbol,
				Title:              title,
				RiskFreeRate:       simCfg.RiskFreeRate,
				YearDays:           simCfg.YearDays,
				StdDevRange:        simCfg.StdDevRange,
				Simulations:        simCfg.Simulations,
				MonteCarlo:         simCfg.MonteCarlo,
				Seed:               simCfg.MonteCarloSeed,
				VolatilityOverride: volOverride,
			})
			if err != nil {
				return err
			}

			for _, spec := range legSpecs {
				in, err := parseLegSpec(spec)
				if err != nil {
					return err
				}
				if err := s.AddLeg(in); err != nil {
					return simerrors.Wrapf(err, "leg %s", spec)
				}
			}

			if err := s.AddPnLPartitions(partitions); err != nil {
				return err
			}
			for _, dte := range atDTE {
				if err := s.AddPnLAtDTE(dte); err != nil {
					return err
				}
			}
			if daysForward > 0 {
				if err := s.AddPnLDaysForward(daysForward); err != nil {
					return err
				}
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
			logging.LogSimulation(app.Logger, s.Symbol(), len(s.Legs()), pop, expected)

			if output.IsJSON() {
				return printSimulationJSON(output, s, req)
			}
			return printSimulation(output, s, req)
		},
	}

	cmd.Flags().StringArrayVarP(&legSpecs, "leg", "l", nil, "leg spec KIND:STRIKE:QTY[:key=value...] (repeatable)")
	cmd.Flags().Float64VarP(&underlying, "underlying", "u", 0, "underlying price")
	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "underlying symbol")
	cmd.Flags().StringVar(&title, "title", "", "strategy title")
	cmd.Flags().Float64Var(&volOverride, "vol-override", 0, "override aggregate volatility")
	cmd.Flags().BoolVar(&monteCarlo, "monte-carlo", false, "estimate expected profit by Monte Carlo")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Monte Carlo seed (0 = random)")
	cmd.Flags().IntVar(&sims, "sims", 0, "simulation point count (0 = configured default)")
	cmd.Flags().IntVar(&partitions, "partitions", 1, "number of evenly spaced time horizons")
	cmd.Flags().Float64SliceVar(&atDTE, "at-dte", nil, "add a profile at these days to expiration")
	cmd.Flags().Float64Var(&daysForward, "days-forward", 0, "add a profile this many days from now")
	cmd.MarkFlagRequired("underlying")
	cmd.MarkFlagRequired("leg")

	return cmd
}

// profileSummary is the JSON shape for one PnL profile.
type profileSummary struct {
	DaysToExpiration float64 `json:"days_to_expiration"`
	Payoff           bool    `json:"payoff"`
	StdDev           float64 `json:"stddev"`
	POP              float64 `json:"pop"`
	ExpectedProfit   float64 `json:"expected_profit"`
}

func printSimulationJSON(output *Output, s *strategy.Strategy, req margin.Requirement) error {
	profiles := make([]profileSummary, 0, s.ProfileCount())
	for i := 0; i < s.ProfileCount(); i++ {
		p, err := s.Profile(i)
		if err != nil {
			return err
		}
		profiles = append(profiles, profileSummary{
			DaysToExpiration: p.DaysToExpiration,
			Payoff:           p.Payoff,
			StdDev:           p.StdDev,
			POP:              p.POP,
			ExpectedProfit:   p.ExpectedProfit,
		})
	}

	return output.JSON(map[string]interface{}{
		"title":      s.Title(),
		"symbol":     s.Symbol(),
		"underlying": s.UnderlyingPrice(),
		"legs":       s.Legs(),
		"greeks": map[string]float64{
			"delta": s.Delta(),
			"theta": s.Theta(),
			"vega":  s.Vega(),
			"gamma": s.Gamma(),
		},
		"cost":               s.Cost(),
		"days_to_expiration": s.DaysToExpiration(),
		"volatility":         s.Volatility(),
		"profiles":           profiles,
		"margin": map[string]interface{}{
			"cash":   req.Cash,
			"margin": req.Margin,
			"shape":  req.Shape.String(),
		},
	})
}

func printSimulation(output *Output, s *strategy.Strategy, req margin.Requirement) error {
	output.Bold("%s  (%s @ %.2f)", s.Title(), s.Symbol(), s.UnderlyingPrice())
	output.Println()

	output.Bold("Legs")
	for _, leg := range s.Legs() {
		if leg.Kind.IsOption() {
			output.Printf("  %2s %8.2f x%-4d mark=%.2f vol=%.4f dte=%.1f delta=%.4f\n",
				leg.Kind, leg.Strike, leg.Quantity, leg.Mark, leg.Volatility, leg.Days, leg.Greeks.Delta)
		} else {
			output.Printf("  %2s %8.2f x%-4d\n", leg.Kind, leg.Strike, leg.Quantity)
		}
	}
	output.Println()

	output.Bold("Aggregates")
	output.Printf("  Delta: %8.4f   Theta: %8.4f\n", s.Delta(), s.Theta())
	output.Printf("  Vega:  %8.4f   Gamma: %8.4f\n", s.Vega(), s.Gamma())
	output.Printf("  Cost:  %s   DTE: %.1f   Vol: %.4f\n",
		utils.FormatUSD(s.Cost()), s.DaysToExpiration(), s.Volatility())
	output.Println()

	output.Bold("Profiles")
	for i := 0; i < s.ProfileCount(); i++ {
		p, err := s.Profile(i)
		if err != nil {
			return err
		}
		label := fmt.Sprintf("%.1f DTE", p.DaysToExpiration)
		if p.Payoff {
			label = "expiration"
		}
		output.Printf("  [%d] %-12s POP %6.2f%%   expected %s   1sd move %.2f\n",
			i, label, p.POP*100, output.FormatPnL(p.ExpectedProfit), p.StdDev)
	}
	output.Println()

	output.Bold("Margin (%s)", req.Shape)
	output.Printf("  Cash:   %s\n", utils.FormatUSD(req.Cash))
	output.Printf("  Margin: %s\n", utils.FormatUSD(req.Margin))
	return nil
}
