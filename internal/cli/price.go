package cli

import (
	"github.com/spf13/cobra"

	"optionsim/internal/models"
	"optionsim/internal/pricing"
)

// priceFlags binds the pricing inputs shared by the price and iv commands.
type priceFlags struct {
	underlying float64
	strike     float64
	days       float64
	kind       string
	rate       float64
	vol        float64
	mark       float64
}

func (f *priceFlags) register(cmd *cobra.Command, app *App) {
	cmd.Flags().Float64VarP(&f.underlying, "underlying", "u", 0, "underlying price")
	cmd.Flags().Float64VarP(&f.strike, "strike", "k", 0, "strike price")
	cmd.Flags().Float64VarP(&f.days, "days", "d", 30, "days to expiration")
	cmd.Flags().StringVarP(&f.kind, "type", "t", "C", "option type: C or P")
	cmd.Flags().Float64VarP(&f.rate, "rate", "r", app.Config.Simulation.RiskFreeRate, "annualized risk-free rate")
	cmd.MarkFlagRequired("underlying")
	cmd.MarkFlagRequired("strike")
}

func newPriceCmd(app *App) *cobra.Command {
	flags := &priceFlags{}
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a European option and report its Greeks",
		Long: `Price a European option with the Black-Scholes model.

Theta is reported per day, computed by repricing one day closer to expiry.
At expiration theta is undefined and omitted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			res, err := pricing.PriceGreeks(pricing.Params{
				Underlying: flags.underlying,
				Strike:     flags.strike,
				TimeDays:   flags.days,
				Kind:       models.Kind(flags.kind),
				Volatility: flags.vol,
				Rate:       flags.rate,
				YearDays:   app.Config.Simulation.YearDays,
			})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				payload := map[string]interface{}{
					"price": res.Price,
					"delta": res.Delta,
					"vega":  res.Vega,
					"gamma": res.Gamma,
				}
				if res.ThetaValid {
					payload["theta"] = res.Theta
				}
				return output.JSON(payload)
			}

			output.Bold("Black-Scholes")
			output.Printf("  Price: %.4f\n", res.Price)
			output.Printf("  Delta: %.4f\n", res.Delta)
			if res.ThetaValid {
				output.Printf("  Theta: %.4f\n", res.Theta)
			} else {
				output.Printf("  Theta: n/a (at expiration)\n")
			}
			output.Printf("  Vega:  %.4f\n", res.Vega)
			output.Printf("  Gamma: %.4f\n", res.Gamma)
			return nil
		},
	}
	flags.register(cmd, app)
	cmd.Flags().Float64VarP(&flags.vol, "vol", "v", 0.25, "annualized volatility")
	return cmd
}

func newIVCmd(app *App) *cobra.Command {
	flags := &priceFlags{}
	cmd := &cobra.Command{
		Use:   "iv",
		Short: "Solve implied volatility from an option price",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			vol, res, err := pricing.ImpliedVolatility(pricing.IVParams{
				Underlying:  flags.underlying,
				Strike:      flags.strike,
				TimeDays:    flags.days,
				TargetPrice: flags.mark,
				Kind:        models.Kind(flags.kind),
				Rate:        flags.rate,
				YearDays:    app.Config.Simulation.YearDays,
			})
			if err != nil {
				app.Logger.Warn().Err(err).
					Float64("strike", flags.strike).
					Float64("target_price", flags.mark).
					Msg("Implied volatility solve failed")
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"implied_volatility": vol,
					"price":              res.Price,
					"delta":              res.Delta,
					"vega":               res.Vega,
					"gamma":              res.Gamma,
				})
			}
			output.Printf("Implied volatility: %.4f\n", vol)
			output.Printf("Delta: %.4f  Vega: %.4f  Gamma: %.4f\n", res.Delta, res.Vega, res.Gamma)
			return nil
		},
	}
	flags.register(cmd, app)
	cmd.Flags().Float64VarP(&flags.mark, "mark", "m", 0, "observed option price")
	cmd.MarkFlagRequired("mark")
	return cmd
}

func newProbCmd(app *App) *cobra.Command {
	var underlying, strike, vol, days float64
	cmd := &cobra.Command{
		Use:   "prob",
		Short: "Risk-neutral probability of finishing at or above a strike",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			p := pricing.PriceProbability(underlying, strike, days, vol,
				app.Config.Simulation.RiskFreeRate)
			if output.IsJSON() {
				return output.JSON(map[string]float64{"probability": p})
			}
			output.Printf("P(S >= %.2f in %.0f days) = %.4f\n", strike, days, p)
			return nil
		},
	}
	cmd.Flags().Float64VarP(&underlying, "underlying", "u", 0, "underlying price")
	cmd.Flags().Float64VarP(&strike, "strike", "k", 0, "strike price")
	cmd.Flags().Float64VarP(&vol, "vol", "v", 0.25, "annualized volatility")
	cmd.Flags().Float64VarP(&days, "days", "d", 30, "horizon in days")
	cmd.MarkFlagRequired("underlying")
	cmd.MarkFlagRequired("strike")
	return cmd
}

func newExpectedMoveCmd(app *App) *cobra.Command {
	var underlying, vol, days float64
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Expected one standard deviation move of the underlying",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			move := pricing.ExpectedMove(underlying, vol, days)
			if output.IsJSON() {
				return output.JSON(map[string]float64{"expected_move": move})
			}
			output.Printf("Expected move over %.0f days: %.2f (%.2f%% of underlying)\n",
				days, move, 100*move/underlying)
			return nil
		},
	}
	cmd.Flags().Float64VarP(&underlying, "underlying", "u", 0, "underlying price")
	cmd.Flags().Float64VarP(&vol, "vol", "v", 0.25, "annualized volatility")
	cmd.Flags().Float64VarP(&days, "days", "d", 30, "horizon in days")
	cmd.MarkFlagRequired("underlying")
	return cmd
}
