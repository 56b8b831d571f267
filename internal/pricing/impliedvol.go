package pricing

import (
	"math"

	simerrors "optionsim/internal/errors"
	"optionsim/internal/models"
)

// Solver defaults for the Newton-Raphson implied-volatility search.
const (
	DefaultIVGuess     = 0.2
	DefaultIVTolerance = 1e-6
	MaxIVIterations    = 100
)

// IVParams are the inputs to an implied-volatility solve.
type IVParams struct {
	Underlying  float64
	Strike      float64
	TimeDays    float64
	TargetPrice float64
	Kind        models.Kind
	Rate        float64
	YearDays    float64
	// InitialGuess, Tolerance and MaxIterations fall back to the package
	// defaults when zero.
	InitialGuess  float64
	Tolerance     float64
	MaxIterations int
}

// ImpliedVolatility recovers the volatility that prices the option at
// TargetPrice, along with the Greeks at the solution.
//
// The search is pure undamped Newton-Raphson: no bracketing, no step
// limiting. It fails with ErrNoSolution when vega is exactly zero, when the
// volatility guess goes negative, or when the iteration cap is reached.
// Pathological inputs (deep OTM, near-zero time) can diverge; that is the
// documented behavior, not a defect.
func ImpliedVolatility(p IVParams) (float64, Result, error) {
	guess := p.InitialGuess
	if guess == 0 {
		guess = DefaultIVGuess
	}
	tolerance := p.Tolerance
	if tolerance == 0 {
		tolerance = DefaultIVTolerance
	}
	maxIterations := p.MaxIterations
	if maxIterations == 0 {
		maxIterations = MaxIVIterations
	}

	vol := guess
	for i := 0; i < maxIterations; i++ {
		res, err := PriceGreeks(Params{
			Underlying: p.Underlying,
			Strike:     p.Strike,
			TimeDays:   p.TimeDays,
			Kind:       p.Kind,
			Volatility: vol,
			Rate:       p.Rate,
			YearDays:   p.YearDays,
		})
		if err != nil {
			return 0, Result{}, err
		}

		diff := res.Price - p.TargetPrice
		if res.Vega == 0 {
			return 0, Result{}, simerrors.NewConvergenceError("vega is zero", i, vol)
		}
		if math.Abs(diff) < tolerance {
			return vol, res, nil
		}

		vol -= diff / res.Vega
		if vol < 0 {
			// Volatility can never be negative.
			return 0, Result{}, simerrors.NewConvergenceError("volatility guess went negative", i, vol)
		}
	}
	return 0, Result{}, simerrors.NewConvergenceError("did not converge", maxIterations, vol)
}
