// Package pricing implements European option pricing and Greeks using the
// Black-Scholes model, plus an implied-volatility solver built on top of it.
package pricing

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	simerrors "optionsim/internal/errors"
	"optionsim/internal/models"
)

// Defaults shared across the simulator.
const (
	// DefaultRate is the risk-free interest rate.
	DefaultRate = 0.05
	// DefaultYearDays is the day-count convention for annualizing time.
	// Some prefer 252 trading days instead of 365.
	DefaultYearDays = 365.0
)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// Params are the inputs to a single Black-Scholes evaluation.
type Params struct {
	Underlying float64
	Strike     float64
	TimeDays   float64
	Kind       models.Kind
	Volatility float64
	Rate       float64
	// YearDays defaults to 365 when zero.
	YearDays float64
	// ThetaWindowDays is the decay window for the finite-difference theta.
	// Defaults to 1 when zero.
	ThetaWindowDays float64
}

func (p Params) validate() error {
	if p.Underlying <= 0 {
		return simerrors.NewValidationError("underlying", p.Underlying, "must be > 0")
	}
	if p.Strike <= 0 {
		return simerrors.NewValidationError("strike", p.Strike, "must be > 0")
	}
	if !p.Kind.IsOption() {
		return simerrors.NewValidationError("kind", string(p.Kind), `must be "C" or "P"`)
	}
	if p.Volatility < 0 {
		return simerrors.NewValidationError("volatility", p.Volatility, "must be non-negative")
	}
	return nil
}

// Result holds the theoretical price and Greeks of one option contract.
type Result struct {
	Price float64
	Delta float64
	Theta float64
	Vega  float64
	Gamma float64
	// ThetaValid is false at expiration, where decay no longer applies.
	ThetaValid bool
}

// Greeks returns the sensitivities of the result as a models.Greeks value.
func (r Result) Greeks() models.Greeks {
	return models.Greeks{
		Delta: r.Delta,
		Theta: r.Theta,
		Vega:  r.Vega,
		Gamma: r.Gamma,
	}
}

// PriceGreeks computes the Black-Scholes price, delta, theta, vega and gamma
// of a European option.
//
// At or past expiration (TimeDays <= 0) the option is worth its intrinsic
// value and carries no sensitivities; ThetaValid is false in that case.
//
// Theta is a finite difference: the price change from stepping time to
// expiration back one day, divided by the fractional theta window. This is
// deliberately not the analytic theta formula.
func PriceGreeks(p Params) (Result, error) {
	if err := p.validate(); err != nil {
		return Result{}, err
	}
	yearDays := p.YearDays
	if yearDays == 0 {
		yearDays = DefaultYearDays
	}
	window := p.ThetaWindowDays
	if window == 0 {
		window = 1
	}

	T := p.TimeDays / yearDays
	if T <= 0 {
		return Result{Price: intrinsic(p.Underlying, p.Strike, p.Kind)}, nil
	}

	price, delta, vega, gamma := evaluate(p, T, T)
	// Reprice one day closer to expiration. Discounting stays at the full
	// term T while stepping the time input back.
	next, _, _, _ := evaluate(p, (p.TimeDays-1)/yearDays, T)
	theta := (next - price) / (window / yearDays)

	return Result{
		Price:      price,
		Delta:      delta,
		Theta:      theta,
		Vega:       vega,
		Gamma:      gamma,
		ThetaValid: true,
	}, nil
}

// evaluate prices at tYears while discounting over discountYears. Vega and
// gamma use the full term and are only meaningful from the primary call
// where tYears == discountYears.
func evaluate(p Params, tYears, discountYears float64) (price, delta, vega, gamma float64) {
	sigmaT := p.Volatility * math.Sqrt(tYears)
	if sigmaT == 0 {
		// Floor the volatility-time product to avoid division by zero.
		sigmaT = math.Sqrt(0.1 / 365)
	}
	d1 := (math.Log(p.Underlying/p.Strike) + (p.Rate+0.5*p.Volatility*p.Volatility)*tYears) / sigmaT
	d2 := d1 - sigmaT
	discount := math.Exp(-p.Rate * discountYears)

	if p.Kind == models.Call {
		price = p.Underlying*stdNormal.CDF(d1) - p.Strike*discount*stdNormal.CDF(d2)
		delta = stdNormal.CDF(d1)
	} else {
		price = p.Strike*discount*stdNormal.CDF(-d2) - p.Underlying*stdNormal.CDF(-d1)
		delta = stdNormal.CDF(d1) - 1
	}
	vega = p.Underlying * stdNormal.Prob(d1) * math.Sqrt(discountYears)
	gamma = stdNormal.Prob(d1) / (p.Underlying * p.Volatility * math.Sqrt(discountYears))
	return price, delta, vega, gamma
}

func intrinsic(underlying, strike float64, kind models.Kind) float64 {
	if kind == models.Call {
		return math.Max(0, underlying-strike)
	}
	return math.Max(0, strike-underlying)
}
