package strategy

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"optionsim/internal/pricing"
)

// minForwardDays floors the effective time used for the standard deviation of
// forward profiles, avoiding a zero-time singularity for near-dated snapshots.
const minForwardDays = 0.5

// profileSpec pins down what a profile represents so it can be recomputed
// when the strategy's legs change.
type profileSpec struct {
	// payoff freezes time-to-expiration at 0: terminal intrinsic values.
	payoff bool
	// dte is the forward horizon in days-to-expiration when payoff is false.
	dte float64
}

// Profile is a snapshot of the strategy's PnL across a simulated price range
// at one time horizon. Immutable once computed; the price grid and both PnL
// arrays always share the configured simulation count as their length.
type Profile struct {
	spec profileSpec

	// DaysToExpiration is 0 in payoff mode.
	DaysToExpiration float64
	Payoff           bool

	// StdDev is the standard deviation of the underlying at this horizon.
	StdDev float64

	Prices      []float64
	PnL         []float64
	WeightedPnL []float64

	POP            float64
	ExpectedProfit float64
}

func newProfile(s *Strategy, spec profileSpec) (*Profile, error) {
	p := &Profile{
		spec:             spec,
		Payoff:           spec.payoff,
		DaysToExpiration: spec.dte,
	}
	if spec.payoff {
		p.DaysToExpiration = 0
	}

	p.StdDev = profileStdDev(s, spec)
	p.Prices = priceGrid(s, p.StdDev)

	p.PnL = make([]float64, len(p.Prices))
	for i, atPrice := range p.Prices {
		value, err := futureValue(s, atPrice, p.DaysToExpiration, p.Payoff)
		if err != nil {
			return nil, err
		}
		p.PnL[i] = value
	}

	dist := distuv.Normal{Mu: s.underlyingPrice, Sigma: p.StdDev}
	p.POP = probabilityOfProfit(dist, p.Prices, p.PnL)
	p.WeightedPnL = weightedPnL(dist, p.Prices, p.PnL)

	expected, err := s.estimator.expectedProfit(s, p)
	if err != nil {
		return nil, err
	}
	p.ExpectedProfit = expected
	return p, nil
}

// profileStdDev scales the strategy volatility to the profile's horizon: the
// full term for payoff profiles, the elapsed portion (floored) otherwise.
func profileStdDev(s *Strategy, spec profileSpec) float64 {
	days := s.DaysToExpiration()
	if !spec.payoff {
		days = math.Max(days-spec.dte, minForwardDays)
	}
	return s.underlyingPrice * s.Volatility() * math.Sqrt(days/s.yearDays)
}

// priceGrid is a linear spread of simulation points spanning the configured
// number of standard deviations on each side of the underlying.
func priceGrid(s *Strategy, stddev float64) []float64 {
	grid := make([]float64, s.simulations)
	floats.Span(grid,
		s.underlyingPrice-s.stdDevRange*stddev,
		s.underlyingPrice+s.stdDevRange*stddev)
	return grid
}

// futureValue computes the strategy value at a hypothetical underlying price.
// Payoff mode sums terminal leg payoffs; forward mode reprices option legs
// through the kernel at the profile's time-to-expiration.
func futureValue(s *Strategy, atPrice, dte float64, payoff bool) (float64, error) {
	if payoff {
		var total float64
		for _, leg := range s.legs {
			total += leg.Payoff(atPrice)
		}
		return total, nil
	}

	var total float64
	for _, leg := range s.legs {
		var futurePrice, qty float64
		if leg.Kind.IsOption() {
			res, err := pricing.PriceGreeks(pricing.Params{
				Underlying: atPrice,
				Strike:     leg.Strike,
				TimeDays:   dte,
				Kind:       leg.Kind,
				Volatility: leg.Volatility,
				Rate:       s.rate,
				YearDays:   s.yearDays,
			})
			if err != nil {
				return 0, err
			}
			futurePrice = res.Price
			qty = float64(leg.Quantity)
		} else {
			futurePrice = atPrice
			qty = float64(leg.Quantity) / 100
		}
		// Long positions gain what the leg appreciates over the mark;
		// short positions keep what the leg loses from the premium.
		if leg.Quantity > 0 {
			total += (futurePrice - leg.Mark) * qty
		} else {
			total += (leg.Mark - futurePrice) * math.Abs(qty)
		}
	}
	return total, nil
}

// probabilityOfProfit is the normal density mass over profitable grid points
// divided by the mass over the whole grid: a discretized tail probability.
func probabilityOfProfit(dist distuv.Normal, prices, pnl []float64) float64 {
	var profitable, total float64
	for i, price := range prices {
		weight := dist.Prob(price)
		total += weight
		if pnl[i] > 0 {
			profitable += weight
		}
	}
	if total == 0 {
		return 0
	}
	return profitable / total
}

// weightedPnL weights each grid point's PnL by the probability mass of its
// price cell, taken as the discrete derivative of the normal CDF. The
// leftmost cell repeats its neighbor's mass rather than carrying the entire
// lower tail.
func weightedPnL(dist distuv.Normal, prices, pnl []float64) []float64 {
	masses := make([]float64, len(prices))
	prev := 0.0
	for i, price := range prices {
		cdf := dist.CDF(price)
		masses[i] = cdf - prev
		prev = cdf
	}
	if len(masses) > 1 {
		masses[0] = masses[1]
	}

	weighted := make([]float64, len(pnl))
	for i := range pnl {
		weighted[i] = pnl[i] * masses[i]
	}
	return weighted
}
