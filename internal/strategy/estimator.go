package strategy

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// profitEstimator reduces a PnL profile to a single expected-profit figure.
// The closed-form and Monte Carlo paths are interchangeable; the strategy's
// MonteCarlo flag selects between them at construction.
type profitEstimator interface {
	expectedProfit(s *Strategy, p *Profile) (float64, error)
}

// closedFormEstimator sums the probability-weighted PnL across the grid.
type closedFormEstimator struct{}

func (closedFormEstimator) expectedProfit(_ *Strategy, p *Profile) (float64, error) {
	return floats.Sum(p.WeightedPnL), nil
}

// monteCarloEstimator draws normally distributed terminal prices and averages
// the strategy value across them. The result carries sampling variance unless
// the simulation count is large.
type monteCarloEstimator struct {
	src rand.Source
}

func (m *monteCarloEstimator) expectedProfit(s *Strategy, p *Profile) (float64, error) {
	dist := distuv.Normal{Mu: s.underlyingPrice, Sigma: p.StdDev, Src: m.src}

	var total float64
	for i := 0; i < s.simulations; i++ {
		value, err := futureValue(s, dist.Rand(), p.DaysToExpiration, p.Payoff)
		if err != nil {
			return 0, err
		}
		total += value
	}
	return total / float64(s.simulations), nil
}
