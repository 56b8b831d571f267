package pricing

import "math"

// ExpectedMove returns the one-standard-deviation move of the underlying for
// the given volatility and duration, or 0 when no time remains.
func ExpectedMove(underlying, volatility, days float64) float64 {
	if days <= 0 {
		return 0
	}
	return underlying * volatility * math.Sqrt(days/DefaultYearDays)
}

// PriceProbability returns the risk-neutral probability that the underlying
// finishes at or above strike within the given number of days, i.e. the
// lognormal CDF of d2.
func PriceProbability(underlying, strike, timeDays, volatility, rate float64) float64 {
	tYears := timeDays / DefaultYearDays
	sigmaT := volatility * math.Sqrt(tYears)
	rT := rate * tYears
	d2 := (math.Log(underlying/strike) + (rT - 0.5*sigmaT*sigmaT)) / sigmaT
	return stdNormal.CDF(d2)
}
