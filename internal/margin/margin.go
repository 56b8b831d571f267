// Package margin computes broker-style cash and margin requirements for an
// option strategy, following the formulas in CBOE's Margin Manual.
package margin

import (
	"math"

	"optionsim/internal/models"
	"optionsim/internal/strategy"
)

// DefaultStockMarginPct is the maintenance percentage applied to stock legs.
// Brokers range from 0.2 to 0.5.
const DefaultStockMarginPct = 0.25

// Shape classifies a strategy's option legs by cardinality and sign pattern.
type Shape int

const (
	// Unclassified shapes fall back to summing per-leg single-option
	// margins, which may over-estimate the true requirement.
	Unclassified Shape = iota
	LongSingle
	ShortSingle
	ShortStrangle
	VerticalSpread
	IronCondor
)

// String returns a human-readable shape name.
func (s Shape) String() string {
	switch s {
	case LongSingle:
		return "long single"
	case ShortSingle:
		return "short single"
	case ShortStrangle:
		return "short strangle"
	case VerticalSpread:
		return "vertical spread"
	case IronCondor:
		return "iron condor"
	default:
		return "unclassified"
	}
}

// Requirement is the cash and margin pair for a strategy. Cash is never
// reported below margin.
type Requirement struct {
	Cash   float64
	Margin float64
	Shape  Shape
}

// Calculator computes margin requirements. The zero value uses the default
// stock margin percentage.
type Calculator struct {
	// StockMarginPct overrides DefaultStockMarginPct when nonzero.
	StockMarginPct float64
}

// Classify maps the option legs onto a known shape tag. Each tag dispatches
// to exactly one formula; anything unrecognized is Unclassified.
func Classify(legs []strategy.Leg) Shape {
	switch len(legs) {
	case 1:
		if legs[0].Quantity > 0 {
			return LongSingle
		}
		return ShortSingle
	case 2:
		if legs[0].Quantity < 0 && legs[1].Quantity < 0 {
			return ShortStrangle
		}
		if legs[0].Kind == legs[1].Kind && legs[0].Quantity == -legs[1].Quantity {
			return VerticalSpread
		}
	case 4:
		calls, puts := splitByKind(legs)
		if len(calls) == 2 && len(puts) == 2 &&
			calls[0].Quantity+calls[1].Quantity == 0 &&
			puts[0].Quantity+puts[1].Quantity == 0 &&
			abs(puts[0].Quantity) == abs(calls[0].Quantity) {
			return IronCondor
		}
	}
	return Unclassified
}

// Calculate returns the cash and margin requirement for the strategy's
// current legs. There is no error path: unrecognized leg shapes are absorbed
// by the per-leg fallback rather than rejected.
func (c Calculator) Calculate(s *strategy.Strategy) Requirement {
	stockCash, stockMargin := c.stockMargin(s.StockLegs())

	optionLegs := s.OptionLegs()
	shape := Classify(optionLegs)
	optionCash, optionMargin := c.optionMargin(s, shape, optionLegs)

	cash := stockCash + optionCash
	margin := stockMargin + optionMargin
	if cash < margin {
		cash = margin
	}
	return Requirement{Cash: cash, Margin: margin, Shape: shape}
}

func (c Calculator) optionMargin(s *strategy.Strategy, shape Shape, legs []strategy.Leg) (cash, margin float64) {
	switch shape {
	case LongSingle:
		return longSingleMargin(legs[0])
	case ShortSingle:
		return shortSingleMargin(s.UnderlyingPrice(), s.Symbol(), legs[0])
	case ShortStrangle:
		return shortStrangleMargin(s.UnderlyingPrice(), s.Symbol(), legs)
	case VerticalSpread:
		return spreadMargin(legs)
	case IronCondor:
		calls, puts := splitByKind(legs)
		callCash, callMargin := spreadMargin(calls)
		putCash, putMargin := spreadMargin(puts)
		return math.Max(callCash, putCash), math.Max(callMargin, putMargin)
	default:
		return c.legSumMargin(s, legs)
	}
}

// legSumMargin sums each leg's individually computed single-option margin.
// An approximation: for unrecognized multi-leg shapes it ignores offsets
// between legs and may over-estimate.
func (c Calculator) legSumMargin(s *strategy.Strategy, legs []strategy.Leg) (cash, margin float64) {
	for _, leg := range legs {
		var legCash, legMargin float64
		if leg.Quantity > 0 {
			legCash, legMargin = longSingleMargin(leg)
		} else {
			legCash, legMargin = shortSingleMargin(s.UnderlyingPrice(), s.Symbol(), leg)
		}
		cash += legCash
		margin += legMargin
	}
	return cash, margin
}

// stockMargin applies the maintenance percentage to stock legs; cash is the
// full position value.
func (c Calculator) stockMargin(legs []strategy.Leg) (cash, margin float64) {
	pct := c.StockMarginPct
	if pct == 0 {
		pct = DefaultStockMarginPct
	}
	for _, leg := range legs {
		value := math.Abs(leg.Mark * float64(leg.Quantity))
		cash += value
		margin += value * pct
	}
	return cash, margin
}

// longSingleMargin: pay for each put or call in full; listed options held 90
// days or more margin at 75% of total cost.
func longSingleMargin(leg strategy.Leg) (cash, margin float64) {
	cash = leg.Mark * 100 * float64(leg.Quantity)
	if leg.Days < 90 {
		margin = cash
	} else {
		margin = leg.Mark * 0.75 * 100 * float64(leg.Quantity)
	}
	return cash, margin
}

// shortSingleMargin: 100% of option proceeds plus a percentage of the
// underlying value less the out-of-the-money amount, floored at proceeds
// plus 10% of the exercise price (puts) or underlying value (calls). The
// percentage is 15% (times the leverage factor) for broad-based ETFs and
// indices, 20% for everything else.
func shortSingleMargin(underlying float64, symbol string, leg strategy.Leg) (cash, margin float64) {
	var otmDistance float64
	if leg.Kind == models.Put {
		otmDistance = math.Max(0, underlying-leg.Strike)
	} else {
		otmDistance = math.Max(0, leg.Strike-underlying)
	}

	if leverage, broad := broadBasedETFs[symbol]; broad {
		if leverage == 0 {
			leverage = 1
		}
		if leg.Kind == models.Put {
			minimum := leg.Mark + leg.Strike/10*leverage
			base := leg.Strike + underlying*3/20*leverage - otmDistance
			margin = math.Max(minimum, base)
		} else {
			minimum := leg.Mark + underlying/10*leverage
			base := leg.Mark + underlying*3/20*leverage - otmDistance
			margin = math.Max(minimum, base)
		}
		// Deposit cash or cash equivalents equal to the aggregate
		// exercise price.
		cash = leg.Strike - leg.Mark
	} else {
		if leg.Kind == models.Put {
			minimum := leg.Mark + leg.Strike/10
			base := leg.Mark + underlying/5 - otmDistance
			margin = math.Max(minimum, base)
			cash = leg.Strike - leg.Mark
		} else {
			minimum := leg.Mark + underlying/10
			base := leg.Mark + underlying/5 - otmDistance
			margin = math.Max(minimum, base)
			// Deposit the underlying security.
			cash = underlying - leg.Mark
		}
	}

	cash *= 100 * math.Abs(float64(leg.Quantity))
	margin *= 100 * math.Abs(float64(leg.Quantity))
	return cash, margin
}

// shortStrangleMargin: the greater single short requirement plus the option
// proceeds of the other side; cash is an escrow for each option.
func shortStrangleMargin(underlying float64, symbol string, legs []strategy.Leg) (cash, margin float64) {
	cash1, margin1 := shortSingleMargin(underlying, symbol, legs[0])
	cash2, margin2 := shortSingleMargin(underlying, symbol, legs[1])
	cash = cash1 + cash2
	if margin1 > margin2 {
		margin = margin1 + legs[1].Mark*100*math.Abs(float64(legs[1].Quantity))
	} else {
		margin = margin2 + legs[0].Mark*100*math.Abs(float64(legs[0].Quantity))
	}
	return cash, margin
}

// spreadMargin: the worst-case expiration loss across the legs' strikes plus
// the net premium collected or paid. Cash and margin requirements coincide.
func spreadMargin(legs []strategy.Leg) (cash, margin float64) {
	net := netPremium(legs)
	worst := math.Inf(1)
	for _, ref := range legs {
		var loss float64
		for _, leg := range legs {
			loss += expirationLoss(leg, ref.Strike)
		}
		if loss < worst {
			worst = loss
		}
	}
	required := math.Abs(worst) + net
	return required, required
}

// expirationLoss is the leg's value at expiration for a given underlying
// price; negative for short legs that finish in the money.
func expirationLoss(leg strategy.Leg, price float64) float64 {
	var itmDistance float64
	if leg.Kind == models.Call {
		itmDistance = math.Max(0, price-leg.Strike)
	} else {
		itmDistance = math.Max(0, leg.Strike-price)
	}
	return itmDistance * float64(leg.Quantity) * 100
}

// netPremium is the total debit (positive) or credit (negative) paid or
// collected for the legs.
func netPremium(legs []strategy.Leg) float64 {
	var total float64
	for _, leg := range legs {
		total += float64(leg.Quantity) * leg.Mark * 100
	}
	return total
}

func splitByKind(legs []strategy.Leg) (calls, puts []strategy.Leg) {
	for _, leg := range legs {
		if leg.Kind == models.Call {
			calls = append(calls, leg)
		} else if leg.Kind == models.Put {
			puts = append(puts, leg)
		}
	}
	return calls, puts
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
