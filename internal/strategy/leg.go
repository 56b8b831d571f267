// Package strategy models multi-leg option strategies: legs, aggregate
// Greeks, and probability-weighted PnL profiles over simulated price ranges.
package strategy

import (
	"math"

	simerrors "optionsim/internal/errors"
	"optionsim/internal/models"
	"optionsim/internal/pricing"
)

// LegInput is the caller-facing contract for adding a leg to a strategy.
// Exactly one of Mark and Volatility should be supplied for option legs; the
// other is derived by the pricing kernel. Zero means "not supplied" for the
// optional fields.
type LegInput struct {
	Kind     models.Kind
	Strike   float64
	Quantity int

	Volatility float64
	Mark       float64
	Days       float64
	Delta      float64

	// Symbol is metadata only and takes no part in any calculation.
	Symbol string
}

// Leg is a single option or stock position within a strategy. A leg derives
// its valuation and Greeks from the pricing kernel at construction time and
// is immutable afterwards.
type Leg struct {
	Kind       models.Kind
	Strike     float64
	Quantity   int
	Days       float64
	Volatility float64
	Mark       float64
	Greeks     models.Greeks
	Symbol     string
}

// legDefaults carries the owning strategy's scalars into leg construction by
// value, so a leg never holds a reference back to its strategy.
type legDefaults struct {
	underlying float64
	volatility float64
	days       float64 // 0 = no default available
	rate       float64
	yearDays   float64
}

func newLeg(in LegInput, def legDefaults) (Leg, error) {
	if in.Quantity == 0 {
		return Leg{}, simerrors.NewValidationError("quantity", in.Quantity, "must be nonzero")
	}
	if !in.Kind.Valid() {
		return Leg{}, simerrors.NewValidationError("kind", string(in.Kind), `must be "C", "P" or "S"`)
	}
	if in.Kind.IsOption() && in.Strike <= 0 {
		return Leg{}, simerrors.NewValidationError("strike", in.Strike, "must be > 0")
	}

	days := in.Days
	if days == 0 {
		days = def.days
	}
	if days == 0 {
		if in.Kind != models.Stock {
			return Leg{}, simerrors.ErrMissingExpiration
		}
		days = 1
	}
	if days < 0 {
		return Leg{}, simerrors.NewValidationError("days", days, "must be non-negative")
	}

	leg := Leg{
		Kind:     in.Kind,
		Strike:   in.Strike,
		Quantity: in.Quantity,
		Days:     days,
		Mark:     in.Mark,
		Symbol:   in.Symbol,
	}

	if in.Kind == models.Stock {
		// A stock leg is 100 units of underlying per quantity point and
		// carries no option sensitivities.
		leg.Greeks = models.Greeks{Delta: float64(in.Quantity) / 100}
		return leg, nil
	}

	vol := in.Volatility
	if leg.Mark == 0 && vol == 0 {
		vol = def.volatility
	}

	var derived pricing.Result
	if vol == 0 {
		// Only the mark is known: back out volatility and Greeks.
		solved, res, err := pricing.ImpliedVolatility(pricing.IVParams{
			Underlying:  def.underlying,
			Strike:      in.Strike,
			TimeDays:    days,
			TargetPrice: leg.Mark,
			Kind:        in.Kind,
			Rate:        def.rate,
			YearDays:    def.yearDays,
		})
		if err != nil {
			return Leg{}, err
		}
		leg.Volatility = solved
		derived = res
	} else {
		res, err := pricing.PriceGreeks(pricing.Params{
			Underlying: def.underlying,
			Strike:     in.Strike,
			TimeDays:   days,
			Kind:       in.Kind,
			Volatility: vol,
			Rate:       def.rate,
			YearDays:   def.yearDays,
		})
		if err != nil {
			return Leg{}, err
		}
		leg.Volatility = vol
		if leg.Mark == 0 {
			leg.Mark = res.Price
		}
		derived = res
	}

	leg.Greeks = derived.Greeks()
	if in.Delta != 0 {
		// Caller-supplied values always win over derived ones.
		leg.Greeks.Delta = in.Delta
	}
	if in.Quantity < 0 {
		// Decay and volatility sensitivity invert economically for the
		// short side.
		leg.Greeks.Theta = -leg.Greeks.Theta
		leg.Greeks.Vega = -leg.Greeks.Vega
	}
	return leg, nil
}

// Payoff returns the terminal value of the leg at the given underlying price,
// net of the mark originally paid or received, scaled by quantity. For stock
// legs the strike holds the cost basis and a quantity point is 100 units.
func (l Leg) Payoff(underlyingPrice float64) float64 {
	qty := float64(l.Quantity)
	switch l.Kind {
	case models.Call:
		return math.Max(0, underlyingPrice-l.Strike)*qty - l.Mark*qty
	case models.Put:
		return math.Max(0, l.Strike-underlyingPrice)*qty - l.Mark*qty
	default:
		return (underlyingPrice - l.Strike) * qty / 100
	}
}
